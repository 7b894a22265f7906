package indicators

import (
	"github.com/fazecat/stockpilot/Internal/types"
	"github.com/fazecat/stockpilot/Internal/utils"
)

// Config fixes the lookback windows for every indicator in the system.
// One convention per metric: ATR is the rolling mean of the true-range
// series, RSI uses Wilder smoothing, EMAs are seeded with the SMA of the
// first window, percent change is measured against the previous close.
type Config struct {
	ATRPeriod         int
	RSIPeriod         int
	EMAShortPeriod    int
	EMALongPeriod     int
	RVOLCurrentBars   int
	RVOLReferenceBars int
}

func DefaultConfig() Config {
	return Config{
		ATRPeriod:         14,
		RSIPeriod:         14,
		EMAShortPeriod:    9,
		EMALongPeriod:     20,
		RVOLCurrentBars:   12,
		RVOLReferenceBars: 48,
	}
}

// Compute derives the full metric set for one snapshot. Indicators with
// too little history come back nil; nothing here ever divides by zero or
// produces NaN. Sentiment is filled in by the caller.
func Compute(snap types.TickerSnapshot, cfg Config) types.Metrics {
	m := types.Metrics{
		ATR:           ATR(snap.Bars, cfg.ATRPeriod),
		RSI:           RSI(snap.Bars, cfg.RSIPeriod),
		EMAShort:      EMA(snap.Bars, cfg.EMAShortPeriod),
		EMALong:       EMA(snap.Bars, cfg.EMALongPeriod),
		RVOL:          RelativeVolume(snap.Bars, cfg.RVOLCurrentBars, cfg.RVOLReferenceBars),
		PercentChange: PercentChange(snap.LastPrice, snap.PreviousClose),
		RangePercent:  RangePercent(snap.Bars, snap.PreviousClose),
		SpreadPercent: SpreadPercent(snap.Bid, snap.Ask),
	}

	m.VWAP = VWAP(snap.Bars)
	m.AboveVWAP = m.VWAP > 0 && snap.LastPrice > m.VWAP

	return m
}

// ATR returns the mean of the last `period` true ranges. Needs period+1
// bars, since the first true range requires a previous close.
func ATR(bars []types.Bar, period int) *float64 {
	if period <= 0 || len(bars) < period+1 {
		return nil
	}

	trueRanges := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		high := bars[i].High
		low := bars[i].Low
		prevClose := bars[i-1].Close
		tr := utils.Max(high-low, utils.Abs(high-prevClose), utils.Abs(low-prevClose))
		trueRanges = append(trueRanges, tr)
	}

	sum := 0.0
	for _, tr := range trueRanges[len(trueRanges)-period:] {
		sum += tr
	}
	atr := sum / float64(period)
	return &atr
}

// RSI computes the Wilder-smoothed relative strength index over closes.
// Needs period+1 bars.
func RSI(bars []types.Bar, period int) *float64 {
	if period <= 0 || len(bars) < period+1 {
		return nil
	}

	closes := extractCloses(bars)

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		rsi := 100.0
		return &rsi
	}
	rs := avgGain / avgLoss
	rsi := 100.0 - 100.0/(1.0+rs)
	return &rsi
}

// EMA returns the exponential moving average of closes, seeded with the
// SMA of the first `period` closes.
func EMA(bars []types.Bar, period int) *float64 {
	if period <= 0 || len(bars) < period {
		return nil
	}

	closes := extractCloses(bars)

	seed := 0.0
	for _, c := range closes[:period] {
		seed += c
	}
	ema := seed / float64(period)

	k := 2.0 / (float64(period) + 1.0)
	for _, c := range closes[period:] {
		ema = c*k + ema*(1.0-k)
	}
	return &ema
}

// RelativeVolume compares average per-bar volume in the current window
// against average per-bar volume in the trailing reference window.
// Returns 0 when there are not enough reference bars, so a missing
// baseline can never pass an RVOL threshold.
func RelativeVolume(bars []types.Bar, currentBars, referenceBars int) float64 {
	if currentBars <= 0 || referenceBars <= 0 {
		return 0
	}
	if len(bars) < currentBars+referenceBars {
		return 0
	}

	current := bars[len(bars)-currentBars:]
	reference := bars[len(bars)-currentBars-referenceBars : len(bars)-currentBars]

	var currentSum, referenceSum int64
	for _, b := range current {
		currentSum += b.Volume
	}
	for _, b := range reference {
		referenceSum += b.Volume
	}

	if referenceSum == 0 {
		return 0
	}

	currentAvg := float64(currentSum) / float64(currentBars)
	referenceAvg := float64(referenceSum) / float64(referenceBars)
	return currentAvg / referenceAvg
}

// PercentChange measures last price against the previous session close.
// A zero previous close (provider outage) yields 0, not a division error.
func PercentChange(lastPrice, previousClose float64) float64 {
	if previousClose == 0 {
		return 0
	}
	return (lastPrice - previousClose) / previousClose * 100.0
}

// RangePercent is the high-low span of the window normalized by the
// previous close.
func RangePercent(bars []types.Bar, previousClose float64) float64 {
	if len(bars) == 0 || previousClose == 0 {
		return 0
	}

	high := bars[0].High
	low := bars[0].Low
	for _, b := range bars[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return (high - low) / previousClose * 100.0
}

// SpreadPercent is (ask-bid)/midpoint. Returns 0 when either side of the
// book is missing or crossed.
func SpreadPercent(bid, ask float64) float64 {
	if bid <= 0 || ask <= 0 || ask < bid {
		return 0
	}
	mid := (ask + bid) / 2.0
	return (ask - bid) / mid
}

// VWAP is the volume-weighted average of typical prices over the window.
// Falls back to the mean close when the window carries no volume.
func VWAP(bars []types.Bar) float64 {
	if len(bars) == 0 {
		return 0
	}

	var weighted float64
	var totalVolume int64
	for _, b := range bars {
		typical := (b.High + b.Low + b.Close) / 3.0
		weighted += typical * float64(b.Volume)
		totalVolume += b.Volume
	}

	if totalVolume == 0 {
		sum := 0.0
		for _, b := range bars {
			sum += b.Close
		}
		return sum / float64(len(bars))
	}
	return weighted / float64(totalVolume)
}

func extractCloses(bars []types.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
