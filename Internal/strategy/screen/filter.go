package screen

import (
	"github.com/fazecat/stockpilot/Internal/types"
)

// RejectReason identifies the first filter a ticker failed. It is plain
// data for diagnostics, not an error.
type RejectReason int

const (
	ReasonNone RejectReason = iota
	ReasonExcluded
	ReasonDataUnavailable
	ReasonEarningsSoon
	ReasonPrice
	ReasonVolume
	ReasonPercentChange
	ReasonRVOL
	ReasonATR
	ReasonFloat
	ReasonRSI
	ReasonRange
	ReasonSentiment
	ReasonSpread
	ReasonMomentum
)

var reasonNames = map[RejectReason]string{
	ReasonNone:            "accepted",
	ReasonExcluded:        "excluded symbol",
	ReasonDataUnavailable: "data unavailable",
	ReasonEarningsSoon:    "earnings within blackout window",
	ReasonPrice:           "price outside band",
	ReasonVolume:          "volume below minimum",
	ReasonPercentChange:   "percent change outside band",
	ReasonRVOL:            "relative volume below threshold",
	ReasonATR:             "ATR outside band",
	ReasonFloat:           "float outside band",
	ReasonRSI:             "RSI outside band",
	ReasonRange:           "range percent below minimum",
	ReasonSentiment:       "sentiment below minimum",
	ReasonSpread:          "spread above maximum",
	ReasonMomentum:        "EMA momentum not confirmed",
}

func (r RejectReason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// Excluded reports whether a symbol is blocked outright. Callers check
// this before fetching any data so excluded names cost no provider calls.
func Excluded(symbol string, criteria Criteria) bool {
	return criteria.ExcludedTickers[symbol]
}

// Evaluate applies the enabled filters as an ordered conjunction and
// stops at the first failure. All bound comparisons are inclusive.
// A nil metric fails its check: a candidate cannot pass on missing data.
func Evaluate(snap types.TickerSnapshot, metrics types.Metrics, criteria Criteria) (bool, RejectReason) {
	if Excluded(snap.Symbol, criteria) {
		return false, ReasonExcluded
	}
	if len(snap.Bars) == 0 || snap.LastPrice <= 0 {
		return false, ReasonDataUnavailable
	}
	if snap.DaysToEarnings != nil && *snap.DaysToEarnings <= criteria.EarningsLookaheadDays {
		return false, ReasonEarningsSoon
	}

	f := criteria.Filters
	if f.Price && !passesPrice(snap, criteria) {
		return false, ReasonPrice
	}
	if f.Volume && !passesVolume(snap, criteria) {
		return false, ReasonVolume
	}
	if f.PercentChange && !passesPercentChange(metrics, criteria) {
		return false, ReasonPercentChange
	}
	if f.RVOL && !passesRVOL(metrics, criteria) {
		return false, ReasonRVOL
	}
	if f.ATR && !passesATR(metrics, criteria) {
		return false, ReasonATR
	}
	if f.Float && !passesFloat(snap, criteria) {
		return false, ReasonFloat
	}
	if f.RSI && !passesRSI(metrics, criteria) {
		return false, ReasonRSI
	}
	if f.Range && !passesRange(metrics, criteria) {
		return false, ReasonRange
	}
	if f.Sentiment && !passesSentiment(metrics, criteria) {
		return false, ReasonSentiment
	}
	if f.Spread && !passesSpread(metrics, criteria) {
		return false, ReasonSpread
	}
	if f.Momentum && !passesMomentum(metrics) {
		return false, ReasonMomentum
	}

	return true, ReasonNone
}

// SessionVolume is the cumulative volume across the evaluation window.
func SessionVolume(snap types.TickerSnapshot) int64 {
	var total int64
	for _, b := range snap.Bars {
		total += b.Volume
	}
	return total
}

// The predicates below are shared between the filter and the scorer so
// both always agree on what passing means.

func passesPrice(snap types.TickerSnapshot, c Criteria) bool {
	return snap.LastPrice >= c.PriceMin && snap.LastPrice <= c.PriceMax
}

func passesVolume(snap types.TickerSnapshot, c Criteria) bool {
	return SessionVolume(snap) >= c.VolumeMin
}

func passesPercentChange(m types.Metrics, c Criteria) bool {
	return m.PercentChange >= c.PercentChangeMin && m.PercentChange <= c.PercentChangeMax
}

func passesRVOL(m types.Metrics, c Criteria) bool {
	return m.RVOL >= c.RVOLThreshold
}

func passesATR(m types.Metrics, c Criteria) bool {
	return m.ATR != nil && *m.ATR >= c.ATRMin && *m.ATR <= c.ATRMax
}

func passesFloat(snap types.TickerSnapshot, c Criteria) bool {
	return snap.SharesOutstanding >= c.FloatMin && snap.SharesOutstanding <= c.FloatMax
}

func passesRSI(m types.Metrics, c Criteria) bool {
	return m.RSI != nil && *m.RSI >= c.RSIMin && *m.RSI <= c.RSIMax
}

func passesRange(m types.Metrics, c Criteria) bool {
	return m.RangePercent >= c.RangeMinPercent
}

func passesSentiment(m types.Metrics, c Criteria) bool {
	return m.Sentiment >= c.MinSentimentScore
}

// A zero spread is the unknown-book sentinel and passes, matching how
// quotes without both sides have always been treated.
func passesSpread(m types.Metrics, c Criteria) bool {
	return m.SpreadPercent <= c.MaxSpreadPercent
}

func passesMomentum(m types.Metrics) bool {
	return m.EMAShort != nil && m.EMALong != nil && *m.EMAShort > *m.EMALong
}
