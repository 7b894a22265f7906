package plan

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/fazecat/stockpilot/Internal/types"
)

// Config holds the position-sizing parameters for one run.
type Config struct {
	ATRMultiplier         float64
	RiskPercentage        float64
	MaxSharesPerTrade     int64
	ClampTargetToRecentHigh bool // cap target at window high + one ATR
}

func DefaultConfig() Config {
	return Config{
		ATRMultiplier:     1.5,
		RiskPercentage:    0.02,
		MaxSharesPerTrade: 2000,
	}
}

func (c Config) Validate() error {
	if c.ATRMultiplier <= 0 {
		return fmt.Errorf("atr_multiplier must be positive")
	}
	if c.RiskPercentage <= 0 || c.RiskPercentage >= 1 {
		return fmt.Errorf("risk_percentage must be in (0, 1)")
	}
	if c.MaxSharesPerTrade <= 0 {
		return fmt.Errorf("max_shares_per_trade must be positive")
	}
	return nil
}

// Build derives the trade plan for one accepted candidate. A zero or
// negative per-share risk (degenerate ATR) yields zero shares; the
// caller drops such plans from the final list. Monetary outputs are
// rounded to 2 decimal places here and nowhere earlier.
func Build(candidate types.Candidate, investmentAmount float64, cfg Config) types.TradePlan {
	entry := candidate.Snapshot.LastPrice

	atr := 0.0
	if candidate.Metrics.ATR != nil {
		atr = *candidate.Metrics.ATR
	}

	stopLoss := entry - cfg.ATRMultiplier*atr
	if stopLoss < 0 {
		stopLoss = 0
	}

	target := entry + cfg.ATRMultiplier*atr
	if cfg.ClampTargetToRecentHigh {
		if high, ok := windowHigh(candidate.Snapshot.Bars); ok {
			ceiling := high + atr
			if target > ceiling {
				target = ceiling
			}
		}
	}
	if target < 0 {
		target = 0
	}

	shares := calculateShares(investmentAmount, entry, stopLoss, cfg)

	totalInvested := float64(shares) * entry
	potentialProfit := float64(shares) * (target - entry)
	potentialLoss := float64(shares) * (entry - stopLoss)

	return types.TradePlan{
		Ticker:          candidate.Symbol,
		Score:           round2(candidate.Score),
		EntryPrice:      round2(entry),
		StopLoss:        round2(stopLoss),
		Target:          round2(target),
		Shares:          shares,
		TotalInvested:   round2(totalInvested),
		PotentialProfit: round2(potentialProfit),
		PotentialLoss:   round2(potentialLoss),
		AboveVWAP:       candidate.Metrics.AboveVWAP,
	}
}

// calculateShares sizes the position off the stop distance, then caps
// by available capital and the per-trade share limit.
func calculateShares(investmentAmount, entry, stopLoss float64, cfg Config) int64 {
	perShareRisk := entry - stopLoss
	if perShareRisk <= 0 || entry <= 0 {
		return 0
	}

	riskAmount := investmentAmount * cfg.RiskPercentage
	sharesByRisk := int64(math.Floor(riskAmount / perShareRisk))
	sharesByCapital := int64(math.Floor(investmentAmount / entry))

	shares := sharesByRisk
	if sharesByCapital < shares {
		shares = sharesByCapital
	}
	if cfg.MaxSharesPerTrade < shares {
		shares = cfg.MaxSharesPerTrade
	}
	if shares < 0 {
		shares = 0
	}
	return shares
}

func windowHigh(bars []types.Bar) (float64, bool) {
	if len(bars) == 0 {
		return 0, false
	}
	high := bars[0].High
	for _, b := range bars[1:] {
		if b.High > high {
			high = b.High
		}
	}
	return high, true
}

func round2(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}
