package screen

import (
	"fmt"

	"github.com/fazecat/stockpilot/Internal/types"
)

// Weights assigns each scoring check its contribution to the 0-10
// composite. A check either earns its full weight or nothing; there is
// no partial credit. Weights across enabled checks must sum to 10.
type Weights struct {
	Volume        float64 `yaml:"volume"`
	PercentChange float64 `yaml:"percent_change"`
	RVOL          float64 `yaml:"rvol"`
	Float         float64 `yaml:"float"`
	ATR           float64 `yaml:"atr"`
	Range         float64 `yaml:"range"`
	Sentiment     float64 `yaml:"sentiment"`
	Spread        float64 `yaml:"spread"`
	Price         float64 `yaml:"price"`
}

func DefaultWeights() Weights {
	return Weights{
		Volume:        1.5,
		PercentChange: 1.5,
		RVOL:          1.5,
		Float:         1.0,
		ATR:           1.5,
		Range:         1.0,
		Sentiment:     1.0,
		Spread:        0.5,
		Price:         0.5,
	}
}

func (w Weights) Total() float64 {
	return w.Volume + w.PercentChange + w.RVOL + w.Float + w.ATR +
		w.Range + w.Sentiment + w.Spread + w.Price
}

// Validate enforces the 10-point budget. Individual weights may be zero
// to disable a check, but the enabled set must still sum to 10.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"volume": w.Volume, "percent_change": w.PercentChange, "rvol": w.RVOL,
		"float": w.Float, "atr": w.ATR, "range": w.Range,
		"sentiment": w.Sentiment, "spread": w.Spread, "price": w.Price,
	} {
		if v < 0 {
			return fmt.Errorf("weight %q must be non-negative", name)
		}
	}

	const epsilon = 1e-9
	if total := w.Total(); total < 10.0-epsilon || total > 10.0+epsilon {
		return fmt.Errorf("scoring weights sum to %.4f, want 10", total)
	}
	return nil
}

// Score computes the weighted composite for an accepted ticker. Same
// inputs always give the same score: the checks are pure predicates
// over the snapshot and metrics. Full precision is kept here; rounding
// happens only at the display boundary.
func Score(snap types.TickerSnapshot, metrics types.Metrics, criteria Criteria, weights Weights) float64 {
	score := 0.0

	if passesVolume(snap, criteria) {
		score += weights.Volume
	}
	if passesPercentChange(metrics, criteria) {
		score += weights.PercentChange
	}
	if passesRVOL(metrics, criteria) {
		score += weights.RVOL
	}
	if passesFloat(snap, criteria) {
		score += weights.Float
	}
	if passesATR(metrics, criteria) {
		score += weights.ATR
	}
	if passesRange(metrics, criteria) {
		score += weights.Range
	}
	if passesSentiment(metrics, criteria) {
		score += weights.Sentiment
	}
	if passesSpread(metrics, criteria) {
		score += weights.Spread
	}
	if passesPrice(snap, criteria) {
		score += weights.Price
	}

	return score
}
