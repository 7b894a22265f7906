package screen

import "fmt"

// Criteria is the immutable threshold set for one screening run. All
// bounds are inclusive. Build it once from config, resolve it against
// the run's budget, and pass it by value; no component mutates it.
type Criteria struct {
	PriceMin             float64
	PriceMax             float64
	PriceMaxBudgetFactor float64 // 0 disables budget scaling of PriceMax
	VolumeMin            int64
	PercentChangeMin     float64
	PercentChangeMax     float64
	RVOLThreshold        float64
	ATRMin               float64
	ATRMax               float64
	FloatMin             float64
	FloatMax             float64
	RSIMin               float64
	RSIMax               float64
	RangeMinPercent      float64
	MinSentimentScore    float64
	MaxSpreadPercent     float64
	ExcludedTickers      map[string]bool
	EarningsLookaheadDays int
	Filters              FilterToggles
}

// FilterToggles selects which checks act as hard filters. Disabled
// checks still feed the score, they just can't reject a ticker.
type FilterToggles struct {
	Price         bool
	Volume        bool
	PercentChange bool
	RVOL          bool
	ATR           bool
	Float         bool
	RSI           bool
	Range         bool
	Sentiment     bool
	Spread        bool
	Momentum      bool // EMA short > long confirmation
}

// DefaultCriteria mirrors the long-standing screener defaults: $20-175
// price band, 1M session volume, 2-10% gap, 1.5x RVOL, ATR 1-3, float
// 50M-200M, RSI 40-70, 1% minimum range, 0.2 sentiment floor, 0.5% max
// spread, 3-day earnings blackout.
func DefaultCriteria() Criteria {
	return Criteria{
		PriceMin:             20,
		PriceMax:             175,
		VolumeMin:            1_000_000,
		PercentChangeMin:     2.0,
		PercentChangeMax:     10.0,
		RVOLThreshold:        1.5,
		ATRMin:               1,
		ATRMax:               3,
		FloatMin:             50_000_000,
		FloatMax:             200_000_000,
		RSIMin:               40,
		RSIMax:               70,
		RangeMinPercent:      1.0,
		MinSentimentScore:    0.2,
		MaxSpreadPercent:     0.005,
		ExcludedTickers:      map[string]bool{"ALLY": true},
		EarningsLookaheadDays: 3,
		Filters: FilterToggles{
			Price:         true,
			Volume:        true,
			PercentChange: true,
			Spread:        true,
		},
	}
}

// Resolve returns a copy with the price ceiling scaled to the run's
// budget when a budget factor is configured. The lower of the static
// and scaled ceilings wins.
func (c Criteria) Resolve(investmentAmount float64) Criteria {
	if c.PriceMaxBudgetFactor > 0 {
		scaled := investmentAmount * c.PriceMaxBudgetFactor
		if scaled < c.PriceMax {
			c.PriceMax = scaled
		}
	}
	return c
}

// Validate rejects threshold sets that are unsatisfiable by
// construction. This is fatal at load time, never silently ignored.
func (c Criteria) Validate() error {
	if c.PriceMin < 0 || c.PriceMax < 0 {
		return fmt.Errorf("price bounds must be non-negative")
	}
	if c.PriceMin > c.PriceMax {
		return fmt.Errorf("price_min %.2f exceeds price_max %.2f", c.PriceMin, c.PriceMax)
	}
	if c.PercentChangeMin > c.PercentChangeMax {
		return fmt.Errorf("percent_change_min %.2f exceeds percent_change_max %.2f", c.PercentChangeMin, c.PercentChangeMax)
	}
	if c.ATRMin > c.ATRMax {
		return fmt.Errorf("atr_min %.2f exceeds atr_max %.2f", c.ATRMin, c.ATRMax)
	}
	if c.FloatMin > c.FloatMax {
		return fmt.Errorf("float_min %.0f exceeds float_max %.0f", c.FloatMin, c.FloatMax)
	}
	if c.RSIMin > c.RSIMax {
		return fmt.Errorf("rsi_min %.1f exceeds rsi_max %.1f", c.RSIMin, c.RSIMax)
	}
	if c.RSIMin < 0 || c.RSIMax > 100 {
		return fmt.Errorf("rsi bounds must stay within 0-100")
	}
	if c.MaxSpreadPercent < 0 {
		return fmt.Errorf("max_spread_percent must be non-negative")
	}
	if c.EarningsLookaheadDays < 0 {
		return fmt.Errorf("earnings_lookahead_days must be non-negative")
	}
	return nil
}
