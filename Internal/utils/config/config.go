package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fazecat/stockpilot/Internal/engine"
	"github.com/fazecat/stockpilot/Internal/strategy/indicators"
	"github.com/fazecat/stockpilot/Internal/strategy/plan"
	"github.com/fazecat/stockpilot/Internal/strategy/screen"
	"github.com/fazecat/stockpilot/Internal/strategy/trend"
)

type Config struct {
	Global struct {
		MarketHours struct {
			RegularOpen    string `yaml:"regular_open"`
			RegularClose   string `yaml:"regular_close"`
			PremarketOpen  string `yaml:"premarket_open"`
			AfterhourClose string `yaml:"afterhours_close"`
			Timezone       string `yaml:"timezone"`
		} `yaml:"market_hours"`
	} `yaml:"global"`

	Universe struct {
		Watchlist  []string `yaml:"watchlist"`
		TopActives int      `yaml:"top_actives"`
	} `yaml:"universe"`

	Screener struct {
		PriceMin             float64  `yaml:"price_min"`
		PriceMax             float64  `yaml:"price_max"`
		PriceMaxBudgetFactor float64  `yaml:"price_max_budget_factor"`
		VolumeMin            int64    `yaml:"volume_min"`
		PercentChangeMin     float64  `yaml:"percent_change_min"`
		PercentChangeMax     float64  `yaml:"percent_change_max"`
		RVOLThreshold        float64  `yaml:"rvol_threshold"`
		ATRMin               float64  `yaml:"atr_min"`
		ATRMax               float64  `yaml:"atr_max"`
		FloatMin             float64  `yaml:"float_min"`
		FloatMax             float64  `yaml:"float_max"`
		RSIMin               float64  `yaml:"rsi_min"`
		RSIMax               float64  `yaml:"rsi_max"`
		RangeMinPercent      float64  `yaml:"range_min_percent"`
		MinSentimentScore    float64  `yaml:"min_sentiment_score"`
		MaxSpreadPercent     float64  `yaml:"max_spread_percent"`
		ExcludedTickers      []string `yaml:"excluded_tickers"`
		EarningsLookaheadDays int     `yaml:"earnings_lookahead_days"`

		Filters struct {
			Price         bool `yaml:"price"`
			Volume        bool `yaml:"volume"`
			PercentChange bool `yaml:"percent_change"`
			RVOL          bool `yaml:"rvol"`
			ATR           bool `yaml:"atr"`
			Float         bool `yaml:"float"`
			RSI           bool `yaml:"rsi"`
			Range         bool `yaml:"range"`
			Sentiment     bool `yaml:"sentiment"`
			Spread        bool `yaml:"spread"`
			Momentum      bool `yaml:"momentum"`
		} `yaml:"filters"`
	} `yaml:"screener"`

	Weights screen.Weights `yaml:"weights"`

	Indicators struct {
		ATRPeriod         int `yaml:"atr_period"`
		RSIPeriod         int `yaml:"rsi_period"`
		EMAShort          int `yaml:"ema_short"`
		EMALong           int `yaml:"ema_long"`
		RVOLCurrentBars   int `yaml:"rvol_current_bars"`
		RVOLReferenceBars int `yaml:"rvol_reference_bars"`
	} `yaml:"indicators"`

	Planner struct {
		ATRMultiplier         float64 `yaml:"atr_multiplier"`
		RiskPercentage        float64 `yaml:"risk_percentage"`
		MaxSharesPerTrade     int64   `yaml:"max_shares_per_trade"`
		ClampTargetToRecentHigh bool  `yaml:"clamp_target_to_recent_high"`
	} `yaml:"planner"`

	Run struct {
		TopN                 int      `yaml:"top_n"`
		TieBreak             string   `yaml:"tie_break"`
		Workers              int      `yaml:"workers"`
		TickerTimeoutSeconds int      `yaml:"ticker_timeout_seconds"`
		Benchmarks           []string `yaml:"benchmarks"`
		InvestmentAmount     float64  `yaml:"investment_amount"`
	} `yaml:"run"`
}

// DefaultConfig carries the same defaults the engine packages use, so a
// missing config file still produces a fully working setup.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Global.MarketHours.RegularOpen = "09:30"
	cfg.Global.MarketHours.RegularClose = "16:00"
	cfg.Global.MarketHours.PremarketOpen = "04:00"
	cfg.Global.MarketHours.AfterhourClose = "20:00"
	cfg.Global.MarketHours.Timezone = "America/New_York"

	cfg.Universe.TopActives = 50

	criteria := screen.DefaultCriteria()
	cfg.Screener.PriceMin = criteria.PriceMin
	cfg.Screener.PriceMax = criteria.PriceMax
	cfg.Screener.VolumeMin = criteria.VolumeMin
	cfg.Screener.PercentChangeMin = criteria.PercentChangeMin
	cfg.Screener.PercentChangeMax = criteria.PercentChangeMax
	cfg.Screener.RVOLThreshold = criteria.RVOLThreshold
	cfg.Screener.ATRMin = criteria.ATRMin
	cfg.Screener.ATRMax = criteria.ATRMax
	cfg.Screener.FloatMin = criteria.FloatMin
	cfg.Screener.FloatMax = criteria.FloatMax
	cfg.Screener.RSIMin = criteria.RSIMin
	cfg.Screener.RSIMax = criteria.RSIMax
	cfg.Screener.RangeMinPercent = criteria.RangeMinPercent
	cfg.Screener.MinSentimentScore = criteria.MinSentimentScore
	cfg.Screener.MaxSpreadPercent = criteria.MaxSpreadPercent
	for symbol := range criteria.ExcludedTickers {
		cfg.Screener.ExcludedTickers = append(cfg.Screener.ExcludedTickers, symbol)
	}
	cfg.Screener.EarningsLookaheadDays = criteria.EarningsLookaheadDays
	cfg.Screener.Filters.Price = criteria.Filters.Price
	cfg.Screener.Filters.Volume = criteria.Filters.Volume
	cfg.Screener.Filters.PercentChange = criteria.Filters.PercentChange
	cfg.Screener.Filters.Spread = criteria.Filters.Spread

	cfg.Weights = screen.DefaultWeights()

	ind := indicators.DefaultConfig()
	cfg.Indicators.ATRPeriod = ind.ATRPeriod
	cfg.Indicators.RSIPeriod = ind.RSIPeriod
	cfg.Indicators.EMAShort = ind.EMAShortPeriod
	cfg.Indicators.EMALong = ind.EMALongPeriod
	cfg.Indicators.RVOLCurrentBars = ind.RVOLCurrentBars
	cfg.Indicators.RVOLReferenceBars = ind.RVOLReferenceBars

	planner := plan.DefaultConfig()
	cfg.Planner.ATRMultiplier = planner.ATRMultiplier
	cfg.Planner.RiskPercentage = planner.RiskPercentage
	cfg.Planner.MaxSharesPerTrade = planner.MaxSharesPerTrade

	cfg.Run.TopN = screen.DefaultTopN
	cfg.Run.TieBreak = string(screen.TieBreakRVOL)
	cfg.Run.Workers = 4
	cfg.Run.TickerTimeoutSeconds = 15
	cfg.Run.Benchmarks = trend.DefaultBenchmarks
	cfg.Run.InvestmentAmount = 1000

	return cfg
}

func LoadConfig() (*Config, error) {
	// Resolve path relative to this file first
	_, filePath, _, ok := runtime.Caller(0)
	var basePath string
	if ok {
		basePath = filepath.Dir(filePath)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	possiblePaths := []string{}
	if basePath != "" {
		possiblePaths = append(possiblePaths, filepath.Join(basePath, "config.yaml"))
	}
	possiblePaths = append(possiblePaths,
		filepath.Join(cwd, "Internal", "utils", "config", "config.yaml"),
		"Internal/utils/config/config.yaml",
		"config.yaml",
	)

	var data []byte
	for _, path := range possiblePaths {
		data, err = os.ReadFile(path)
		if err == nil {
			break
		}
	}

	cfg := DefaultConfig()
	if err != nil {
		// No file found anywhere: run on defaults.
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile("Internal/utils/config/config.yaml", data, 0644)
}

// EngineConfig assembles and validates the immutable per-run engine
// configuration. Unsatisfiable thresholds fail here, before any
// provider is touched.
func (c *Config) EngineConfig() (engine.Config, error) {
	criteria := screen.Criteria{
		PriceMin:             c.Screener.PriceMin,
		PriceMax:             c.Screener.PriceMax,
		PriceMaxBudgetFactor: c.Screener.PriceMaxBudgetFactor,
		VolumeMin:            c.Screener.VolumeMin,
		PercentChangeMin:     c.Screener.PercentChangeMin,
		PercentChangeMax:     c.Screener.PercentChangeMax,
		RVOLThreshold:        c.Screener.RVOLThreshold,
		ATRMin:               c.Screener.ATRMin,
		ATRMax:               c.Screener.ATRMax,
		FloatMin:             c.Screener.FloatMin,
		FloatMax:             c.Screener.FloatMax,
		RSIMin:               c.Screener.RSIMin,
		RSIMax:               c.Screener.RSIMax,
		RangeMinPercent:      c.Screener.RangeMinPercent,
		MinSentimentScore:    c.Screener.MinSentimentScore,
		MaxSpreadPercent:     c.Screener.MaxSpreadPercent,
		ExcludedTickers:      make(map[string]bool, len(c.Screener.ExcludedTickers)),
		EarningsLookaheadDays: c.Screener.EarningsLookaheadDays,
		Filters: screen.FilterToggles{
			Price:         c.Screener.Filters.Price,
			Volume:        c.Screener.Filters.Volume,
			PercentChange: c.Screener.Filters.PercentChange,
			RVOL:          c.Screener.Filters.RVOL,
			ATR:           c.Screener.Filters.ATR,
			Float:         c.Screener.Filters.Float,
			RSI:           c.Screener.Filters.RSI,
			Range:         c.Screener.Filters.Range,
			Sentiment:     c.Screener.Filters.Sentiment,
			Spread:        c.Screener.Filters.Spread,
			Momentum:      c.Screener.Filters.Momentum,
		},
	}
	for _, symbol := range c.Screener.ExcludedTickers {
		criteria.ExcludedTickers[symbol] = true
	}

	cfg := engine.Config{
		Criteria: criteria,
		Weights:  c.Weights,
		Indicators: indicators.Config{
			ATRPeriod:         c.Indicators.ATRPeriod,
			RSIPeriod:         c.Indicators.RSIPeriod,
			EMAShortPeriod:    c.Indicators.EMAShort,
			EMALongPeriod:     c.Indicators.EMALong,
			RVOLCurrentBars:   c.Indicators.RVOLCurrentBars,
			RVOLReferenceBars: c.Indicators.RVOLReferenceBars,
		},
		Planner: plan.Config{
			ATRMultiplier:         c.Planner.ATRMultiplier,
			RiskPercentage:        c.Planner.RiskPercentage,
			MaxSharesPerTrade:     c.Planner.MaxSharesPerTrade,
			ClampTargetToRecentHigh: c.Planner.ClampTargetToRecentHigh,
		},
		TieBreak:      screen.TieBreak(c.Run.TieBreak),
		TopN:          c.Run.TopN,
		Workers:       c.Run.Workers,
		TickerTimeout: time.Duration(c.Run.TickerTimeoutSeconds) * time.Second,
		Benchmarks:    c.Run.Benchmarks,
	}

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

// MarketStatus reports the session phase for the given instant.
func (c *Config) MarketStatus(now time.Time) (string, bool) {
	loc, err := time.LoadLocation(c.Global.MarketHours.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)

	if local.Weekday() == time.Saturday || local.Weekday() == time.Sunday {
		return "Closed (weekend)", false
	}

	minutes := local.Hour()*60 + local.Minute()
	preOpen := parseClock(c.Global.MarketHours.PremarketOpen, 4*60)
	open := parseClock(c.Global.MarketHours.RegularOpen, 9*60+30)
	closeAt := parseClock(c.Global.MarketHours.RegularClose, 16*60)
	afterClose := parseClock(c.Global.MarketHours.AfterhourClose, 20*60)

	switch {
	case minutes >= open && minutes < closeAt:
		return "Open", true
	case minutes >= preOpen && minutes < open:
		return "Premarket", false
	case minutes >= closeAt && minutes < afterClose:
		return "After Hours", false
	default:
		return "Closed", false
	}
}

func parseClock(value string, fallback int) int {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return fallback
	}
	return t.Hour()*60 + t.Minute()
}
