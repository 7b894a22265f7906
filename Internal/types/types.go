package types

type Bar struct {
	Timestamp string  `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    int64   `json:"v"`
}

// TickerSnapshot is everything fetched for one symbol in one screening cycle.
// Bars are ordered oldest to newest. Optional fields default to neutral
// values (0, "Unknown", nil) when the provider has no data for them.
type TickerSnapshot struct {
	Symbol            string
	LastPrice         float64
	PreviousClose     float64
	Bars              []Bar
	SharesOutstanding float64
	Bid               float64
	Ask               float64
	Sector            string
	DaysToEarnings    *int // nil when the next earnings date is unknown
}

// Metrics holds the indicators derived from a single snapshot. Pointer
// fields are nil when the lookback window had too few bars for that
// indicator; downstream checks treat nil as a failing value.
type Metrics struct {
	ATR           *float64
	RSI           *float64
	EMAShort      *float64
	EMALong       *float64
	RVOL          float64 // 0 when the reference window is too short
	PercentChange float64 // 0 when previous close is 0
	RangePercent  float64
	SpreadPercent float64 // 0 when either side of the book is missing
	Sentiment     float64 // neutral 0 when no headlines were available
	VWAP          float64
	AboveVWAP     bool
}

type Candidate struct {
	Symbol   string
	Snapshot TickerSnapshot
	Metrics  Metrics
	Score    float64
}

type TrendLabel string

const (
	TrendWithMarket  TrendLabel = "WITH_MARKET"
	TrendAboveMarket TrendLabel = "ABOVE_MARKET"
	TrendBelowMarket TrendLabel = "BELOW_MARKET"
)

// TradePlan is the run's output artifact for one qualifying ticker.
// Monetary fields are rounded to 2 decimal places; it is never persisted
// by the engine itself.
type TradePlan struct {
	Ticker          string     `json:"ticker"`
	Score           float64    `json:"score"`
	EntryPrice      float64    `json:"entry_price"`
	StopLoss        float64    `json:"stop_loss"`
	Target          float64    `json:"target"`
	Shares          int64      `json:"shares"`
	TotalInvested   float64    `json:"total_invested"`
	PotentialProfit float64    `json:"potential_profit"`
	PotentialLoss   float64    `json:"potential_loss"`
	Trend           TrendLabel `json:"trend_label"`
	AboveVWAP       bool       `json:"above_vwap"`
}
