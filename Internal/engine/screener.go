package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fazecat/stockpilot/Internal/strategy/indicators"
	"github.com/fazecat/stockpilot/Internal/strategy/plan"
	"github.com/fazecat/stockpilot/Internal/strategy/screen"
	"github.com/fazecat/stockpilot/Internal/strategy/trend"
	"github.com/fazecat/stockpilot/Internal/types"
)

// MarketDataProvider supplies the raw per-ticker inputs for one cycle.
type MarketDataProvider interface {
	Snapshot(ctx context.Context, symbol string) (types.TickerSnapshot, error)
}

// SentimentProvider maps a ticker to a numeric sentiment score.
type SentimentProvider interface {
	SentimentScore(ctx context.Context, symbol string) (float64, error)
}

// BenchmarkProvider supplies percent changes for the index proxies the
// trend classifier compares against.
type BenchmarkProvider interface {
	PercentChanges(ctx context.Context, symbols []string) []float64
}

type Config struct {
	Criteria   screen.Criteria
	Weights    screen.Weights
	Indicators indicators.Config
	Planner    plan.Config
	TieBreak   screen.TieBreak
	TopN       int
	Workers    int
	TickerTimeout time.Duration
	Benchmarks []string
}

func DefaultConfig() Config {
	return Config{
		Criteria:      screen.DefaultCriteria(),
		Weights:       screen.DefaultWeights(),
		Indicators:    indicators.DefaultConfig(),
		Planner:       plan.DefaultConfig(),
		TieBreak:      screen.TieBreakRVOL,
		TopN:          screen.DefaultTopN,
		Workers:       4,
		TickerTimeout: 15 * time.Second,
		Benchmarks:    trend.DefaultBenchmarks,
	}
}

func (c Config) Validate() error {
	if err := c.Criteria.Validate(); err != nil {
		return fmt.Errorf("criteria: %w", err)
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if err := c.Planner.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.TickerTimeout <= 0 {
		return fmt.Errorf("ticker timeout must be positive")
	}
	return nil
}

// Rejection is the diagnostic trail for one skipped ticker.
type Rejection struct {
	Symbol string
	Reason screen.RejectReason
}

// Result is the output of one screening run. An empty Plans slice with
// a nil error is the "no qualifying candidates" state, distinct from a
// failed run.
type Result struct {
	Plans              []types.TradePlan
	Rejections         []Rejection
	BenchmarkComposite float64
	UniverseSize       int
	Accepted           int
}

type Screener struct {
	market    MarketDataProvider
	sentiment SentimentProvider // optional; nil means neutral sentiment
	benchmark BenchmarkProvider // optional; nil means composite 0
	cfg       Config
}

func New(market MarketDataProvider, sentiment SentimentProvider, benchmark BenchmarkProvider, cfg Config) *Screener {
	return &Screener{
		market:    market,
		sentiment: sentiment,
		benchmark: benchmark,
		cfg:       cfg,
	}
}

// tickerOutcome is what one worker produces for one symbol. Exactly one
// of candidate/reason is meaningful.
type tickerOutcome struct {
	candidate *types.Candidate
	reason    screen.RejectReason
}

// Run screens the given universe against the run's budget and returns
// ranked trade plans. Per-ticker work fans out over a bounded worker
// pool; the stable ranking step makes completion order irrelevant, so
// two runs over identical data produce identical output. Cancelling ctx
// abandons the run and discards partial results.
func (s *Screener) Run(ctx context.Context, symbols []string, investmentAmount float64) (*Result, error) {
	if investmentAmount <= 0 {
		return nil, fmt.Errorf("investment amount must be positive, got %.2f", investmentAmount)
	}

	criteria := s.cfg.Criteria.Resolve(investmentAmount)

	result := &Result{UniverseSize: len(symbols)}

	// Excluded symbols are rejected before any provider call.
	pending := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		if screen.Excluded(symbol, criteria) {
			result.Rejections = append(result.Rejections, Rejection{Symbol: symbol, Reason: screen.ReasonExcluded})
			continue
		}
		pending = append(pending, symbol)
	}

	outcomes := make([]tickerOutcome, len(pending))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := s.cfg.Workers
	if workers > len(pending) {
		workers = len(pending)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = s.evaluateTicker(ctx, pending[i], criteria)
			}
		}()
	}

dispatch:
	for i := range pending {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Merge in input order so the stable sort sees a deterministic
	// sequence no matter which worker finished first.
	var accepted []types.Candidate
	for i, outcome := range outcomes {
		if outcome.candidate != nil {
			accepted = append(accepted, *outcome.candidate)
			continue
		}
		result.Rejections = append(result.Rejections, Rejection{Symbol: pending[i], Reason: outcome.reason})
	}
	result.Accepted = len(accepted)

	ranked := screen.Rank(accepted, s.cfg.TieBreak, s.cfg.TopN)

	composite := 0.0
	if s.benchmark != nil {
		composite = trend.Composite(s.benchmark.PercentChanges(ctx, s.cfg.Benchmarks))
	}
	result.BenchmarkComposite = composite

	for _, candidate := range ranked {
		p := plan.Build(candidate, investmentAmount, s.cfg.Planner)
		if p.Shares == 0 {
			// Degenerate trade math: nothing to buy, so the ticker
			// drops out of the final list.
			log.Printf("Dropping %s from plan list: zero shares (per-share risk not positive)", candidate.Symbol)
			continue
		}
		p.Trend = trend.Classify(candidate.Metrics.PercentChange, composite)
		result.Plans = append(result.Plans, p)
	}

	return result, nil
}

// evaluateTicker runs the fetch-compute-filter-score stage for one
// symbol under its own deadline. Any provider failure, including a
// timeout, is a data-unavailable rejection, never a run failure.
func (s *Screener) evaluateTicker(ctx context.Context, symbol string, criteria screen.Criteria) tickerOutcome {
	tickerCtx, cancel := context.WithTimeout(ctx, s.cfg.TickerTimeout)
	defer cancel()

	snap, err := s.market.Snapshot(tickerCtx, symbol)
	if err != nil {
		log.Printf("Skipping %s: %v", symbol, err)
		return tickerOutcome{reason: screen.ReasonDataUnavailable}
	}

	metrics := indicators.Compute(snap, s.cfg.Indicators)

	if s.sentiment != nil {
		score, err := s.sentiment.SentimentScore(tickerCtx, symbol)
		if err != nil {
			log.Printf("Sentiment unavailable for %s: %v (using neutral)", symbol, err)
		} else {
			metrics.Sentiment = score
		}
	}

	ok, reason := screen.Evaluate(snap, metrics, criteria)
	if !ok {
		return tickerOutcome{reason: reason}
	}

	candidate := types.Candidate{
		Symbol:   symbol,
		Snapshot: snap,
		Metrics:  metrics,
		Score:    screen.Score(snap, metrics, criteria, s.cfg.Weights),
	}
	return tickerOutcome{candidate: &candidate}
}
