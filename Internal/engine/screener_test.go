package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/fazecat/stockpilot/Internal/strategy/indicators"
	"github.com/fazecat/stockpilot/Internal/strategy/screen"
	"github.com/fazecat/stockpilot/Internal/types"
)

type fakeMarket struct {
	mu    sync.Mutex
	snaps map[string]types.TickerSnapshot
	errs  map[string]error
	calls map[string]int
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		snaps: make(map[string]types.TickerSnapshot),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeMarket) Snapshot(ctx context.Context, symbol string) (types.TickerSnapshot, error) {
	f.mu.Lock()
	f.calls[symbol]++
	f.mu.Unlock()

	if err, ok := f.errs[symbol]; ok {
		return types.TickerSnapshot{}, err
	}
	return f.snaps[symbol], nil
}

func (f *fakeMarket) callCount(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[symbol]
}

type fakeBenchmark struct {
	changes []float64
}

func (f *fakeBenchmark) PercentChanges(ctx context.Context, symbols []string) []float64 {
	return f.changes
}

type fakeSentiment struct {
	score float64
	err   error
}

func (f *fakeSentiment) SentimentScore(ctx context.Context, symbol string) (float64, error) {
	return f.score, f.err
}

// qualifyingSnapshot passes every default hard filter: mid-band price,
// a 4% gap, heavy session volume and an unknown spread.
func qualifyingSnapshot(symbol string) types.TickerSnapshot {
	return types.TickerSnapshot{
		Symbol:        symbol,
		LastPrice:     52,
		PreviousClose: 50,
		Bars: []types.Bar{
			{High: 50.5, Low: 49.5, Close: 50, Volume: 1_000_000},
			{High: 52.5, Low: 50.5, Close: 52, Volume: 1_000_000},
		},
		SharesOutstanding: 100_000_000,
	}
}

// testConfig shortens the ATR lookback so the two-bar snapshots above
// still produce a positive stop distance for the planner.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Indicators = indicators.Config{
		ATRPeriod:         1,
		RSIPeriod:         14,
		EMAShortPeriod:    9,
		EMALongPeriod:     20,
		RVOLCurrentBars:   12,
		RVOLReferenceBars: 48,
	}
	return cfg
}

func TestRunEmptyUniverse(t *testing.T) {
	s := New(newFakeMarket(), nil, nil, testConfig())

	result, err := s.Run(context.Background(), nil, 1000)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (empty result is not a failure)", err)
	}
	if len(result.Plans) != 0 {
		t.Errorf("Plans = %d, want 0", len(result.Plans))
	}
	if result.UniverseSize != 0 {
		t.Errorf("UniverseSize = %d, want 0", result.UniverseSize)
	}
}

func TestRunRejectsNonPositiveInvestment(t *testing.T) {
	s := New(newFakeMarket(), nil, nil, testConfig())

	for _, amount := range []float64{0, -100} {
		if _, err := s.Run(context.Background(), []string{"NVDA"}, amount); err == nil {
			t.Errorf("Run() with investment %v expected error", amount)
		}
	}
}

func TestRunProducesRankedPlans(t *testing.T) {
	market := newFakeMarket()
	market.snaps["AAA"] = qualifyingSnapshot("AAA")

	low := qualifyingSnapshot("BBB")
	low.SharesOutstanding = 10_000_000 // outside the float band, forfeits that weight
	market.snaps["BBB"] = low

	s := New(market, nil, &fakeBenchmark{changes: []float64{2, 4}}, testConfig())

	result, err := s.Run(context.Background(), []string{"BBB", "AAA"}, 10_000)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Accepted != 2 {
		t.Fatalf("Accepted = %d, want 2", result.Accepted)
	}
	if len(result.Plans) != 2 {
		t.Fatalf("Plans = %d, want 2", len(result.Plans))
	}
	if result.Plans[0].Ticker != "AAA" {
		t.Errorf("Plans[0] = %s, want AAA (higher score first)", result.Plans[0].Ticker)
	}
	if result.Plans[0].Score < result.Plans[1].Score {
		t.Error("plan scores are not non-increasing")
	}
	if result.BenchmarkComposite != 3 {
		t.Errorf("BenchmarkComposite = %v, want 3", result.BenchmarkComposite)
	}
	// Both candidates gapped 4% against a 3% composite.
	for _, p := range result.Plans {
		if p.Trend != types.TrendAboveMarket {
			t.Errorf("%s trend = %s, want %s", p.Ticker, p.Trend, types.TrendAboveMarket)
		}
		if p.Shares <= 0 {
			t.Errorf("%s shares = %d, want positive", p.Ticker, p.Shares)
		}
	}
}

func TestRunSkipsFailedFetches(t *testing.T) {
	market := newFakeMarket()
	market.snaps["GOOD"] = qualifyingSnapshot("GOOD")
	market.errs["BAD"] = fmt.Errorf("connection reset")

	s := New(market, nil, nil, testConfig())

	result, err := s.Run(context.Background(), []string{"BAD", "GOOD"}, 10_000)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (a failed ticker is a skip)", err)
	}

	if result.Accepted != 1 {
		t.Errorf("Accepted = %d, want 1", result.Accepted)
	}
	found := false
	for _, rej := range result.Rejections {
		if rej.Symbol == "BAD" && rej.Reason == screen.ReasonDataUnavailable {
			found = true
		}
	}
	if !found {
		t.Errorf("missing data-unavailable rejection for BAD: %+v", result.Rejections)
	}
}

func TestRunExcludedSkipsFetch(t *testing.T) {
	market := newFakeMarket()
	market.snaps["NVDA"] = qualifyingSnapshot("NVDA")

	s := New(market, nil, nil, testConfig())

	result, err := s.Run(context.Background(), []string{"ALLY", "NVDA"}, 10_000)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if market.callCount("ALLY") != 0 {
		t.Error("excluded symbol should never reach the provider")
	}
	found := false
	for _, rej := range result.Rejections {
		if rej.Symbol == "ALLY" && rej.Reason == screen.ReasonExcluded {
			found = true
		}
	}
	if !found {
		t.Errorf("missing excluded rejection for ALLY: %+v", result.Rejections)
	}
}

func TestRunZeroPreviousClose(t *testing.T) {
	market := newFakeMarket()
	snap := qualifyingSnapshot("STALE")
	snap.PreviousClose = 0
	market.snaps["STALE"] = snap

	s := New(market, nil, nil, testConfig())

	result, err := s.Run(context.Background(), []string{"STALE"}, 10_000)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (stale close must not crash the run)", err)
	}

	// Percent change collapses to 0, which falls outside the gap band.
	if len(result.Rejections) != 1 || result.Rejections[0].Reason != screen.ReasonPercentChange {
		t.Errorf("Rejections = %+v, want one percent-change rejection", result.Rejections)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	market := newFakeMarket()
	symbols := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		symbol := fmt.Sprintf("SYM%d", i)
		symbols = append(symbols, symbol)
		market.snaps[symbol] = qualifyingSnapshot(symbol)
	}

	cfg := testConfig()
	cfg.Workers = 4
	s := New(market, nil, nil, cfg)

	first, err := s.Run(context.Background(), symbols, 10_000)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		again, err := s.Run(context.Background(), symbols, 10_000)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(again.Plans) != len(first.Plans) {
			t.Fatalf("plan count changed between runs: %d vs %d", len(again.Plans), len(first.Plans))
		}
		for j := range first.Plans {
			if again.Plans[j].Ticker != first.Plans[j].Ticker {
				t.Fatalf("run %d plan %d = %s, want %s (fully tied candidates must keep input order)",
					i, j, again.Plans[j].Ticker, first.Plans[j].Ticker)
			}
		}
	}
}

func TestRunDropsZeroSharePlans(t *testing.T) {
	market := newFakeMarket()
	snap := qualifyingSnapshot("THIN")
	snap.Bars = snap.Bars[1:] // one bar, no ATR, degenerate stop distance
	market.snaps["THIN"] = snap

	s := New(market, nil, nil, DefaultConfig())

	result, err := s.Run(context.Background(), []string{"THIN"}, 10_000)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Accepted != 1 {
		t.Errorf("Accepted = %d, want 1 (the candidate itself qualifies)", result.Accepted)
	}
	if len(result.Plans) != 0 {
		t.Errorf("Plans = %d, want 0 (zero-share plans are dropped)", len(result.Plans))
	}
}

func TestRunSentimentFailureIsNeutral(t *testing.T) {
	market := newFakeMarket()
	market.snaps["NVDA"] = qualifyingSnapshot("NVDA")

	s := New(market, &fakeSentiment{err: fmt.Errorf("quota exceeded")}, nil, testConfig())

	result, err := s.Run(context.Background(), []string{"NVDA"}, 10_000)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Accepted != 1 {
		t.Errorf("Accepted = %d, want 1 (sentiment failure must not reject)", result.Accepted)
	}
}

func TestRunCancelledContext(t *testing.T) {
	market := newFakeMarket()
	market.snaps["NVDA"] = qualifyingSnapshot("NVDA")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(market, nil, nil, testConfig())
	if _, err := s.Run(ctx, []string{"NVDA"}, 10_000); err == nil {
		t.Error("Run() with cancelled context expected error")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad criteria bubble up", func(c *Config) { c.Criteria.PriceMin = 500 }, true},
		{"bad weights bubble up", func(c *Config) { c.Weights.Volume = 99 }, true},
		{"bad planner bubbles up", func(c *Config) { c.Planner.ATRMultiplier = -1 }, true},
		{"zero workers rejected", func(c *Config) { c.Workers = 0 }, true},
		{"zero timeout rejected", func(c *Config) { c.TickerTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
