package indicators

import (
	"math"
	"testing"

	"github.com/fazecat/stockpilot/Internal/types"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestATR(t *testing.T) {
	bars := []types.Bar{
		{High: 10, Low: 8, Close: 9},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
	}

	tests := []struct {
		name   string
		bars   []types.Bar
		period int
		want   *float64
	}{
		{
			name:   "two period ATR over uniform true ranges",
			bars:   bars,
			period: 2,
			want:   ptr(2.0),
		},
		{
			name:   "not enough bars returns nil",
			bars:   bars[:2],
			period: 2,
			want:   nil,
		},
		{
			name:   "zero period returns nil",
			bars:   bars,
			period: 0,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ATR(tt.bars, tt.period)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ATR() = %v, want %v", got, tt.want)
			}
			if got != nil && !almostEqual(*got, *tt.want) {
				t.Errorf("ATR() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestATRUsesGapsInTrueRange(t *testing.T) {
	// Second bar gaps well above the first close, so the true range must
	// come from high minus previous close, not high minus low.
	bars := []types.Bar{
		{High: 10, Low: 9, Close: 10},
		{High: 15, Low: 14.5, Close: 14.8},
	}
	got := ATR(bars, 1)
	if got == nil {
		t.Fatal("ATR() = nil, want value")
	}
	if !almostEqual(*got, 5.0) {
		t.Errorf("ATR() = %v, want 5.0", *got)
	}
}

func TestRSI(t *testing.T) {
	up := barsFromCloses(10, 11, 12, 13, 14)
	down := barsFromCloses(14, 13, 12, 11, 10)

	tests := []struct {
		name   string
		bars   []types.Bar
		period int
		want   *float64
	}{
		{"all gains pin RSI at 100", up, 4, ptr(100.0)},
		{"all losses pin RSI at 0", down, 4, ptr(0.0)},
		{"not enough bars returns nil", up[:3], 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RSI(tt.bars, tt.period)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("RSI() = %v, want %v", got, tt.want)
			}
			if got != nil && !almostEqual(*got, *tt.want) {
				t.Errorf("RSI() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestRSIStaysInBounds(t *testing.T) {
	bars := barsFromCloses(50, 52, 51, 53, 50, 54, 52, 55, 51, 56)
	got := RSI(bars, 4)
	if got == nil {
		t.Fatal("RSI() = nil, want value")
	}
	if *got < 0 || *got > 100 {
		t.Errorf("RSI() = %v, want within [0, 100]", *got)
	}
}

func TestEMA(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		period int
		want   *float64
	}{
		{"window equal to period yields the SMA", []float64{1, 2, 3}, 3, ptr(2.0)},
		{"extra bar blends with smoothing factor", []float64{1, 2, 3, 4}, 3, ptr(3.0)},
		{"not enough bars returns nil", []float64{1, 2}, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EMA(barsFromCloses(tt.closes...), tt.period)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("EMA() = %v, want %v", got, tt.want)
			}
			if got != nil && !almostEqual(*got, *tt.want) {
				t.Errorf("EMA() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestRelativeVolume(t *testing.T) {
	tests := []struct {
		name          string
		volumes       []int64
		currentBars   int
		referenceBars int
		want          float64
	}{
		{
			name:          "double the baseline",
			volumes:       []int64{100, 100, 300, 100},
			currentBars:   2,
			referenceBars: 2,
			want:          2.0,
		},
		{
			name:          "not enough history returns zero",
			volumes:       []int64{100, 200},
			currentBars:   2,
			referenceBars: 2,
			want:          0,
		},
		{
			name:          "zero reference volume returns zero",
			volumes:       []int64{0, 0, 100, 100},
			currentBars:   2,
			referenceBars: 2,
			want:          0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars := make([]types.Bar, len(tt.volumes))
			for i, v := range tt.volumes {
				bars[i] = types.Bar{Volume: v}
			}
			got := RelativeVolume(bars, tt.currentBars, tt.referenceBars)
			if !almostEqual(got, tt.want) {
				t.Errorf("RelativeVolume() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name          string
		lastPrice     float64
		previousClose float64
		want          float64
	}{
		{"gap up", 110, 100, 10},
		{"gap down", 90, 100, -10},
		{"zero previous close is neutral", 50, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(tt.lastPrice, tt.previousClose)
			if !almostEqual(got, tt.want) {
				t.Errorf("PercentChange() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRangePercent(t *testing.T) {
	bars := []types.Bar{
		{High: 11, Low: 9},
		{High: 12, Low: 8},
	}
	if got := RangePercent(bars, 10); !almostEqual(got, 40) {
		t.Errorf("RangePercent() = %v, want 40", got)
	}
	if got := RangePercent(bars, 0); got != 0 {
		t.Errorf("RangePercent() with zero close = %v, want 0", got)
	}
	if got := RangePercent(nil, 10); got != 0 {
		t.Errorf("RangePercent() with no bars = %v, want 0", got)
	}
}

func TestSpreadPercent(t *testing.T) {
	tests := []struct {
		name string
		bid  float64
		ask  float64
		want float64
	}{
		{"normal book", 10, 10.1, 0.1 / 10.05},
		{"missing bid is unknown", 0, 10.1, 0},
		{"missing ask is unknown", 10, 0, 0},
		{"crossed book is unknown", 10.2, 10.1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpreadPercent(tt.bid, tt.ask)
			if !almostEqual(got, tt.want) {
				t.Errorf("SpreadPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVWAP(t *testing.T) {
	bars := []types.Bar{
		{High: 12, Low: 8, Close: 10, Volume: 100},
		{High: 22, Low: 18, Close: 20, Volume: 300},
	}
	// typical prices 10 and 20, weighted 1:3
	if got := VWAP(bars); !almostEqual(got, 17.5) {
		t.Errorf("VWAP() = %v, want 17.5", got)
	}

	noVolume := []types.Bar{
		{High: 12, Low: 8, Close: 10},
		{High: 22, Low: 18, Close: 20},
	}
	if got := VWAP(noVolume); !almostEqual(got, 15) {
		t.Errorf("VWAP() without volume = %v, want mean close 15", got)
	}
}

func TestComputeWithThinHistory(t *testing.T) {
	snap := types.TickerSnapshot{
		Symbol:        "TEST",
		LastPrice:     52,
		PreviousClose: 50,
		Bars:          []types.Bar{{High: 52.5, Low: 49.5, Close: 52, Volume: 1000}},
	}

	m := Compute(snap, DefaultConfig())

	if m.ATR != nil || m.RSI != nil || m.EMAShort != nil || m.EMALong != nil {
		t.Error("expected nil indicators for a single-bar window")
	}
	if !almostEqual(m.PercentChange, 4.0) {
		t.Errorf("PercentChange = %v, want 4.0", m.PercentChange)
	}
	if m.RVOL != 0 {
		t.Errorf("RVOL = %v, want 0 without a reference window", m.RVOL)
	}
	if !m.AboveVWAP {
		t.Error("expected last price above the single-bar VWAP")
	}
}

func barsFromCloses(closes ...float64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{High: c, Low: c, Close: c}
	}
	return bars
}

func ptr(v float64) *float64 {
	return &v
}
