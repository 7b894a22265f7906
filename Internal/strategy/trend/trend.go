package trend

import "github.com/fazecat/stockpilot/Internal/types"

// DefaultBenchmarks are the index proxies whose mean percent change
// forms the composite benchmark.
var DefaultBenchmarks = []string{"SPY", "QQQ"}

// Composite is the mean percent change of the benchmark proxies over
// the same window as the candidates. An empty set yields 0.
func Composite(benchmarkChanges []float64) float64 {
	if len(benchmarkChanges) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range benchmarkChanges {
		sum += c
	}
	return sum / float64(len(benchmarkChanges))
}

// Classify labels a candidate's percent change against the composite.
// Strictly above means ABOVE_MARKET, strictly below BELOW_MARKET, equal
// WITH_MARKET. The label never filters a candidate out.
func Classify(candidatePercentChange, composite float64) types.TrendLabel {
	switch {
	case candidatePercentChange > composite:
		return types.TrendAboveMarket
	case candidatePercentChange < composite:
		return types.TrendBelowMarket
	default:
		return types.TrendWithMarket
	}
}
