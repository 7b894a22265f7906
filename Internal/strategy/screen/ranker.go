package screen

import (
	"sort"

	"github.com/fazecat/stockpilot/Internal/types"
)

// TieBreak names the secondary ranking metric.
type TieBreak string

const (
	TieBreakATR    TieBreak = "atr"
	TieBreakRVOL   TieBreak = "rvol"
	TieBreakVolume TieBreak = "volume"
)

const DefaultTopN = 10

// Rank orders candidates by score descending, then by the tie-break
// metric descending, and truncates to topN. The sort is stable, so
// candidates that tie on both keys keep their fetch order. Nothing is
// dropped here except by truncation.
func Rank(candidates []types.Candidate, tieBreak TieBreak, topN int) []types.Candidate {
	ranked := make([]types.Candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return tieBreakValue(ranked[i], tieBreak) > tieBreakValue(ranked[j], tieBreak)
	})

	if topN <= 0 {
		topN = DefaultTopN
	}
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

func tieBreakValue(c types.Candidate, tieBreak TieBreak) float64 {
	switch tieBreak {
	case TieBreakATR:
		if c.Metrics.ATR != nil {
			return *c.Metrics.ATR
		}
		return 0
	case TieBreakVolume:
		return float64(SessionVolume(c.Snapshot))
	default:
		return c.Metrics.RVOL
	}
}
