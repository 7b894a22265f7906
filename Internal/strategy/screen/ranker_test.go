package screen

import (
	"testing"

	"github.com/fazecat/stockpilot/Internal/types"
)

func candidate(symbol string, score, rvol float64) types.Candidate {
	return types.Candidate{
		Symbol:  symbol,
		Score:   score,
		Metrics: types.Metrics{RVOL: rvol},
	}
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	candidates := []types.Candidate{
		candidate("LOW", 2, 1),
		candidate("HIGH", 9, 1),
		candidate("MID", 5, 1),
	}

	ranked := Rank(candidates, TieBreakRVOL, 10)

	want := []string{"HIGH", "MID", "LOW"}
	for i, symbol := range want {
		if ranked[i].Symbol != symbol {
			t.Errorf("ranked[%d] = %s, want %s", i, ranked[i].Symbol, symbol)
		}
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("scores not non-increasing at %d", i)
		}
	}
}

func TestRankTieBreak(t *testing.T) {
	candidates := []types.Candidate{
		candidate("WEAK", 7, 1.2),
		candidate("STRONG", 7, 3.4),
	}

	ranked := Rank(candidates, TieBreakRVOL, 10)
	if ranked[0].Symbol != "STRONG" {
		t.Errorf("ranked[0] = %s, want STRONG", ranked[0].Symbol)
	}
}

func TestRankStableOnFullTie(t *testing.T) {
	candidates := []types.Candidate{
		candidate("FIRST", 7, 2.0),
		candidate("SECOND", 7, 2.0),
		candidate("THIRD", 7, 2.0),
	}

	ranked := Rank(candidates, TieBreakRVOL, 10)
	want := []string{"FIRST", "SECOND", "THIRD"}
	for i, symbol := range want {
		if ranked[i].Symbol != symbol {
			t.Errorf("ranked[%d] = %s, want %s (input order must hold on ties)", i, ranked[i].Symbol, symbol)
		}
	}
}

func TestRankTruncation(t *testing.T) {
	candidates := []types.Candidate{
		candidate("A", 9, 1),
		candidate("B", 8, 1),
		candidate("C", 7, 1),
	}

	if got := Rank(candidates, TieBreakRVOL, 2); len(got) != 2 {
		t.Errorf("len(Rank(topN=2)) = %d, want 2", len(got))
	}
	if got := Rank(candidates, TieBreakRVOL, 0); len(got) != 3 {
		t.Errorf("len(Rank(topN=0)) = %d, want 3 (default cap)", len(got))
	}
}

func TestRankATRTieBreakHandlesNil(t *testing.T) {
	atr := 2.5
	withATR := candidate("WITH", 7, 0)
	withATR.Metrics.ATR = &atr
	withoutATR := candidate("WITHOUT", 7, 0)

	ranked := Rank([]types.Candidate{withoutATR, withATR}, TieBreakATR, 10)
	if ranked[0].Symbol != "WITH" {
		t.Errorf("ranked[0] = %s, want WITH (nil ATR ranks as 0)", ranked[0].Symbol)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	candidates := []types.Candidate{
		candidate("A", 1, 1),
		candidate("B", 9, 1),
	}

	Rank(candidates, TieBreakRVOL, 10)
	if candidates[0].Symbol != "A" || candidates[1].Symbol != "B" {
		t.Error("Rank() mutated its input slice")
	}
}
