// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"testing"

	"github.com/pdiddy/litwatch/pkg/types"
)

func scored(title string, score, hits int) types.ScoredCandidate {
	kws := make([]string, hits)
	for i := range kws {
		kws[i] = string(rune('a' + i))
	}
	return types.ScoredCandidate{
		Candidate: types.Candidate{Title: title, Abstract: "x", Keywords: kws},
		Score:     score,
	}
}

func TestSelectOrdering(t *testing.T) {
	in := []types.ScoredCandidate{
		scored("B", 7, 3),
		scored("D", 6, 5),
		scored("A", 9, 1),
		scored("C", 7, 1),
	}

	got := Select(in, 0, 0)
	want := []string{"A", "B", "C", "D"} // (9,1) (7,3) (7,1) (6,5)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("position %d = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestSelectThresholdIsExclusive(t *testing.T) {
	in := []types.ScoredCandidate{
		scored("Above", 6, 1),
		scored("Below", 5, 9), // high hit-count never rescues a low score
	}

	got := Select(in, 6, 0)
	if len(got) != 1 || got[0].Title != "Above" {
		t.Errorf("got %+v, want only Above", got)
	}
}

func TestSelectTruncatesToPushLimit(t *testing.T) {
	in := []types.ScoredCandidate{
		scored("A", 10, 1),
		scored("B", 9, 1),
		scored("C", 8, 1),
	}

	got := Select(in, 0, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Title != "A" || got[1].Title != "B" {
		t.Errorf("kept %q, %q; want the highest-ranked prefix", got[0].Title, got[1].Title)
	}
}

func TestSelectExactTiesOrderByTitle(t *testing.T) {
	in := []types.ScoredCandidate{
		scored("zeta result", 7, 2),
		scored("Alpha result", 7, 2),
	}

	got := Select(in, 0, 0)
	if got[0].Title != "Alpha result" || got[1].Title != "zeta result" {
		t.Errorf("tie order = %q, %q; want normalized-title ascending", got[0].Title, got[1].Title)
	}
}

func TestSelectEmptyInput(t *testing.T) {
	if got := Select(nil, 6, 20); len(got) != 0 {
		t.Errorf("Select(nil) = %v, want empty", got)
	}
}
