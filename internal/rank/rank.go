// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank turns scored candidates into the final ordered selection.
package rank

import (
	"sort"

	"github.com/pdiddy/litwatch/pkg/types"
)

// Select filters candidates below minScore, orders the survivors by score
// descending with hit-count as the tie-break, and keeps the top pushLimit.
// Exact (score, hit-count) ties fall back to the normalized title ascending
// so that ranking never depends on discovery order.
func Select(scored []types.ScoredCandidate, minScore, pushLimit int) []types.ScoredCandidate {
	var kept []types.ScoredCandidate
	for _, sc := range scored {
		if sc.Score >= minScore {
			kept = append(kept, sc)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		if kept[i].HitCount() != kept[j].HitCount() {
			return kept[i].HitCount() > kept[j].HitCount()
		}
		return kept[i].DedupKey() < kept[j].DedupKey()
	})

	if pushLimit > 0 && len(kept) > pushLimit {
		kept = kept[:pushLimit]
	}
	return kept
}
