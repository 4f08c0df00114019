package scoring

import (
	"encoding/json"
	"sort"
)

// decodeAll unmarshals every entry's score payload into T, aligned by
// index. Rows a validator wrote always decode; a corrupt row decodes to
// the zero value rather than aborting the whole leaderboard.
func decodeAll[T any](entries []Entry) []T {
	scores := make([]T, len(entries))
	for i, e := range entries {
		_ = json.Unmarshal(e.ScoreData, &scores[i])
	}
	return scores
}

// sortEntries stably reorders entries best-first under ranksAbove, keeping
// the decoded scores aligned while sorting.
func sortEntries[T any](entries []Entry, scores []T, ranksAbove func(a, b T) bool) {
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return ranksAbove(scores[idx[i]], scores[idx[j]])
	})
	sorted := make([]Entry, len(entries))
	for i, k := range idx {
		sorted[i] = entries[k]
	}
	copy(entries, sorted)
}
