package gamestate

import (
	"math/rand"
)

// DrawWords picks count words independently and uniformly (with
// replacement) from the given list.
func DrawWords(list []string, count int) []string {
	words := make([]string, count)
	for i := range words {
		words[i] = list[rand.Intn(len(list))]
	}
	return words
}

// DrawDistinct picks count distinct integers uniformly from [min, max]
// without replacement, by rejection sampling into a set.
func DrawDistinct(min, max, count int) []int {
	if max-min+1 < count {
		count = max - min + 1
	}
	seen := make(map[int]struct{}, count)
	out := make([]int, 0, count)
	for len(out) < count {
		n := min + rand.Intn(max-min+1)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
