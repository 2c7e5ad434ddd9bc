package common

import "sort"

// fuzzyMatch returns up to limit candidates within edit distance 2 of name,
// sorted by distance then alphabetically so the result is deterministic
// regardless of map iteration order. No pack example or ecosystem library
// offers a tiny, dependency-free edit-distance primitive smaller than the
// ~20 lines below (the closest is a multi-hundred-line spell-checking
// package aimed at natural-language text), so this is hand-rolled and kept
// intentionally minimal.
func fuzzyMatch(candidates []string, name string, limit int) []string {
	type scored struct {
		name string
		dist int
	}

	var matches []scored
	seen := map[string]bool{}
	for _, c := range candidates {
		if c == name || seen[c] {
			continue
		}
		seen[c] = true

		d := levenshtein(name, c)
		if d <= 2 {
			matches = append(matches, scored{c, d})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			cur[j] = min3(del, ins, sub)
		}
		prev, cur = cur, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
