// Package fuzzy provides deterministic name-similarity matching shared by
// the structural validator, the DSL lint engine and the auto-fixer.
//
// Matching is pure and performs no I/O. Given a deterministic candidate
// ordering, results are deterministic.
package fuzzy

import "strings"

// maxSuggestions caps the number of ranked names returned.
const maxSuggestions = 3

// prefixLen is the shared-prefix length used as the weakest match signal.
const prefixLen = 3

// NearestNames returns up to three candidate names ranked by match
// strength: an alias-table hit first, then substring containment in either
// direction, then a shared three-character prefix. The aliases map may be
// nil. Candidates are scanned in order, so callers should pass a sorted
// slice for deterministic output.
func NearestNames(input string, candidates []string, aliases map[string]string) []string {
	input = strings.ToLower(input)

	var names []string
	seen := make(map[string]struct{})
	add := func(name string) bool {
		if _, dup := seen[name]; dup {
			return len(names) >= maxSuggestions
		}
		seen[name] = struct{}{}
		names = append(names, name)
		return len(names) >= maxSuggestions
	}

	if canonical, ok := aliases[input]; ok {
		if add(canonical) {
			return names
		}
	}

	for _, cand := range candidates {
		lc := strings.ToLower(cand)
		if lc == input {
			continue
		}
		if strings.Contains(lc, input) || strings.Contains(input, lc) {
			if add(cand) {
				return names
			}
		}
	}

	if len(input) >= prefixLen {
		prefix := input[:prefixLen]
		for _, cand := range candidates {
			if strings.HasPrefix(strings.ToLower(cand), prefix) {
				if add(cand) {
					return names
				}
			}
		}
	}

	return names
}

// NearestField returns the closest candidate to input by edit distance,
// accepting only matches within max(2, len(input)/3) edits. This stronger
// (and costlier) comparison is reserved for field names, where candidate
// sets are small.
func NearestField(input string, candidates []string) (string, bool) {
	threshold := len(input) / 3
	if threshold < 2 {
		threshold = 2
	}

	best := ""
	bestDist := threshold + 1
	for _, cand := range candidates {
		d := EditDistance(strings.ToLower(input), strings.ToLower(cand))
		if d < bestDist {
			best = cand
			bestDist = d
		}
	}
	if best == "" || bestDist > threshold {
		return "", false
	}
	return best, true
}

// EditDistance computes the Levenshtein distance between a and b using a
// two-row dynamic programming table.
func EditDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
