// Package fuzzy implements token-set string similarity for catalog
// matching.
//
// The scorer is order-independent: it compares sorted token sets rather
// than raw strings, so "SYKES ACE HARDWARE MIAMI FL" and "ACE HARDWARE"
// score highly despite the length difference. When one token set is a
// subset of the other the score is 100.
package fuzzy

import (
	"sort"
	"strings"
)

// Ratio returns the indel similarity of two strings in [0, 100]:
// 100 * 2*LCS / (len(a)+len(b)).
func Ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	lcs := lcsLength(a, b)
	return 100 * 2 * float64(lcs) / float64(len(a)+len(b))
}

// lcsLength computes longest-common-subsequence length with a rolling
// single-row table.
func lcsLength(a, b string) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := 1; i <= len(b); i++ {
		for j := 1; j <= len(a); j++ {
			if b[i-1] == a[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

// TokenSetRatio compares the unique token sets of a and b. It splits on
// whitespace, separates the shared tokens from each side's remainder,
// and returns the best pairwise ratio of:
//
//	intersection            vs intersection + remainder(a)
//	intersection            vs intersection + remainder(b)
//	intersection + rem(a)   vs intersection + remainder(b)
//
// Subset containment therefore scores 100.
func TokenSetRatio(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var inter, diffA, diffB []string
	for tok := range tokensA {
		if tokensB[tok] {
			inter = append(inter, tok)
		} else {
			diffA = append(diffA, tok)
		}
	}
	for tok := range tokensB {
		if !tokensA[tok] {
			diffB = append(diffB, tok)
		}
	}
	sort.Strings(inter)
	sort.Strings(diffA)
	sort.Strings(diffB)

	sectJoined := strings.Join(inter, " ")
	combinedA := joinNonEmpty(sectJoined, strings.Join(diffA, " "))
	combinedB := joinNonEmpty(sectJoined, strings.Join(diffB, " "))

	best := Ratio(sectJoined, combinedA)
	if r := Ratio(sectJoined, combinedB); r > best {
		best = r
	}
	if r := Ratio(combinedA, combinedB); r > best {
		best = r
	}
	return best
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

// Match is a scored candidate returned by ExtractOne.
type Match struct {
	Value string
	Score float64
}

// ExtractOne returns the best-scoring choice at or above cutoff. Ties
// keep the earlier choice so results are deterministic for a stable
// catalog order. ok is false when no choice clears the cutoff.
func ExtractOne(query string, choices []string, cutoff float64) (Match, bool) {
	var best Match
	found := false
	for _, choice := range choices {
		score := TokenSetRatio(query, choice)
		if score < cutoff {
			continue
		}
		if !found || score > best.Score {
			best = Match{Value: choice, Score: score}
			found = true
		}
	}
	return best, found
}
