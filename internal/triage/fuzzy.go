package triage

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// FuzzyCutoff is the minimum similarity ratio for a fuzzy symptom match.
const FuzzyCutoff = 0.6

// closestMatch returns the candidate most similar to word, comparing
// characters with difflib's SequenceMatcher. A candidate qualifies only if the
// real-quick, quick and full ratios all reach cutoff. Equal ratios are broken
// in favour of the lexically greater candidate, which keeps the result
// independent of candidate order.
func closestMatch(word string, candidates []string, cutoff float64) (string, float64, bool) {
	m := difflib.NewMatcher(nil, chars(word))

	var (
		best      string
		bestScore float64
		found     bool
	)
	for _, c := range candidates {
		m.SetSeq1(chars(c))
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		score := m.Ratio()
		if score < cutoff {
			continue
		}
		if !found || score > bestScore || (score == bestScore && c > best) {
			best, bestScore, found = c, score, true
		}
	}
	return best, bestScore, found
}

func chars(s string) []string {
	return strings.Split(s, "")
}
