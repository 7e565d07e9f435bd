// Package score compares structured LLM extraction output against ground
// truth and reduces per-example scorecards into batch summaries.
package score

import "strings"

// Tokens returns the set of lowercase whitespace-delimited tokens in s.
// No stemming and no punctuation stripping: the matching is a heuristic
// over short promise texts, not a general NLP matcher.
func Tokens(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Overlap computes word-level overlap between two strings:
// |A ∩ B| / min(|A|, |B|), or 0 if either side has no tokens.
// Symmetric in its arguments.
func Overlap(a, b string) float64 {
	ta := Tokens(a)
	tb := Tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	intersection := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			intersection++
		}
	}

	smaller := len(ta)
	if len(tb) < smaller {
		smaller = len(tb)
	}
	return float64(intersection) / float64(smaller)
}
