package score

import (
	"math"
	"sort"

	"github.com/ecotopia-game/ecotopia/internal/model"
)

// PromiseMatchThreshold is the minimum text overlap for a predicted
// promise to claim an expected one.
const PromiseMatchThreshold = 0.8

// MatchOutcome records how one predicted entry fared during matching.
// Ephemeral: computed per comparison, never persisted.
type MatchOutcome struct {
	Matched      bool
	MatchedIndex int // index into the expected list; -1 when unmatched
}

// PromiseStats is the result of comparing a predicted promise list
// against an expected one.
type PromiseStats struct {
	CountMatch           bool
	TruePositives        int
	FalsePositives       int
	FalseNegatives       int
	TypePrecision        float64 // positional, over sorted type lists
	TypePrecisionMatched float64 // over greedy matched pairs
	ConfidenceMAE        float64 // mean absolute error over matched pairs
	Outcomes             []MatchOutcome
}

// ComparePromises matches predicted promises against expected ones by
// greedy one-to-one text overlap: each predicted promise, in order,
// claims the best-scoring unmatched expected promise if the overlap
// reaches PromiseMatchThreshold. Expected entries never claimed count
// as false negatives; predicted entries that claim nothing count as
// false positives.
func ComparePromises(predicted, expected []model.Promise) PromiseStats {
	stats := PromiseStats{
		CountMatch: len(predicted) == len(expected),
		Outcomes:   make([]MatchOutcome, 0, len(predicted)),
	}

	matched := make(map[int]bool, len(expected))
	typeMatches := 0
	var confidenceErrors []float64

	for _, pred := range predicted {
		bestIdx := -1
		bestOverlap := 0.0

		for i, exp := range expected {
			if matched[i] {
				continue
			}
			overlap := Overlap(pred.Text, exp.Text)
			if overlap > bestOverlap {
				bestOverlap = overlap
				bestIdx = i
			}
		}

		if bestOverlap >= PromiseMatchThreshold && bestIdx >= 0 {
			stats.TruePositives++
			matched[bestIdx] = true
			stats.Outcomes = append(stats.Outcomes, MatchOutcome{Matched: true, MatchedIndex: bestIdx})

			if pred.Type == expected[bestIdx].Type {
				typeMatches++
			}
			confidenceErrors = append(confidenceErrors,
				math.Abs(pred.ConfidenceValue()-expected[bestIdx].ConfidenceValue()))
		} else {
			stats.FalsePositives++
			stats.Outcomes = append(stats.Outcomes, MatchOutcome{Matched: false, MatchedIndex: -1})
		}
	}

	stats.FalseNegatives = len(expected) - len(matched)

	stats.TypePrecision = positionalTypePrecision(predicted, expected)
	// Vacuous-truth policy: with no expected promises there is nothing to
	// get wrong, so both precision variants are 1.0 regardless of the
	// predicted side. This asymmetry is intentional and load-bearing for
	// aggregate scores.
	if len(expected) == 0 {
		stats.TypePrecisionMatched = 1.0
	} else {
		stats.TypePrecisionMatched = float64(typeMatches) / float64(len(expected))
	}

	if len(confidenceErrors) > 0 {
		sum := 0.0
		for _, e := range confidenceErrors {
			sum += e
		}
		stats.ConfidenceMAE = sum / float64(len(confidenceErrors))
	}

	return stats
}

// positionalTypePrecision zips the sorted type lists of both sides and
// counts positional equality over the expected length. This is the
// second type-precision strategy observed in production; it diverges
// from the matched-pair variant on inputs with duplicate types, so both
// are reported side by side.
func positionalTypePrecision(predicted, expected []model.Promise) float64 {
	if len(expected) == 0 {
		return 1.0
	}

	predTypes := make([]string, len(predicted))
	for i, p := range predicted {
		predTypes[i] = p.Type
	}
	expTypes := make([]string, len(expected))
	for i, e := range expected {
		expTypes[i] = e.Type
	}
	sort.Strings(predTypes)
	sort.Strings(expTypes)

	matches := 0
	for i := 0; i < len(expTypes) && i < len(predTypes); i++ {
		if predTypes[i] == expTypes[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(expTypes))
}
