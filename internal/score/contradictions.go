package score

import (
	"strings"

	"github.com/ecotopia-game/ecotopia/internal/model"
)

// ContradictionMatchThreshold is the minimum explanation overlap for a
// predicted contradiction to claim an expected one. Lower than the
// promise threshold because severity equality is already a hard gate.
const ContradictionMatchThreshold = 0.5

// ContradictionStats is the result of comparing predicted contradictions
// against expected ones.
type ContradictionStats struct {
	CountMatch     bool
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Outcomes       []MatchOutcome
}

// CompareContradictions applies the same greedy one-to-one matching
// discipline as ComparePromises, with a different gate: candidates must
// have equal severity (case-insensitive) before explanation overlap is
// even considered, and the overlap bar is ContradictionMatchThreshold.
func CompareContradictions(predicted, expected []model.Contradiction) ContradictionStats {
	stats := ContradictionStats{
		CountMatch: len(predicted) == len(expected),
		Outcomes:   make([]MatchOutcome, 0, len(predicted)),
	}

	matched := make(map[int]bool, len(expected))

	for _, pred := range predicted {
		predSev := normalizeSeverity(pred.Severity)
		bestIdx := -1
		bestScore := 0.0

		for i, exp := range expected {
			if matched[i] {
				continue
			}
			if normalizeSeverity(exp.Severity) != predSev {
				continue
			}
			overlap := Overlap(pred.Explanation, exp.Explanation)
			if overlap > bestScore {
				bestScore = overlap
				bestIdx = i
			}
		}

		if bestScore >= ContradictionMatchThreshold && bestIdx >= 0 {
			stats.TruePositives++
			matched[bestIdx] = true
			stats.Outcomes = append(stats.Outcomes, MatchOutcome{Matched: true, MatchedIndex: bestIdx})
		} else {
			stats.FalsePositives++
			stats.Outcomes = append(stats.Outcomes, MatchOutcome{Matched: false, MatchedIndex: -1})
		}
	}

	stats.FalseNegatives = len(expected) - len(matched)
	return stats
}

func normalizeSeverity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
