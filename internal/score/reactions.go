package score

import (
	"strings"

	"github.com/ecotopia-game/ecotopia/internal/model"
	"github.com/ecotopia-game/ecotopia/internal/parse"
)

// ZeroReactionCard returns a reaction scorecard with every metric at its
// failure default.
func ZeroReactionCard() model.Scorecard {
	card := make(model.Scorecard, len(model.ReactionMetricKeys()))
	for _, key := range model.ReactionMetricKeys() {
		card[key] = 0
	}
	return card
}

// ScoreReactions scores one raw citizen-model response against expected
// reactions. Same failure semantics as ScoreExample: malformed output
// yields a zero scorecard, never an error.
func ScoreReactions(predictedText string, expected model.ReactionSet) model.Scorecard {
	card := ZeroReactionCard()

	predicted, ok := parse.Reactions(predictedText)
	if !ok {
		return card
	}
	card[model.MetricValidJSON] = 1

	reactions := predicted.Reactions
	if len(reactions) > 0 {
		card[model.MetricHasReactions] = 1
	}
	if len(reactions) == len(expected.Reactions) {
		card[model.MetricReactionCountMatch] = 1
	}
	if len(reactions) == 0 {
		return card
	}

	// Mood accuracy: tones inside the trained vocabulary score 0.8,
	// anything else 0.4. There is no per-reaction ground-truth alignment
	// here; this checks vocabulary discipline, not content.
	moodSum := 0.0
	for _, r := range reactions {
		if model.IsValidTone(strings.ToLower(r.Tone)) {
			moodSum += 0.8
		} else {
			moodSum += 0.4
		}
	}
	card[model.MetricMoodAccuracy] = moodSum / float64(len(reactions))

	// Dialogue quality: 0.5 base, +0.2 known citizen, +0.2 non-trivial
	// dialogue, +0.1 approval delta present, capped at 1.0.
	dqSum := 0.0
	for _, r := range reactions {
		s := 0.5
		if model.IsKnownCitizen(r.Name) {
			s += 0.2
		}
		if len(r.Dialogue) > 10 {
			s += 0.2
		}
		if r.ApprovalDelta != nil {
			s += 0.1
		}
		if s > 1.0 {
			s = 1.0
		}
		dqSum += s
	}
	card[model.MetricDialogueQuality] = dqSum / float64(len(reactions))

	return card
}
