package model

// Scorecard is a flat metric-name-to-value mapping produced for one
// evaluated example. Scorecards in the same batch share an identical
// key set so they can be averaged pointwise.
type Scorecard map[string]float64

// Extraction metric keys
const (
	MetricValidJSON              = "valid_json"
	MetricPromiseCountMatch      = "promise_count_match"
	MetricTypePrecision          = "type_precision"         // positional, over sorted type lists
	MetricTypePrecisionMatched   = "type_precision_matched" // over greedy matched pairs
	MetricContradictionDetection = "contradiction_detection"
	MetricPromiseTP              = "promise_tp"
	MetricPromiseFP              = "promise_fp"
	MetricPromiseFN              = "promise_fn"
	MetricContradictionTP        = "contradiction_tp"
	MetricContradictionFP        = "contradiction_fp"
	MetricContradictionFN        = "contradiction_fn"
	MetricConfidenceMAE          = "confidence_mae"
)

// Reaction metric keys
const (
	MetricHasReactions       = "has_reactions"
	MetricReactionCountMatch = "reaction_count_match"
	MetricMoodAccuracy       = "mood_accuracy"
	MetricDialogueQuality    = "dialogue_quality"
)

// ExtractionMetricKeys returns the metric keys every extraction scorecard
// carries, in reporting order.
func ExtractionMetricKeys() []string {
	return []string{
		MetricValidJSON,
		MetricPromiseCountMatch,
		MetricTypePrecision,
		MetricTypePrecisionMatched,
		MetricContradictionDetection,
		MetricPromiseTP,
		MetricPromiseFP,
		MetricPromiseFN,
		MetricContradictionTP,
		MetricContradictionFP,
		MetricContradictionFN,
		MetricConfidenceMAE,
	}
}

// ReactionMetricKeys returns the metric keys every reaction scorecard
// carries, in reporting order.
func ReactionMetricKeys() []string {
	return []string{
		MetricValidJSON,
		MetricHasReactions,
		MetricReactionCountMatch,
		MetricMoodAccuracy,
		MetricDialogueQuality,
	}
}

// Clone returns an independent copy of the scorecard
func (s Scorecard) Clone() Scorecard {
	out := make(Scorecard, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
