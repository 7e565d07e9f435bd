package score

import (
	"errors"

	"github.com/ecotopia-game/ecotopia/internal/model"
	"github.com/ecotopia-game/ecotopia/internal/parse"
)

// ErrEmptyBatch is returned when aggregation is requested over zero
// scorecards. This indicates a caller bug (bad upstream data loading),
// so unlike malformed model output it is never swallowed.
var ErrEmptyBatch = errors.New("score: empty scorecard batch")

// ZeroExtractionCard returns an extraction scorecard with every metric
// at its failure default. Used when the model response is not JSON.
func ZeroExtractionCard() model.Scorecard {
	card := make(model.Scorecard, len(model.ExtractionMetricKeys()))
	for _, key := range model.ExtractionMetricKeys() {
		card[key] = 0
	}
	return card
}

// ScoreExample scores one raw model response against one raw expected
// output. Malformed predicted text degrades to a zero scorecard;
// malformed expected text is treated as an empty ground truth. Either
// way the caller gets a scorecard, never an error: one bad example must
// not stop evaluation of the remaining batch.
func ScoreExample(predictedText, expectedText string) model.Scorecard {
	card := ZeroExtractionCard()

	predicted, ok := parse.ExtractionResult(predictedText)
	if !ok {
		return card
	}
	card[model.MetricValidJSON] = 1

	expected, _ := parse.ExtractionResult(expectedText)

	ps := ComparePromises(predicted.Promises, expected.Promises)
	if ps.CountMatch {
		card[model.MetricPromiseCountMatch] = 1
	}
	card[model.MetricTypePrecision] = ps.TypePrecision
	card[model.MetricTypePrecisionMatched] = ps.TypePrecisionMatched
	card[model.MetricPromiseTP] = float64(ps.TruePositives)
	card[model.MetricPromiseFP] = float64(ps.FalsePositives)
	card[model.MetricPromiseFN] = float64(ps.FalseNegatives)
	card[model.MetricConfidenceMAE] = ps.ConfidenceMAE

	cs := CompareContradictions(predicted.Contradictions, expected.Contradictions)
	card[model.MetricContradictionTP] = float64(cs.TruePositives)
	card[model.MetricContradictionFP] = float64(cs.FalsePositives)
	card[model.MetricContradictionFN] = float64(cs.FalseNegatives)

	// Presence parity: did the model agree on whether any contradiction exists
	if (len(predicted.Contradictions) > 0) == (len(expected.Contradictions) > 0) {
		card[model.MetricContradictionDetection] = 1
	}

	return card
}

// Aggregate reduces a batch of scorecards into one whose value for each
// key is the arithmetic mean across the batch. All scorecards in a batch
// carry the same key set.
func Aggregate(cards []model.Scorecard) (model.Scorecard, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyBatch
	}

	sums := make(model.Scorecard)
	for _, card := range cards {
		for key, value := range card {
			sums[key] += value
		}
	}

	n := float64(len(cards))
	for key := range sums {
		sums[key] /= n
	}
	return sums, nil
}
