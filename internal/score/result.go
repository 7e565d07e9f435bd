package score

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ecotopia-game/ecotopia/internal/model"
)

// pricePerMillion maps known model ids to USD per million tokens.
// Fine-tuned ids like "ft:open-mistral-nemo:..." price as their base.
var pricePerMillion = map[string]struct{ Input, Output float64 }{
	"ministral-8b-latest":  {0.1, 0.1},
	"open-mistral-nemo":    {0.15, 0.15},
	"mistral-small-latest": {0.2, 0.6},
	"mistral-large-latest": {2.0, 6.0},
}

var defaultPrice = struct{ Input, Output float64 }{1.0, 3.0}

// PRF holds precision, recall and F1 derived from raw match counts
type PRF struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Prediction stores one example's raw outcome for later inspection
type Prediction struct {
	Index     int             `json:"index"`
	Expected  string          `json:"expected"`
	Predicted string          `json:"predicted"`
	ValidJSON bool            `json:"valid_json"`
	Latency   float64         `json:"latency_s"`
	Card      model.Scorecard `json:"scorecard"`
}

// EvalResult accumulates raw evaluation tallies for a single model
// across a batch of examples. Derived metrics (rates, P/R/F1, cost) are
// computed on read so partial results always report consistently.
type EvalResult struct {
	ModelID          string
	TotalExamples    int
	ValidJSONCount   int
	PromiseTP        int
	PromiseFP        int
	PromiseFN        int
	ContradictionTP  int
	ContradictionFP  int
	ContradictionFN  int
	ConfidenceErrors []float64
	Latencies        []time.Duration
	InputTokens      int
	OutputTokens     int
	Predictions      []Prediction
	Cards            []model.Scorecard
}

// NewEvalResult creates an empty accumulator for the given model
func NewEvalResult(modelID string) *EvalResult {
	return &EvalResult{ModelID: modelID}
}

// Record folds one scored example into the accumulator
func (r *EvalResult) Record(index int, predictedText, expectedText string, card model.Scorecard, latency time.Duration) {
	r.TotalExamples++
	r.Latencies = append(r.Latencies, latency)
	r.Cards = append(r.Cards, card)

	valid := card[model.MetricValidJSON] == 1
	if valid {
		r.ValidJSONCount++
	}
	r.PromiseTP += int(card[model.MetricPromiseTP])
	r.PromiseFP += int(card[model.MetricPromiseFP])
	r.PromiseFN += int(card[model.MetricPromiseFN])
	r.ContradictionTP += int(card[model.MetricContradictionTP])
	r.ContradictionFP += int(card[model.MetricContradictionFP])
	r.ContradictionFN += int(card[model.MetricContradictionFN])
	// One entry per example that produced at least one matched pair
	if card[model.MetricPromiseTP] > 0 {
		r.ConfidenceErrors = append(r.ConfidenceErrors, card[model.MetricConfidenceMAE])
	}

	r.Predictions = append(r.Predictions, Prediction{
		Index:     index,
		Expected:  truncate(expectedText, 500),
		Predicted: truncate(predictedText, 500),
		ValidJSON: valid,
		Latency:   latency.Seconds(),
		Card:      card,
	})
}

// AddUsage records token consumption for one API call
func (r *EvalResult) AddUsage(inputTokens, outputTokens int) {
	r.InputTokens += inputTokens
	r.OutputTokens += outputTokens
}

// JSONValidityRate is the fraction of responses that parsed as JSON
func (r *EvalResult) JSONValidityRate() float64 {
	if r.TotalExamples == 0 {
		return 0
	}
	return float64(r.ValidJSONCount) / float64(r.TotalExamples)
}

// AvgLatency is the mean response time
func (r *EvalResult) AvgLatency() time.Duration {
	if len(r.Latencies) == 0 {
		return 0
	}
	var sum time.Duration
	for _, l := range r.Latencies {
		sum += l
	}
	return sum / time.Duration(len(r.Latencies))
}

// ConfidenceMAE is the mean absolute error of confidence scores over
// matched promises
func (r *EvalResult) ConfidenceMAE() float64 {
	if len(r.ConfidenceErrors) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range r.ConfidenceErrors {
		sum += e
	}
	return sum / float64(len(r.ConfidenceErrors))
}

// PromiseMetrics derives precision/recall/F1 for promise extraction
func (r *EvalResult) PromiseMetrics() PRF {
	return prf(r.PromiseTP, r.PromiseFP, r.PromiseFN)
}

// ContradictionMetrics derives precision/recall/F1 for contradiction detection
func (r *EvalResult) ContradictionMetrics() PRF {
	return prf(r.ContradictionTP, r.ContradictionFP, r.ContradictionFN)
}

// EstimatedCost returns the estimated API spend in USD
func (r *EvalResult) EstimatedCost() float64 {
	base := strings.TrimPrefix(r.ModelID, "ft:")
	if idx := strings.Index(base, ":"); idx >= 0 {
		base = base[:idx]
	}
	price, ok := pricePerMillion[base]
	if !ok {
		price = defaultPrice
	}
	return float64(r.InputTokens)*price.Input/1_000_000 +
		float64(r.OutputTokens)*price.Output/1_000_000
}

// Summary flattens the accumulator into a metrics map for logging
func (r *EvalResult) Summary() map[string]interface{} {
	pm := r.PromiseMetrics()
	cm := r.ContradictionMetrics()
	return map[string]interface{}{
		"model":                   r.ModelID,
		"json_validity_rate":      round4(r.JSONValidityRate()),
		"promise_precision":       round4(pm.Precision),
		"promise_recall":          round4(pm.Recall),
		"promise_f1":              round4(pm.F1),
		"contradiction_precision": round4(cm.Precision),
		"contradiction_recall":    round4(cm.Recall),
		"contradiction_f1":        round4(cm.F1),
		"confidence_mae":          round4(r.ConfidenceMAE()),
		"avg_latency_s":           math.Round(r.AvgLatency().Seconds()*1000) / 1000,
		"total_examples":          r.TotalExamples,
		"input_tokens":            r.InputTokens,
		"output_tokens":           r.OutputTokens,
		"estimated_cost_usd":      math.Round(r.EstimatedCost()*1e6) / 1e6,
	}
}

func prf(tp, fp, fn int) PRF {
	var p, rec, f1 float64
	if tp+fp > 0 {
		p = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		rec = float64(tp) / float64(tp+fn)
	}
	if p+rec > 0 {
		f1 = 2 * p * rec / (p + rec)
	}
	return PRF{Precision: p, Recall: rec, F1: f1}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
