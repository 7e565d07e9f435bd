package score

import (
	"errors"
	"testing"

	"github.com/ecotopia-game/ecotopia/internal/model"
	"github.com/google/go-cmp/cmp"
)

func TestScoreExample_MalformedPredicted(t *testing.T) {
	card := ScoreExample("not json", `{"promises": [{"text": "x", "type": "ecology"}]}`)

	if card[model.MetricValidJSON] != 0 {
		t.Error("expected valid_json 0 for malformed output")
	}
	for _, key := range model.ExtractionMetricKeys() {
		if card[key] != 0 {
			t.Errorf("expected zero default for %s, got %v", key, card[key])
		}
	}
}

func TestScoreExample_Idempotent(t *testing.T) {
	predicted := `{"promises": [{"text": "build solar panels", "type": "ecology", "confidence": 0.8}], "contradictions": []}`
	expected := `{"promises": [{"text": "build solar panels", "type": "ecology", "confidence": 0.9}], "contradictions": []}`

	first := ScoreExample(predicted, expected)
	second := ScoreExample(predicted, expected)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("re-scoring produced different scorecards (-first +second):\n%s", diff)
	}
}

func TestScoreExample_PerfectMatch(t *testing.T) {
	text := `{
		"promises": [
			{"text": "build solar panels", "type": "ecology", "confidence": 0.9},
			{"text": "create 5000 green jobs", "type": "economy", "confidence": 0.8}
		],
		"contradictions": []
	}`

	card := ScoreExample(text, text)

	if card[model.MetricValidJSON] != 1 || card[model.MetricPromiseCountMatch] != 1 {
		t.Errorf("expected valid json and count match: %v", card)
	}
	if card[model.MetricTypePrecision] != 1.0 || card[model.MetricTypePrecisionMatched] != 1.0 {
		t.Errorf("expected type precision 1.0: %v", card)
	}
	if card[model.MetricPromiseTP] != 2 || card[model.MetricPromiseFP] != 0 || card[model.MetricPromiseFN] != 0 {
		t.Errorf("expected tp=2 fp=0 fn=0: %v", card)
	}
	if card[model.MetricContradictionDetection] != 1 {
		t.Error("expected contradiction presence parity for two empty lists")
	}
}

func TestScoreExample_ContradictionPresenceParity(t *testing.T) {
	withContra := `{"promises": [], "contradictions": [{"promise1": "a", "promise2": "b", "explanation": "conflict", "severity": "high"}]}`
	without := `{"promises": [], "contradictions": []}`

	if card := ScoreExample(withContra, without); card[model.MetricContradictionDetection] != 0 {
		t.Error("predicted contradictions against none expected should fail parity")
	}
	if card := ScoreExample(withContra, withContra); card[model.MetricContradictionDetection] != 1 {
		t.Error("matching presence should pass parity")
	}
}

func TestScoreExample_MalformedExpectedTreatedAsEmpty(t *testing.T) {
	predicted := `{"promises": [{"text": "cut taxes", "type": "economy"}]}`

	card := ScoreExample(predicted, "garbage")

	if card[model.MetricValidJSON] != 1 {
		t.Error("predicted side is valid JSON")
	}
	// Empty expected: vacuous type precision, predicted entry is a false positive
	if card[model.MetricTypePrecision] != 1.0 {
		t.Errorf("expected vacuous type precision, got %v", card[model.MetricTypePrecision])
	}
	if card[model.MetricPromiseFP] != 1 {
		t.Errorf("expected 1 false positive, got %v", card[model.MetricPromiseFP])
	}
}

func TestAggregate(t *testing.T) {
	cards := []model.Scorecard{
		{"x": 1.0, "y": 0.0},
		{"x": 0.0, "y": 1.0},
		{"x": 0.5, "y": 0.5},
	}

	out, err := Aggregate(cards)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(out["x"], 0.5) || !almostEqual(out["y"], 0.5) {
		t.Errorf("expected means of 0.5, got %v", out)
	}
}

func TestAggregate_EmptyBatch(t *testing.T) {
	_, err := Aggregate(nil)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestAggregate_SingleCard(t *testing.T) {
	out, err := Aggregate([]model.Scorecard{{"valid_json": 1.0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["valid_json"] != 1.0 {
		t.Errorf("mean of one card is the card itself, got %v", out)
	}
}
