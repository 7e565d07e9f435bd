package score

import (
	"testing"
	"time"

	"github.com/ecotopia-game/ecotopia/internal/model"
)

func TestEvalResult_PRF(t *testing.T) {
	r := NewEvalResult("mistral-large-latest")
	r.PromiseTP = 8
	r.PromiseFP = 2
	r.PromiseFN = 2

	pm := r.PromiseMetrics()
	if !almostEqual(pm.Precision, 0.8) || !almostEqual(pm.Recall, 0.8) || !almostEqual(pm.F1, 0.8) {
		t.Errorf("expected P/R/F1 of 0.8, got %+v", pm)
	}
}

func TestEvalResult_PRF_ZeroDenominators(t *testing.T) {
	r := NewEvalResult("m")
	pm := r.PromiseMetrics()
	if pm.Precision != 0 || pm.Recall != 0 || pm.F1 != 0 {
		t.Errorf("expected all-zero PRF with no counts, got %+v", pm)
	}
}

func TestEvalResult_Record(t *testing.T) {
	r := NewEvalResult("ministral-8b-latest")

	card := ScoreExample(
		`{"promises": [{"text": "open wind farms", "type": "ecology"}]}`,
		`{"promises": [{"text": "open wind farms", "type": "ecology"}]}`,
	)
	r.Record(0, "pred", "exp", card, 200*time.Millisecond)
	r.Record(1, "bad", "exp", ScoreExample("bad", "{}"), 100*time.Millisecond)

	if r.TotalExamples != 2 || r.ValidJSONCount != 1 {
		t.Errorf("expected 2 examples, 1 valid, got %d/%d", r.TotalExamples, r.ValidJSONCount)
	}
	if !almostEqual(r.JSONValidityRate(), 0.5) {
		t.Errorf("expected validity rate 0.5, got %v", r.JSONValidityRate())
	}
	if r.PromiseTP != 1 {
		t.Errorf("expected 1 promise TP folded in, got %d", r.PromiseTP)
	}
	if r.AvgLatency() != 150*time.Millisecond {
		t.Errorf("expected avg latency 150ms, got %v", r.AvgLatency())
	}
	if len(r.Predictions) != 2 {
		t.Errorf("expected 2 stored predictions, got %d", len(r.Predictions))
	}
}

func TestEvalResult_EstimatedCost(t *testing.T) {
	r := NewEvalResult("ft:mistral-large-latest")
	r.AddUsage(1_000_000, 1_000_000)

	// Fine-tuned ids price as their base model: 2.0 in + 6.0 out
	if !almostEqual(r.EstimatedCost(), 8.0) {
		t.Errorf("expected cost 8.0, got %v", r.EstimatedCost())
	}

	unknown := NewEvalResult("some-unknown-model")
	unknown.AddUsage(1_000_000, 0)
	if !almostEqual(unknown.EstimatedCost(), 1.0) {
		t.Errorf("expected default input price 1.0, got %v", unknown.EstimatedCost())
	}
}

func TestEvalResult_Summary(t *testing.T) {
	r := NewEvalResult("mistral-large-latest")
	r.Record(0, "p", "e", ZeroExtractionCard(), time.Second)

	s := r.Summary()
	if s["model"] != "mistral-large-latest" {
		t.Errorf("unexpected model in summary: %v", s["model"])
	}
	if s["total_examples"] != 1 {
		t.Errorf("unexpected example count: %v", s["total_examples"])
	}
}

func TestTruncate_RuneSafe(t *testing.T) {
	// The byte cut must back off to a rune boundary instead of
	// splitting a multi-byte character.
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 500, "short"},
		{"abcdef", 3, "abc"},
		{"größe", 4, "grö"},
		{"日本語", 4, "日"},
		{"日本語", 2, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestEvalResult_AggregateCards(t *testing.T) {
	r := NewEvalResult("m")
	valid := model.Scorecard{"valid_json": 1}
	invalid := model.Scorecard{"valid_json": 0}
	r.Cards = append(r.Cards, valid, invalid)

	mean, err := Aggregate(r.Cards)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(mean["valid_json"], 0.5) {
		t.Errorf("expected 0.5, got %v", mean["valid_json"])
	}
}
