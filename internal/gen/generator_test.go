package gen

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ecotopia-game/ecotopia/internal/dataset"
	"github.com/ecotopia-game/ecotopia/internal/parse"
)

func TestGenerator_Extraction(t *testing.T) {
	g := New(42)

	examples, err := g.Extraction(20, "hard")
	if err != nil {
		t.Fatalf("Extraction failed: %v", err)
	}
	if len(examples) != 20 {
		t.Fatalf("expected 20 examples, got %d", len(examples))
	}

	for i, ex := range examples {
		if ex.SystemPrompt() == "" || ex.UserPrompt() == "" {
			t.Errorf("example %d missing chat turns", i)
		}

		extraction, ok := parse.ExtractionResult(ex.Expected())
		if !ok {
			t.Fatalf("example %d reference output does not parse: %s", i, ex.Expected())
		}
		if len(extraction.Promises) < 2 {
			t.Errorf("example %d: hard profile should yield several promises, got %d", i, len(extraction.Promises))
		}
		for _, p := range extraction.Promises {
			if p.Text == "" || p.Type == "" {
				t.Errorf("example %d has incomplete promise: %+v", i, p)
			}
			if p.Confidence == nil {
				t.Errorf("example %d promise missing confidence", i)
			}
		}
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	a, err := New(7).Extraction(5, "medium")
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(7).Extraction(5, "medium")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed should reproduce the dataset:\n%s", diff)
	}

	c, _ := New(8).Extraction(5, "medium")
	if diff := cmp.Diff(a, c); diff == "" {
		t.Error("different seeds should differ")
	}
}

func TestGenerator_EasyProfile(t *testing.T) {
	examples, err := New(1).Extraction(30, "easy")
	if err != nil {
		t.Fatal(err)
	}

	for i, ex := range examples {
		extraction, ok := parse.ExtractionResult(ex.Expected())
		if !ok {
			t.Fatalf("example %d does not parse", i)
		}
		if len(extraction.Contradictions) != 0 {
			t.Errorf("example %d: easy profile must not contain contradictions", i)
		}
	}
}

func TestGenerator_UnknownDifficulty(t *testing.T) {
	if _, err := New(1).Extraction(1, "impossible"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}

func TestGenerator_ValidatesCleanly(t *testing.T) {
	examples, err := New(3).Extraction(10, "medium")
	if err != nil {
		t.Fatal(err)
	}

	report := dataset.Validate(examples)
	if !report.Clean() {
		t.Errorf("generated dataset should validate, got issues: %v", report.Issues)
	}
}
