package score

import (
	"testing"

	"github.com/ecotopia-game/ecotopia/internal/model"
)

func promise(text, typ string) model.Promise {
	return model.Promise{Text: text, Type: typ}
}

func TestComparePromises_SelfMatch(t *testing.T) {
	promises := []model.Promise{
		promise("build solar panels on every public building", model.TypeEcology),
		promise("invest 50 million in renewable energy research", model.TypeResearch),
		promise("create 5000 green jobs", model.TypeEconomy),
	}

	stats := ComparePromises(promises, promises)

	if !stats.CountMatch {
		t.Error("expected count match for identical lists")
	}
	if stats.TruePositives != 3 || stats.FalsePositives != 0 || stats.FalseNegatives != 0 {
		t.Errorf("expected 3/0/0, got %d/%d/%d", stats.TruePositives, stats.FalsePositives, stats.FalseNegatives)
	}
	if stats.TypePrecision != 1.0 || stats.TypePrecisionMatched != 1.0 {
		t.Errorf("expected type precision 1.0/1.0, got %v/%v", stats.TypePrecision, stats.TypePrecisionMatched)
	}
	if stats.ConfidenceMAE != 0 {
		t.Errorf("expected zero confidence MAE for identical lists, got %v", stats.ConfidenceMAE)
	}
}

// Near-miss below the 0.8 bar: "build solar panels" vs "build solar farms"
// overlap is 2/3, so both sides go unmatched even though the counts agree.
func TestComparePromises_BelowThreshold(t *testing.T) {
	predicted := []model.Promise{promise("build solar panels", model.TypeEcology)}
	expected := []model.Promise{promise("build solar farms", model.TypeEcology)}

	stats := ComparePromises(predicted, expected)

	if !stats.CountMatch {
		t.Error("expected count match (equal lengths)")
	}
	if stats.TruePositives != 0 || stats.FalsePositives != 1 || stats.FalseNegatives != 1 {
		t.Errorf("expected 0/1/1, got %d/%d/%d", stats.TruePositives, stats.FalsePositives, stats.FalseNegatives)
	}
	if len(stats.Outcomes) != 1 || stats.Outcomes[0].Matched {
		t.Errorf("expected one unmatched outcome, got %+v", stats.Outcomes)
	}
}

func TestComparePromises_BothEmpty(t *testing.T) {
	stats := ComparePromises(nil, nil)

	if !stats.CountMatch {
		t.Error("expected count match for two empty lists")
	}
	if stats.TruePositives != 0 || stats.FalsePositives != 0 || stats.FalseNegatives != 0 {
		t.Error("expected zero tallies for two empty lists")
	}
	if stats.TypePrecision != 1.0 || stats.TypePrecisionMatched != 1.0 {
		t.Errorf("expected vacuous type precision 1.0, got %v/%v", stats.TypePrecision, stats.TypePrecisionMatched)
	}
}

// Empty expected side: type precision is vacuously 1.0 no matter what the
// model hallucinated. Predicted entries still count as false positives.
func TestComparePromises_EmptyExpected(t *testing.T) {
	predicted := []model.Promise{
		promise("double the economy overnight", model.TypeEconomy),
		promise("triple research funding", model.TypeResearch),
	}

	stats := ComparePromises(predicted, nil)

	if stats.TypePrecision != 1.0 || stats.TypePrecisionMatched != 1.0 {
		t.Errorf("expected vacuous type precision 1.0, got %v/%v", stats.TypePrecision, stats.TypePrecisionMatched)
	}
	if stats.FalsePositives != 2 || stats.FalseNegatives != 0 {
		t.Errorf("expected 2 false positives, got fp=%d fn=%d", stats.FalsePositives, stats.FalseNegatives)
	}
	if stats.CountMatch {
		t.Error("expected count mismatch")
	}
}

// Each expected entry may be claimed at most once. Two predicted copies of
// the same text compete for one expected slot; the second becomes a false
// positive.
func TestComparePromises_OneToOne(t *testing.T) {
	predicted := []model.Promise{
		promise("close the coal plant", model.TypeEcology),
		promise("close the coal plant", model.TypeEcology),
	}
	expected := []model.Promise{promise("close the coal plant", model.TypeEcology)}

	stats := ComparePromises(predicted, expected)

	if stats.TruePositives != 1 || stats.FalsePositives != 1 || stats.FalseNegatives != 0 {
		t.Errorf("expected 1/1/0, got %d/%d/%d", stats.TruePositives, stats.FalsePositives, stats.FalseNegatives)
	}
	if stats.Outcomes[0].MatchedIndex != 0 {
		t.Errorf("first predicted entry should claim expected index 0, got %d", stats.Outcomes[0].MatchedIndex)
	}
}

func TestComparePromises_ConfidenceMAE(t *testing.T) {
	high := 0.9
	low := 0.6
	predicted := []model.Promise{{Text: "open wind farms", Type: model.TypeEcology, Confidence: &high}}
	expected := []model.Promise{{Text: "open wind farms", Type: model.TypeEcology, Confidence: &low}}

	stats := ComparePromises(predicted, expected)

	if !almostEqual(stats.ConfidenceMAE, 0.3) {
		t.Errorf("expected MAE 0.3, got %v", stats.ConfidenceMAE)
	}
}

func TestComparePromises_ConfidenceDefaults(t *testing.T) {
	conf := 0.7
	predicted := []model.Promise{{Text: "open wind farms", Type: model.TypeEcology, Confidence: &conf}}
	expected := []model.Promise{{Text: "open wind farms", Type: model.TypeEcology}} // defaults to 0.5

	stats := ComparePromises(predicted, expected)

	if !almostEqual(stats.ConfidenceMAE, 0.2) {
		t.Errorf("expected MAE 0.2 against default confidence, got %v", stats.ConfidenceMAE)
	}
}

// The two type-precision strategies diverge on duplicate types: sorted
// positional zip can credit a type that no matched pair reproduced.
func TestComparePromises_TypePrecisionStrategiesDiverge(t *testing.T) {
	predicted := []model.Promise{
		promise("totally unrelated promise one", model.TypeEcology),
		promise("totally different promise two", model.TypeEconomy),
	}
	expected := []model.Promise{
		promise("build solar panels everywhere", model.TypeEcology),
		promise("cut business taxes in half", model.TypeEconomy),
	}

	stats := ComparePromises(predicted, expected)

	// No text matches, so the pairwise variant has nothing to credit...
	if stats.TypePrecisionMatched != 0 {
		t.Errorf("expected pairwise precision 0, got %v", stats.TypePrecisionMatched)
	}
	// ...but the sorted positional variant sees identical type multisets.
	if stats.TypePrecision != 1.0 {
		t.Errorf("expected positional precision 1.0, got %v", stats.TypePrecision)
	}
}

func TestComparePromises_Deterministic(t *testing.T) {
	predicted := []model.Promise{
		promise("build solar panels on every roof", model.TypeEcology),
		promise("create 5000 green jobs within 3 years", model.TypeEconomy),
	}
	expected := []model.Promise{
		promise("create 5000 green jobs within 3 years", model.TypeEconomy),
		promise("build solar panels on every roof", model.TypeEcology),
	}

	first := ComparePromises(predicted, expected)
	second := ComparePromises(predicted, expected)

	if first.TruePositives != second.TruePositives ||
		first.TypePrecision != second.TypePrecision ||
		first.ConfidenceMAE != second.ConfidenceMAE {
		t.Error("re-scoring the same pair must yield identical stats")
	}
	if first.TruePositives != 2 {
		t.Errorf("order-independent matching should find both pairs, got %d", first.TruePositives)
	}
}
