package model

// Promise represents a structured commitment extracted from a mayor speech
type Promise struct {
	Text          string   `json:"text"`                     // The promise text itself
	Type          string   `json:"type"`                     // Policy domain: ecology, economy, research
	Impact        string   `json:"impact,omitempty"`         // Expected effect: positive, negative
	Deadline      string   `json:"deadline,omitempty"`       // Deadline bucket
	Confidence    *float64 `json:"confidence,omitempty"`     // Extraction confidence in [0,1]
	TargetCitizen string   `json:"target_citizen,omitempty"` // Citizen the promise is aimed at, if any
}

// Promise type values
const (
	TypeEcology  = "ecology"
	TypeEconomy  = "economy"
	TypeResearch = "research"
)

// Impact values
const (
	ImpactPositive = "positive"
	ImpactNegative = "negative"
)

// Deadline buckets
const (
	DeadlineImmediate   = "immediate"
	DeadlineByRound3    = "by_round_3"
	DeadlineByRound5    = "by_round_5"
	DeadlineByEndOfGame = "by_end_of_game"
)

// DefaultConfidence is assumed when a promise carries no confidence field
const DefaultConfidence = 0.5

// ConfidenceValue returns the promise confidence, or DefaultConfidence if unset
func (p Promise) ConfidenceValue() float64 {
	if p.Confidence == nil {
		return DefaultConfidence
	}
	return *p.Confidence
}

// Contradiction represents a detected conflict between two promises
type Contradiction struct {
	Promise1    string `json:"promise1"`
	Promise2    string `json:"promise2"`
	Explanation string `json:"explanation"` // Canonical name; "description" accepted as alias at parse time
	Severity    string `json:"severity"`    // low, medium, high
}

// Severity values
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// ExtractionResult is the structured output of the extraction step.
// It is the unit compared between predicted (model output) and expected
// (ground truth) sides during evaluation.
type ExtractionResult struct {
	Promises       []Promise       `json:"promises"`
	Contradictions []Contradiction `json:"contradictions"`
}

// PromiseTypes lists the legal promise type values
func PromiseTypes() []string {
	return []string{TypeEcology, TypeEconomy, TypeResearch}
}

// Deadlines lists the legal deadline bucket values
func Deadlines() []string {
	return []string{DeadlineImmediate, DeadlineByRound3, DeadlineByRound5, DeadlineByEndOfGame}
}
