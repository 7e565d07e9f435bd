package model

// CitizenReaction represents one citizen's response to the mayor's promises
type CitizenReaction struct {
	Name          string   `json:"citizen_name"` // Canonical name; "name" accepted as alias at parse time
	Dialogue      string   `json:"dialogue"`
	Tone          string   `json:"tone"` // Canonical name; "mood" accepted as alias at parse time
	ApprovalDelta *float64 `json:"approval_delta,omitempty"`
}

// ReactionSet is the structured output of the citizen-dialogue step
type ReactionSet struct {
	Reactions []CitizenReaction `json:"citizen_reactions"`
}

// validTones is the tone vocabulary the citizen model is trained on.
// Tones outside this set still score, just lower.
var validTones = map[string]bool{
	"angry": true, "happy": true, "hopeful": true, "skeptical": true,
	"worried": true, "neutral": true, "excited": true, "frustrated": true,
	"disappointed": true, "cautious": true, "supportive": true, "critical": true,
	"optimistic": true, "pessimistic": true, "concerned": true, "relieved": true,
	"defiant": true, "grateful": true, "anxious": true, "confident": true,
	"bitter": true, "resigned": true,
}

// IsValidTone reports whether tone belongs to the known tone vocabulary
func IsValidTone(tone string) bool {
	return validTones[tone]
}

// coreCitizens are the three citizens present in every game
var coreCitizens = map[string]bool{
	"Karl":  true, // worker, economy-focused
	"Mia":   true, // environmentalist, ecology-focused
	"Sarah": true, // opposition leader, critical
}

// IsKnownCitizen reports whether name is one of the core citizens
func IsKnownCitizen(name string) bool {
	return coreCitizens[name]
}
