// Package parse recovers structured JSON from raw LLM output.
//
// Model responses arrive as free text that usually, but not always,
// contains a JSON object: sometimes bare, sometimes wrapped in markdown
// fences, sometimes surrounded by prose. Every entry point here degrades
// to an explicit "invalid" result instead of returning an error, so one
// malformed response never aborts a batch.
package parse

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/ecotopia-game/ecotopia/internal/model"
)

// fenceRe matches a whole response wrapped in triple-backtick fences,
// with or without a json language tag.
var fenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*\\n?(.*?)\\n?```\\s*$")

// Clean strips markdown fences and locates the JSON object inside text.
// It returns the best candidate substring; the caller decides whether
// it actually parses.
func Clean(text string) string {
	text = strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// Decode tolerantly parses text into a generic JSON object.
// Recovery order: fence-stripped parse, then the substring between the
// first '{' and the last '}'. Returns (nil, false) when nothing parses.
func Decode(text string) (map[string]interface{}, bool) {
	candidate := Clean(text)

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
		return obj, true
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(candidate[start:end+1]), &obj); err == nil {
			return obj, true
		}
	}

	return nil, false
}

// ExtractionResult decodes text into an ExtractionResult. Missing fields
// become zero values; contradiction explanations accept the legacy
// "description" key. Returns ok=false only when no JSON object could be
// recovered at all.
func ExtractionResult(text string) (model.ExtractionResult, bool) {
	obj, ok := Decode(text)
	if !ok {
		return model.ExtractionResult{}, false
	}

	var result model.ExtractionResult
	for _, entry := range listField(obj, "promises") {
		p := model.Promise{
			Text:          stringField(entry, "text"),
			Type:          stringField(entry, "type"),
			Impact:        stringField(entry, "impact"),
			Deadline:      stringField(entry, "deadline"),
			TargetCitizen: stringField(entry, "target_citizen"),
		}
		if conf, ok := floatField(entry, "confidence"); ok {
			p.Confidence = &conf
		}
		result.Promises = append(result.Promises, p)
	}
	for _, entry := range listField(obj, "contradictions") {
		result.Contradictions = append(result.Contradictions, model.Contradiction{
			Promise1:    stringField(entry, "promise1"),
			Promise2:    stringField(entry, "promise2"),
			Explanation: stringField(entry, "explanation", "description"),
			Severity:    stringField(entry, "severity"),
		})
	}
	return result, true
}

// Reactions decodes text into a ReactionSet. The reaction list accepts
// the legacy "reactions" key, citizen names accept "name", and tones
// accept "mood". Returns ok=false when no JSON object could be recovered.
func Reactions(text string) (model.ReactionSet, bool) {
	obj, ok := Decode(text)
	if !ok {
		return model.ReactionSet{}, false
	}

	var set model.ReactionSet
	for _, entry := range listField(obj, "citizen_reactions", "reactions") {
		r := model.CitizenReaction{
			Name:     stringField(entry, "citizen_name", "name"),
			Dialogue: stringField(entry, "dialogue"),
			Tone:     stringField(entry, "tone", "mood"),
		}
		if delta, ok := floatField(entry, "approval_delta"); ok {
			r.ApprovalDelta = &delta
		}
		set.Reactions = append(set.Reactions, r)
	}
	return set, true
}

// stringField resolves the first present key against its aliases,
// defaulting to "" so schema drift degrades into a failed match
// instead of an error.
func stringField(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// floatField resolves the first present numeric key against its aliases
func floatField(m map[string]interface{}, keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if f, ok := v.(float64); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// listField resolves the first present key holding a list of objects
func listField(m map[string]interface{}, keys ...string) []map[string]interface{} {
	for _, key := range keys {
		raw, ok := m[key].([]interface{})
		if !ok {
			continue
		}
		var out []map[string]interface{}
		for _, item := range raw {
			if entry, ok := item.(map[string]interface{}); ok {
				out = append(out, entry)
			}
		}
		return out
	}
	return nil
}
