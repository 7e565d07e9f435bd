// Package gen produces synthetic training examples for the promise
// extraction task. Everything is template-driven and seeded, so the
// same seed always yields the same dataset.
package gen

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/ecotopia-game/ecotopia/internal/dataset"
	"github.com/ecotopia-game/ecotopia/internal/llm"
	"github.com/ecotopia-game/ecotopia/internal/model"
)

var explicitPrefixes = []string{
	"I promise", "I guarantee", "I will", "You have my word",
	"I swear", "I pledge", "I commit to", "I vow to",
}

var ecoThings = []string{
	"forest", "river cleanup", "solar panels", "wind turbines", "green spaces",
	"emission cuts", "recycling program", "nature reserve", "clean air",
	"organic farming", "wildlife corridor", "wetland restoration", "carbon neutrality",
	"pollution monitoring", "electric transit", "zero waste", "reforestation",
}

var econThings = []string{
	"factories", "jobs", "tax cuts", "industrial zone", "trade deals",
	"business incentives", "mining operations", "construction boom", "economic growth",
	"market expansion", "wage increases", "new mall", "port expansion",
	"manufacturing hub", "tourism revenue", "startup incubator", "free trade zone",
}

var researchThings = []string{
	"research center", "university", "innovation hub", "tech park",
	"lab funding", "AI development", "biotech research", "fusion energy",
	"climate modeling", "water purification tech", "renewable research",
	"smart grid", "quantum computing lab", "green chemistry", "gene editing lab",
}

var sarcasticOpeners = []string{
	"Oh sure, let me just wave my magic wand and",
	"Right, because that worked so well last time when we",
	"Yes yes, I hear you. We'll definitely",
	"Brilliant idea! Let's just",
	"Oh absolutely, and while we're at it let's also",
}

// contradictoryPairs are promise pairs that cannot both hold
var contradictoryPairs = [][2]string{
	{"build new factories on the riverside", "keep the river pristine and pollution-free"},
	{"cut all environmental regulations", "achieve carbon neutrality by round 5"},
	{"slash the research budget by 50%", "build a world-class innovation center"},
	{"open three new coal mines", "transition to 100% renewable energy"},
	{"eliminate all business taxes", "fund massive public infrastructure projects"},
	{"preserve every tree in the forest", "expand the city by 40% into green zones"},
	{"shut down all factories immediately", "create 5000 new manufacturing jobs"},
	{"freeze all government spending", "triple the education and research budget"},
	{"ban all construction near the lake", "build affordable housing for every citizen"},
	{"maximize industrial output this round", "reduce emissions to zero this round"},
	{"privatize the water supply", "guarantee free clean water for all citizens"},
	{"import cheap goods to lower prices", "support local businesses and buy local"},
	{"close the university for budget savings", "attract top researchers to our city"},
}

var targetCitizens = []string{"Karl", "Mia", "Sarah"}

// Generator builds extraction examples from a seeded source
type Generator struct {
	rng *rand.Rand
}

// New creates a generator with the given seed
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// profile controls how gnarly the generated speeches get
type profile struct {
	minPromises      int
	maxPromises      int
	sarcasmChance    float64
	contradictChance float64
	conditionChance  float64
}

var profiles = map[string]profile{
	"easy":   {1, 2, 0, 0, 0},
	"medium": {2, 4, 0.1, 0.3, 0.2},
	"hard":   {5, 8, 0.3, 0.7, 0.5},
}

// Extraction generates count extraction examples at the given
// difficulty level.
func (g *Generator) Extraction(count int, difficulty string) ([]dataset.Example, error) {
	prof, ok := profiles[difficulty]
	if !ok {
		return nil, fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", difficulty)
	}

	examples := make([]dataset.Example, 0, count)
	for i := 0; i < count; i++ {
		speech, extraction := g.makeSpeech(prof)

		assistant, err := json.Marshal(extraction)
		if err != nil {
			return nil, fmt.Errorf("marshal extraction: %w", err)
		}

		examples = append(examples, dataset.Example{Messages: []dataset.Message{
			{Role: "system", Content: llm.DefaultExtractionPrompt},
			{Role: "user", Content: speech},
			{Role: "assistant", Content: string(assistant)},
		}})
	}
	return examples, nil
}

// makeSpeech generates one mayor speech with its reference extraction
func (g *Generator) makeSpeech(prof profile) (string, model.ExtractionResult) {
	numPromises := prof.minPromises + g.rng.Intn(prof.maxPromises-prof.minPromises+1)
	hasSarcasm := g.rng.Float64() < prof.sarcasmChance
	hasContradiction := g.rng.Float64() < prof.contradictChance

	var parts []string
	var result model.ExtractionResult

	if hasSarcasm {
		parts = append(parts, g.pick(sarcasticOpeners))
	}

	var target string
	if g.rng.Float64() < 0.5 {
		target = g.pick(targetCitizens)
		parts = append(parts, fmt.Sprintf("%s, listen carefully.", target))
	}

	var contraPair [2]string
	if hasContradiction {
		contraPair = contradictoryPairs[g.rng.Intn(len(contradictoryPairs))]
		if numPromises < 2 {
			numPromises = 2
		}
	}

	for i := 0; i < numPromises; i++ {
		ptype := g.pick(model.PromiseTypes())
		deadline := g.pick(model.Deadlines())
		conf := g.confidence(0.5, 1.0)

		var p model.Promise
		switch {
		case hasContradiction && i == 0:
			p = model.Promise{Text: contraPair[0], Type: ptype, Impact: impactOf(contraPair[0]), Deadline: deadline, Confidence: &conf}
			parts = append(parts, fmt.Sprintf("I will %s.", contraPair[0]))
		case hasContradiction && i == 1:
			p = model.Promise{Text: contraPair[1], Type: ptype, Impact: model.ImpactPositive, Deadline: deadline, Confidence: &conf}
			parts = append(parts, fmt.Sprintf("I guarantee we'll %s.", contraPair[1]))
			result.Contradictions = append(result.Contradictions, model.Contradiction{
				Promise1:    contraPair[0],
				Promise2:    contraPair[1],
				Explanation: fmt.Sprintf("Cannot simultaneously %s and %s", contraPair[0], contraPair[1]),
				Severity:    g.pick([]string{model.SeverityLow, model.SeverityMedium, model.SeverityHigh}),
			})
		default:
			p, parts = g.plainPromise(ptype, deadline, conf, parts)
		}

		if target != "" && i == 0 {
			p.TargetCitizen = target
		}
		result.Promises = append(result.Promises, p)
	}

	if g.rng.Float64() < prof.conditionChance {
		ptype := g.pick(model.PromiseTypes())
		thing := g.pick(thingsFor(ptype))
		conf := g.confidence(0.3, 0.7)
		parts = append(parts, fmt.Sprintf("If the economy holds, I'll invest in %s.", thing))
		result.Promises = append(result.Promises, model.Promise{
			Text:       fmt.Sprintf("invest in %s if economy holds", thing),
			Type:       ptype,
			Impact:     model.ImpactPositive,
			Deadline:   g.pick(model.Deadlines()),
			Confidence: &conf,
		})
	}

	return strings.Join(parts, " "), result
}

// plainPromise generates one non-contradictory promise and appends its
// speech sentence
func (g *Generator) plainPromise(ptype, deadline string, conf float64, parts []string) (model.Promise, []string) {
	thing := g.pick(thingsFor(ptype))
	impact := model.ImpactPositive
	if g.rng.Float64() < 0.3 {
		impact = model.ImpactNegative
	}

	var text string
	if g.rng.Float64() < 0.6 {
		prefix := g.pick(explicitPrefixes)
		if impact == model.ImpactNegative {
			text = fmt.Sprintf("stop all %s programs", thing)
		} else {
			text = fmt.Sprintf("expand %s across the city", thing)
		}
		parts = append(parts, fmt.Sprintf("%s %s.", prefix, text))
	} else {
		if impact == model.ImpactNegative {
			text = fmt.Sprintf("No more %s", thing)
		} else {
			text = fmt.Sprintf("%s is our priority", thing)
		}
		parts = append(parts, text+".")
	}

	return model.Promise{Text: text, Type: ptype, Impact: impact, Deadline: deadline, Confidence: &conf}, parts
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

// confidence draws a value in [lo, hi) rounded to two decimals
func (g *Generator) confidence(lo, hi float64) float64 {
	v := lo + g.rng.Float64()*(hi-lo)
	return float64(int(v*100)) / 100
}

func thingsFor(ptype string) []string {
	switch ptype {
	case model.TypeEconomy:
		return econThings
	case model.TypeResearch:
		return researchThings
	default:
		return ecoThings
	}
}

func impactOf(text string) string {
	for _, marker := range []string{"cut", "slash", "coal", "deforest", "close", "shut down", "eliminate"} {
		if strings.Contains(text, marker) {
			return model.ImpactNegative
		}
	}
	return model.ImpactPositive
}
