package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecotopia-game/ecotopia/internal/cache"
	"github.com/ecotopia-game/ecotopia/internal/llm"
	"github.com/ecotopia-game/ecotopia/internal/model"
	"github.com/ecotopia-game/ecotopia/internal/parse"
)

// TurnResult is the outcome of one full game turn: extraction first,
// then citizen reactions to the extracted promises.
type TurnResult struct {
	Extraction model.ExtractionResult `json:"extraction"`
	Reactions  model.ReactionSet      `json:"reactions"`
}

// TurnService runs the speech pipeline against the configured models
type TurnService struct {
	provider        llm.Provider
	extractionModel string
	citizensModel   string
	responses       cache.Cache
}

// NewTurnService creates the turn pipeline. A nil cache disables
// completion caching.
func NewTurnService(provider llm.Provider, cfg model.LLMConfig, responses cache.Cache) *TurnService {
	return &TurnService{
		provider:        provider,
		extractionModel: cfg.ExtractionModel,
		citizensModel:   cfg.CitizensModel,
		responses:       responses,
	}
}

// ProcessSpeech extracts promises from the speech and generates
// citizen reactions. Model output that fails to parse degrades to an
// empty extraction or reaction set rather than failing the turn.
func (s *TurnService) ProcessSpeech(ctx context.Context, speech string, gameState json.RawMessage) (*TurnResult, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	gameContext := string(gameState)
	if gameContext == "" {
		gameContext = "{}"
	}

	extractionText, err := s.complete(ctx, s.extractionModel, llm.DefaultExtractionPrompt,
		fmt.Sprintf("Game context:\n%s\n\nMayor's speech:\n%s", gameContext, speech))
	if err != nil {
		return nil, fmt.Errorf("extraction: %w", err)
	}

	result := &TurnResult{}
	result.Extraction, _ = parse.ExtractionResult(extractionText)

	promises, err := json.Marshal(result.Extraction.Promises)
	if err != nil {
		return nil, fmt.Errorf("marshal promises: %w", err)
	}
	contradictions, err := json.Marshal(result.Extraction.Contradictions)
	if err != nil {
		return nil, fmt.Errorf("marshal contradictions: %w", err)
	}

	reactionsText, err := s.complete(ctx, s.citizensModel, llm.DefaultCitizensPrompt,
		fmt.Sprintf("Promises: %s\nContradictions: %s\nGame context: %s", promises, contradictions, gameContext))
	if err != nil {
		return nil, fmt.Errorf("reactions: %w", err)
	}
	result.Reactions, _ = parse.Reactions(reactionsText)

	return result, nil
}

// complete runs one cached chat completion
func (s *TurnService) complete(ctx context.Context, modelID, systemPrompt, userPrompt string) (string, error) {
	key := cache.CompletionKey(modelID, systemPrompt, userPrompt)
	if s.responses != nil {
		if cached, found := s.responses.Get(key); found {
			return string(cached), nil
		}
	}

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model: modelID,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: userPrompt},
		},
		JSONObject: true,
	})
	if err != nil {
		return "", err
	}

	if s.responses != nil {
		_ = s.responses.Set(key, []byte(resp.Content), 0)
	}
	return resp.Content, nil
}
