package llm

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// mistralBaseURL is the OpenAI-compatible chat endpoint of La Plateforme
const mistralBaseURL = "https://api.mistral.ai/v1"

// MistralProvider implements the Provider interface against Mistral's
// OpenAI-compatible chat completions API. Pointing BaseURL elsewhere
// (e.g. api.openai.com/v1) makes it speak to any compatible backend.
type MistralProvider struct {
	client *openai.Client
	config Config
}

// NewMistralProvider creates a new Mistral provider
func NewMistralProvider(config Config) (*MistralProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Mistral API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	} else {
		clientConfig.BaseURL = mistralBaseURL
	}

	return &MistralProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *MistralProvider) Name() string {
	return "mistral"
}

// IsAvailable checks if the provider is properly configured
func (p *MistralProvider) IsAvailable(ctx context.Context) bool {
	// Lightweight check: list models
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Mistral API check failed: %v\n", err)
		return false
	}
	return true
}

// Complete runs one chat completion
func (p *MistralProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// go-openai omits a zero Temperature from the request body, which
	// would leave the API on its sampling default. The smallest
	// non-zero float32 survives marshaling and still means greedy.
	temperature := req.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toOpenAIMessages(req.Messages),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	if req.JSONObject {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	latency := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("mistral API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from mistral")
	}

	return &CompletionResponse{
		Content:          resp.Choices[0].Message.Content,
		Model:            model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		Latency:          latency,
	}, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
