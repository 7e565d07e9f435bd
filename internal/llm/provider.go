package llm

import (
	"context"
	"time"
)

// Provider defines the interface for chat-completion backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete runs one chat completion
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Message is one chat turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionRequest contains the input for one chat completion
type CompletionRequest struct {
	// Model is the specific model to use (provider-specific)
	Model string

	// Messages is the full conversation so far
	Messages []Message

	// Temperature controls sampling randomness; extraction runs at 0
	Temperature float32

	// MaxTokens limits the response length
	MaxTokens int

	// JSONObject asks the provider to constrain output to a JSON object
	JSONObject bool
}

// CompletionResponse contains the model's output plus basic telemetry
type CompletionResponse struct {
	// Content is the raw response text
	Content string

	// Model is the model that generated the response
	Model string

	// PromptTokens / CompletionTokens track token consumption
	PromptTokens     int
	CompletionTokens int

	// Latency is the wall-clock duration of the API call
	Latency time.Duration
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "mistral", "ollama", ""
	Provider string

	// Model name (provider-specific default)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., a local Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// MaxRetries for transient API failures
	MaxRetries int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:   "mistral",
		Model:      "mistral-small-latest",
		Timeout:    60,
		MaxTokens:  2048,
		MaxRetries: 3,
	}
}
