package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProvider_Complete_Success(t *testing.T) {
	// Mock server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request
		if r.URL.Path != "/api/chat" {
			t.Errorf("Expected path /api/chat, got %s", r.URL.Path)
		}

		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Format != "json" {
			t.Errorf("Expected json format constraint, got %q", req.Format)
		}
		if req.Stream {
			t.Error("Expected stream=false")
		}

		resp := ollamaChatResponse{
			Model: "mistral-nemo",
			Done:  true,
		}
		resp.Message.Role = RoleAssistant
		resp.Message.Content = `{"promises": []}`
		resp.PromptEvalCount = 10
		resp.EvalCount = 20
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	config := Config{
		BaseURL: server.URL,
		Model:   "mistral-nemo",
		Timeout: 5,
	}
	provider, err := NewOllamaProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: DefaultExtractionPrompt},
			{Role: RoleUser, Content: "Citizens, I promise nothing."},
		},
		JSONObject: true,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Content != `{"promises": []}` {
		t.Errorf("Unexpected content: %s", resp.Content)
	}
	if resp.PromptTokens != 10 || resp.CompletionTokens != 20 {
		t.Errorf("Unexpected token usage: %d/%d", resp.PromptTokens, resp.CompletionTokens)
	}
	if resp.Model != "mistral-nemo" {
		t.Errorf("Unexpected model: %s", resp.Model)
	}
}

func TestOllamaProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "nope", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("Expected error for HTTP 404")
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("Expected path /api/tags, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"models": []}`))
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be available")
	}

	server.Close()
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be unavailable after server close")
	}
}

func TestOllamaProvider_DefaultBaseURL(t *testing.T) {
	provider, err := NewOllamaProvider(Config{})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if provider.baseURL != "http://localhost:11434" {
		t.Errorf("Unexpected default base URL: %s", provider.baseURL)
	}
}
