package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// chatCompletionStub mimics the OpenAI-compatible chat endpoint that
// La Plateforme exposes.
func chatCompletionStub(t *testing.T, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header: %s", auth)
		}

		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if rf, ok := req["response_format"].(map[string]interface{}); !ok || rf["type"] != "json_object" {
			t.Errorf("Expected json_object response format, got %v", req["response_format"])
		}

		resp := map[string]interface{}{
			"id":    "cmpl-1",
			"model": req["model"],
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": content}},
			},
			"usage": map[string]int{"prompt_tokens": 42, "completion_tokens": 17, "total_tokens": 59},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestMistralProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(chatCompletionStub(t, `{"promises": [{"text": "close the coal plant", "type": "ecology"}]}`))
	defer server.Close()

	provider, err := NewMistralProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "mistral-small-latest",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: DefaultExtractionPrompt},
			{Role: RoleUser, Content: "I promise to close the coal plant."},
		},
		JSONObject: true,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Content == "" {
		t.Fatal("Expected non-empty content")
	}
	if resp.PromptTokens != 42 || resp.CompletionTokens != 17 {
		t.Errorf("Unexpected token usage: %d/%d", resp.PromptTokens, resp.CompletionTokens)
	}
	if resp.Model != "mistral-small-latest" {
		t.Errorf("Unexpected model: %s", resp.Model)
	}
	if resp.Latency <= 0 {
		t.Error("Expected positive latency")
	}
}

func TestMistralProvider_SendsZeroTemperature(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cmpl-1", "choices": [{"index": 0, "message": {"role": "assistant", "content": "{}"}}], "usage": {}}`))
	}))
	defer server.Close()

	provider, err := NewMistralProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), CompletionRequest{
		Model:       "mistral-small-latest",
		Messages:    []Message{{Role: RoleUser, Content: "hi"}},
		Temperature: 0,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	// Temperature 0 must reach the wire instead of being dropped as a
	// zero value, leaving the API default in effect.
	temp, ok := got["temperature"].(float64)
	if !ok {
		t.Fatal("Expected temperature field in request body")
	}
	if temp >= 1e-6 {
		t.Errorf("Expected near-zero temperature, got %v", temp)
	}
}

func TestMistralProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewMistralProvider(Config{})
	if err == nil {
		t.Fatal("Expected error without API key")
	}
}

func TestMistralProvider_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cmpl-1", "choices": [], "usage": {}}`))
	}))
	defer server.Close()

	provider, err := NewMistralProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), CompletionRequest{
		Model:    "mistral-small-latest",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("Expected error for empty choices")
	}
}
