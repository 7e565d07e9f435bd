package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrying_SucceedsAfterFailures(t *testing.T) {
	mock := NewMockProvider(`{"promises": []}`).
		FailWith(errors.New("rate limited"), errors.New("rate limited"))

	r := WithRetries(mock, 3)
	r.BaseDelay = time.Millisecond

	resp, err := r.Complete(context.Background(), CompletionRequest{Model: "m"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Content != `{"promises": []}` {
		t.Errorf("Unexpected content: %s", resp.Content)
	}
	if mock.Calls() != 3 {
		t.Errorf("Expected 3 attempts, got %d", mock.Calls())
	}
}

func TestRetrying_ExhaustsRetries(t *testing.T) {
	apiErr := errors.New("persistent failure")
	mock := NewMockProvider().FailWith(apiErr, apiErr, apiErr)

	r := WithRetries(mock, 2)
	r.BaseDelay = time.Millisecond

	_, err := r.Complete(context.Background(), CompletionRequest{Model: "m"})
	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if !errors.Is(err, apiErr) {
		t.Errorf("Expected wrapped original error, got %v", err)
	}
	if mock.Calls() != 3 {
		t.Errorf("Expected 3 attempts (1 + 2 retries), got %d", mock.Calls())
	}
}

func TestRetrying_ContextCancellation(t *testing.T) {
	mock := NewMockProvider().FailWith(errors.New("fail"))
	r := WithRetries(mock, 5)
	r.BaseDelay = time.Minute // backoff long enough that only cancellation ends the wait

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := r.Complete(ctx, CompletionRequest{Model: "m"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if mock.Calls() != 1 {
		t.Errorf("Expected a single attempt before cancellation, got %d", mock.Calls())
	}
}

func TestNewProvider_Factory(t *testing.T) {
	p, err := NewProvider(Config{Provider: "mistral", APIKey: "k"})
	if err != nil {
		t.Fatalf("mistral: %v", err)
	}
	if p.Name() != "mistral" {
		t.Errorf("Unexpected name: %s", p.Name())
	}

	p, err = NewProvider(Config{Provider: "ollama"})
	if err != nil {
		t.Fatalf("ollama: %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("Unexpected name: %s", p.Name())
	}

	p, err = NewProvider(Config{Provider: ""})
	if err != nil || p != nil {
		t.Errorf("Expected nil provider for empty config, got %v/%v", p, err)
	}

	if _, err = NewProvider(Config{Provider: "bedrock"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}
