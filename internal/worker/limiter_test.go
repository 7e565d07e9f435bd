package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 2 {
		t.Errorf("expected default burst 2 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1) // 100 rps, burst 1
	ctx := context.Background()

	if err := limiter.Wait(ctx, "mistral-small-latest"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// A different model has its own bucket
	if err := limiter.Wait(ctx, "ministral-8b-latest"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	start := time.Now()
	err := limiter.WaitWithDelay(ctx, "mistral-small-latest", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}

	duration := time.Since(start)
	if duration < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", duration)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)
	ctx := context.Background()
	model := "mistral-large-latest"

	// First request ok
	if err := limiter.Wait(ctx, model); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst 1: token consumed, Allow fails without waiting
	if limiter.Allow(model) {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// Different model should be allowed
	if !limiter.Allow("open-mistral-nemo") {
		t.Errorf("expected allow for other model")
	}
}

func TestLimiter_SetModelRate(t *testing.T) {
	limiter := NewLimiter(10, 10) // fast default
	model := "mistral-large-latest"

	// Set strict limit for the expensive model
	limiter.SetModelRate(model, 0.1, 1)

	// First request passes (burst 1)
	if !limiter.Allow(model) {
		t.Errorf("first request should pass")
	}

	// Second request fails
	if limiter.Allow(model) {
		t.Errorf("second request should fail")
	}

	// Other model still fast
	if !limiter.Allow("ministral-8b-latest") {
		t.Errorf("other model should pass")
	}
}
