package llm

import (
	"context"
	"fmt"
	"time"
)

// Retrying wraps a Provider with exponential backoff on failed calls.
// Hosted APIs throttle batch evals aggressively; retrying with growing
// pauses recovers most 429s without any per-status special casing.
type Retrying struct {
	Provider

	// MaxRetries is the number of attempts after the first failure
	MaxRetries int

	// BaseDelay is the backoff unit; attempt n sleeps BaseDelay * 2^(n+1).
	// Defaults to one second, tests shrink it.
	BaseDelay time.Duration
}

// WithRetries wraps p so that Complete retries transient failures
func WithRetries(p Provider, maxRetries int) *Retrying {
	return &Retrying{
		Provider:   p,
		MaxRetries: maxRetries,
		BaseDelay:  time.Second,
	}
}

// Complete runs the completion, retrying with exponential backoff
func (r *Retrying) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		if attempt > 0 {
			// 2^(attempt+1) units: 4s, 8s, 16s with the default base
			delay := r.BaseDelay * time.Duration(1<<(attempt+1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := r.Provider.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("completion failed after %d retries: %w", r.MaxRetries, lastErr)
}
