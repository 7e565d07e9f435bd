package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter implements per-model rate limiting. Hosted APIs throttle by
// model, so batch evals comparing several models keep one token bucket
// per model ID rather than a global one.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 2
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait waits for rate limit clearance for the given model
func (l *Limiter) Wait(ctx context.Context, modelID string) error {
	return l.getLimiter(modelID).Wait(ctx)
}

// Allow checks if a request is allowed without waiting
func (l *Limiter) Allow(modelID string) bool {
	return l.getLimiter(modelID).Allow()
}

// getLimiter returns the rate limiter for a model
func (l *Limiter) getLimiter(modelID string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[modelID]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[modelID]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[modelID] = limiter

	return limiter
}

// SetModelRate sets a custom rate limit for a specific model
func (l *Limiter) SetModelRate(modelID string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[modelID] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// WaitWithDelay waits for rate limit and adds an additional delay
func (l *Limiter) WaitWithDelay(ctx context.Context, modelID string, additionalDelay time.Duration) error {
	if err := l.Wait(ctx, modelID); err != nil {
		return err
	}

	if additionalDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(additionalDelay):
		}
	}

	return nil
}
