package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockProvider is a scripted Provider for tests. Responses are served
// in order; when the script runs out the last entry repeats.
type MockProvider struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
	served    int

	// Latency is reported on every response
	Latency time.Duration

	// Requests records every request received, in order
	Requests []CompletionRequest
}

// NewMockProvider creates a mock that replies with the given responses
func NewMockProvider(responses ...string) *MockProvider {
	return &MockProvider{responses: responses}
}

// FailWith queues an error before the scripted responses
func (m *MockProvider) FailWith(errs ...error) *MockProvider {
	m.errs = append(m.errs, errs...)
	return m
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	return "mock"
}

// IsAvailable always reports true
func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return true
}

// Calls returns the number of Complete invocations so far
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Complete replies with the next scripted error or response
func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.Requests = append(m.Requests, req)

	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return nil, err
	}

	if len(m.responses) == 0 {
		return nil, fmt.Errorf("mock provider has no scripted responses")
	}

	idx := m.served
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.served++

	return &CompletionResponse{
		Content:          m.responses[idx],
		Model:            req.Model,
		PromptTokens:     10,
		CompletionTokens: 20,
		Latency:          m.Latency,
	}, nil
}
