package provider

import (
	"context"
	"sync"
	"time"
)

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	mu sync.Mutex

	name string
	// Reply is the text returned on success.
	Reply string
	// Err, if set, is returned from every Generate call.
	Err error
	// Delay is slept (context-aware) before responding.
	Delay time.Duration
	// Calls counts Generate invocations.
	Calls int
}

// NewMockProvider creates a mock provider returning the given reply.
func NewMockProvider(name, reply string) *MockProvider {
	return &MockProvider{name: name, Reply: reply}
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Generate(ctx context.Context, _ GenerateRequest) (string, error) {
	m.mu.Lock()
	m.Calls++
	reply, err, delay := m.Reply, m.Err, m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}

// CallCount returns the number of Generate calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// SetErr updates the error returned by Generate.
func (m *MockProvider) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// Ensure MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
