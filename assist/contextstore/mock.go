package contextstore

import (
	"context"
	"sync"
	"time"
)

// MockService is a scriptable Service for testing collaborators.
type MockService struct {
	mu sync.Mutex

	// Conversations returned from Get, keyed by conversation.
	Conversations map[Key]*Conversation
	// Appends records every AppendTurn call in order.
	Appends []Turn
	// Memoryless, when true, makes Get always return an empty snapshot
	// and AppendTurn drop the turn, simulating a degraded store.
	Memoryless bool
	// Failing, when true, makes Get return nil, simulating a store that
	// is unreachable outright.
	Failing bool
}

// NewMockService creates an empty mock context service.
func NewMockService() *MockService {
	return &MockService{Conversations: make(map[Key]*Conversation)}
}

func (m *MockService) Get(_ context.Context, key Key) *Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Failing {
		return nil
	}
	if m.Memoryless {
		return &Conversation{Key: key, Preferences: map[string]string{}}
	}
	if conv, ok := m.Conversations[key]; ok {
		return conv
	}
	return &Conversation{Key: key, Preferences: map[string]string{}}
}

func (m *MockService) AppendTurn(_ context.Context, key Key, turn Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Memoryless || m.Failing {
		return
	}
	m.Appends = append(m.Appends, turn)
	conv, ok := m.Conversations[key]
	if !ok {
		conv = &Conversation{Key: key, Preferences: map[string]string{}}
		m.Conversations[key] = conv
	}
	conv.Turns = append(conv.Turns, turn)
}

func (m *MockService) Summary(ctx context.Context, key Key) string {
	return m.Get(ctx, key).Summary
}

func (m *MockService) SetPreference(_ context.Context, key Key, name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.Conversations[key]
	if !ok {
		conv = &Conversation{Key: key, Preferences: map[string]string{}}
		m.Conversations[key] = conv
	}
	conv.Preferences[name] = value
}

func (m *MockService) EvictIdle(_ context.Context, _ time.Time) int {
	return 0
}

// AppendCount returns the number of AppendTurn calls.
func (m *MockService) AppendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Appends)
}

// Ensure MockService implements Service
var _ Service = (*MockService)(nil)
