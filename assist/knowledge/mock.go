package knowledge

import (
	"context"
	"sync"

	"github.com/answerdesk/answerdesk/store"
)

// MockSource is a mock implementation of Source for testing.
type MockSource struct {
	mu sync.Mutex

	// Items per tenant returned from FetchTenant.
	Items map[string][]*store.KnowledgeItem
	// Err, if set, is returned from every fetch.
	Err error
	// Fetches counts FetchTenant invocations.
	Fetches int
}

// NewMockSource creates an empty mock source.
func NewMockSource() *MockSource {
	return &MockSource{Items: make(map[string][]*store.KnowledgeItem)}
}

func (m *MockSource) FetchTenant(_ context.Context, tenantID string) ([]*store.KnowledgeItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetches++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Items[tenantID], nil
}

// FetchCount returns the number of FetchTenant calls.
func (m *MockSource) FetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Fetches
}

// SetItems replaces the items for a tenant.
func (m *MockSource) SetItems(tenantID string, items []*store.KnowledgeItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items[tenantID] = items
}

// MockService is a mock implementation of Service for testing.
type MockService struct {
	mu      sync.Mutex
	Results []*store.KnowledgeItem
	Lookups int
}

func (m *MockService) Lookup(_ context.Context, _, _ string) []*store.KnowledgeItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lookups++
	return m.Results
}

func (m *MockService) Refresh(_ context.Context, _ string) error {
	return nil
}

// Ensure mocks implement their interfaces
var (
	_ Source  = (*MockSource)(nil)
	_ Service = (*MockService)(nil)
)
