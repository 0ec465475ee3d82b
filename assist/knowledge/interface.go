// Package knowledge provides the read-through cache over tenant knowledge
// items synced from external spreadsheets.
package knowledge

import (
	"context"

	"github.com/answerdesk/answerdesk/store"
)

// Source loads the full knowledge set of one tenant from the backing store.
// The spreadsheet sync collaborator writes items out-of-band; the cache only
// ever reads.
type Source interface {
	FetchTenant(ctx context.Context, tenantID string) ([]*store.KnowledgeItem, error)
}

// Service answers best-effort fact lookups for the pipeline. Lookup never
// fails: a miss or an unavailable source yields an empty result.
type Service interface {
	// Lookup returns items relevant to the query, possibly stale,
	// possibly empty.
	Lookup(ctx context.Context, tenantID, query string) []*store.KnowledgeItem

	// Refresh forces a synchronous reload of the tenant snapshot.
	Refresh(ctx context.Context, tenantID string) error
}

// StoreSource is a Source backed by the relational store.
type StoreSource struct {
	store *store.Store
}

// NewStoreSource creates a store-backed knowledge source.
func NewStoreSource(s *store.Store) *StoreSource {
	return &StoreSource{store: s}
}

// FetchTenant loads every knowledge item owned by the tenant.
func (s *StoreSource) FetchTenant(ctx context.Context, tenantID string) ([]*store.KnowledgeItem, error) {
	return s.store.ListKnowledgeItems(ctx, &store.FindKnowledgeItem{TenantID: &tenantID})
}

// Ensure StoreSource implements Source
var _ Source = (*StoreSource)(nil)
