package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	Migrate(ctx context.Context) error

	// KnowledgeItem model related methods. Items are written by the
	// spreadsheet sync collaborator and read by the knowledge cache.
	UpsertKnowledgeItem(ctx context.Context, upsert *KnowledgeItem) (*KnowledgeItem, error)
	ListKnowledgeItems(ctx context.Context, find *FindKnowledgeItem) ([]*KnowledgeItem, error)
	DeleteKnowledgeItems(ctx context.Context, delete *DeleteKnowledgeItem) error

	// TenantProfile model related methods.
	UpsertTenantProfile(ctx context.Context, upsert *TenantProfile) (*TenantProfile, error)
	ListTenantProfiles(ctx context.Context, find *FindTenantProfile) ([]*TenantProfile, error)

	// AnalyticsEvent model related methods. Events are write-once.
	CreateAnalyticsEvent(ctx context.Context, create *AnalyticsEvent) (*AnalyticsEvent, error)
	ListAnalyticsEvents(ctx context.Context, find *FindAnalyticsEvent) ([]*AnalyticsEvent, error)
	DeleteAnalyticsEventsBefore(ctx context.Context, beforeTs int64) (int64, error)

	// ConversationSummary model related methods. Summaries outlive the
	// in-memory context window.
	UpsertConversationSummary(ctx context.Context, upsert *ConversationSummary) (*ConversationSummary, error)
	GetConversationSummary(ctx context.Context, tenantID, conversationID string) (*ConversationSummary, error)
	DeleteConversationSummariesBefore(ctx context.Context, beforeTs int64) (int64, error)
}
