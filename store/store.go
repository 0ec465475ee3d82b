// Package store provides database access to all raw objects.
package store

import (
	"context"

	"github.com/answerdesk/answerdesk/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) UpsertKnowledgeItem(ctx context.Context, upsert *KnowledgeItem) (*KnowledgeItem, error) {
	return s.driver.UpsertKnowledgeItem(ctx, upsert)
}

func (s *Store) ListKnowledgeItems(ctx context.Context, find *FindKnowledgeItem) ([]*KnowledgeItem, error) {
	return s.driver.ListKnowledgeItems(ctx, find)
}

func (s *Store) DeleteKnowledgeItems(ctx context.Context, delete *DeleteKnowledgeItem) error {
	return s.driver.DeleteKnowledgeItems(ctx, delete)
}

func (s *Store) UpsertTenantProfile(ctx context.Context, upsert *TenantProfile) (*TenantProfile, error) {
	return s.driver.UpsertTenantProfile(ctx, upsert)
}

func (s *Store) ListTenantProfiles(ctx context.Context, find *FindTenantProfile) ([]*TenantProfile, error) {
	return s.driver.ListTenantProfiles(ctx, find)
}

func (s *Store) CreateAnalyticsEvent(ctx context.Context, create *AnalyticsEvent) (*AnalyticsEvent, error) {
	return s.driver.CreateAnalyticsEvent(ctx, create)
}

func (s *Store) ListAnalyticsEvents(ctx context.Context, find *FindAnalyticsEvent) ([]*AnalyticsEvent, error) {
	return s.driver.ListAnalyticsEvents(ctx, find)
}

func (s *Store) DeleteAnalyticsEventsBefore(ctx context.Context, beforeTs int64) (int64, error) {
	return s.driver.DeleteAnalyticsEventsBefore(ctx, beforeTs)
}

func (s *Store) UpsertConversationSummary(ctx context.Context, upsert *ConversationSummary) (*ConversationSummary, error) {
	return s.driver.UpsertConversationSummary(ctx, upsert)
}

func (s *Store) GetConversationSummary(ctx context.Context, tenantID, conversationID string) (*ConversationSummary, error) {
	return s.driver.GetConversationSummary(ctx, tenantID, conversationID)
}

func (s *Store) DeleteConversationSummariesBefore(ctx context.Context, beforeTs int64) (int64, error) {
	return s.driver.DeleteConversationSummariesBefore(ctx, beforeTs)
}
