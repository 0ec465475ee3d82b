package store

// KnowledgeSource identifies where a knowledge item came from.
type KnowledgeSource string

const (
	// KnowledgeSourceSynced marks items imported from the tenant's
	// spreadsheet by the sync collaborator.
	KnowledgeSourceSynced KnowledgeSource = "synced"
	// KnowledgeSourceManual marks items entered by hand.
	KnowledgeSourceManual KnowledgeSource = "manual"
)

// KnowledgeItem is one fact owned by a tenant.
type KnowledgeItem struct {
	ID        int32
	TenantID  string
	Topic     string
	Value     string
	Source    KnowledgeSource
	UpdatedTs int64
}

// FindKnowledgeItem is the filter for listing knowledge items.
type FindKnowledgeItem struct {
	TenantID *string
	Topic    *string
	Limit    *int
}

// DeleteKnowledgeItem is the filter for deleting knowledge items.
type DeleteKnowledgeItem struct {
	TenantID string
	Source   *KnowledgeSource
}
