package store

// AnalyticsEvent is the persisted per-turn outcome record. Write-once,
// append-only, never mutated.
type AnalyticsEvent struct {
	ID               int32
	UID              string // external identifier (shortuuid)
	TenantID         string
	ConversationID   string
	LatencyMs        int64
	Provider         string
	Success          bool
	Intent           string
	Emotion          string
	ErrorCode        string
	ProfileUpdatedTs int64 // version of the personality snapshot used
	CreatedTs        int64
}

// FindAnalyticsEvent is the filter for listing analytics events.
type FindAnalyticsEvent struct {
	TenantID       *string
	ConversationID *string
	Success        *bool
	AfterTs        *int64
	Limit          *int
}
