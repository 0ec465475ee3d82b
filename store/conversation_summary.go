package store

// ConversationSummary is the durable remainder of an evicted conversation
// context: the rolling summary plus the preference map, without the raw
// turn window.
type ConversationSummary struct {
	TenantID       string
	ConversationID string
	Summary        string
	// Preferences is the serialized preference map (JSON object).
	Preferences []byte
	UpdatedTs   int64
}
