// Package contextstore keeps the bounded per-conversation memory: the
// recent turn window, the rolling summary of everything folded out of the
// window, and free-form preferences.
package contextstore

import (
	"context"
	"time"

	"github.com/answerdesk/answerdesk/assist/classify"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleAssistant Role = "assistant"
)

// Key identifies one ongoing conversation.
type Key struct {
	TenantID       string
	ConversationID string
}

// Turn is one message exchange unit in a conversation.
type Turn struct {
	// ID deduplicates retried appends. Appending a turn whose ID is
	// already present is a no-op.
	ID         string
	Role       Role
	Text       string
	// Timestamp is unix milliseconds. Appended turns are clamped to be
	// strictly increasing within a conversation.
	Timestamp  int64
	Intent     classify.Intent
	Emotion    classify.Emotion
	Confidence float64
}

// Conversation is a point-in-time snapshot of one conversation's memory.
// Mutating a snapshot has no effect on the store.
type Conversation struct {
	Key         Key
	Turns       []Turn
	Summary     string
	Preferences map[string]string
	LastActive  time.Time
}

// Service is the conversation memory consumed by the pipeline. All reads
// and writes are best-effort: backing-store trouble degrades to memoryless
// operation instead of failing the request.
type Service interface {
	// Get returns the conversation snapshot, creating an empty one if
	// absent. A nil return means the store is unreachable; callers
	// degrade to memoryless operation instead of failing the request.
	Get(ctx context.Context, key Key) *Conversation

	// AppendTurn appends a turn, folding the oldest turns into the
	// summary when the window overflows. Appending a duplicate turn ID
	// is a no-op.
	AppendTurn(ctx context.Context, key Key, turn Turn)

	// Summary returns the current rolling summary, possibly empty.
	Summary(ctx context.Context, key Key) string

	// SetPreference records a free-form preference for the conversation.
	SetPreference(ctx context.Context, key Key, name, value string)

	// EvictIdle drops conversations idle since before the given time,
	// persisting their summaries first. It returns how many were evicted.
	EvictIdle(ctx context.Context, olderThan time.Time) int
}
