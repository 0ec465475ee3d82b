// Package analytics records per-turn pipeline outcomes: best-effort
// persistence for dashboards plus a live feed for real-time subscribers.
package analytics

import (
	"time"

	"github.com/answerdesk/answerdesk/assist/classify"
)

// Event is one pipeline outcome. Write-once; recorded after the reply is
// decided, whether the turn succeeded or degraded.
type Event struct {
	TenantID       string           `json:"tenant_id"`
	ConversationID string           `json:"conversation_id"`
	LatencyMs      int64            `json:"latency_ms"`
	Provider       string           `json:"provider"`
	Success        bool             `json:"success"`
	Intent         classify.Intent  `json:"intent"`
	Emotion        classify.Emotion `json:"emotion"`
	ErrorCode      string           `json:"error_code,omitempty"`
	// ProfileUpdatedTs is the version stamp of the personality snapshot
	// the reply was styled with.
	ProfileUpdatedTs int64     `json:"profile_updated_ts"`
	CreatedAt        time.Time `json:"created_at"`
}

// Sink accepts pipeline outcomes. Record is fire-and-forget: it never
// blocks the caller and never returns an error. Failures are logged.
type Sink interface {
	// Record enqueues the event for persistence and broadcast. Safe to
	// call from any goroutine.
	Record(event *Event)

	// Subscribe returns a live event feed and a cancel function. Slow
	// subscribers lose events rather than slowing the pipeline.
	Subscribe() (<-chan *Event, func())
}

// TenantStats is the aggregated view of a tenant's recent traffic.
type TenantStats struct {
	RequestCount   int64                      `json:"request_count"`
	SuccessCount   int64                      `json:"success_count"`
	LatencyP50Ms   int64                      `json:"latency_p50_ms"`
	LatencyP95Ms   int64                      `json:"latency_p95_ms"`
	IntentCounts   map[classify.Intent]int64  `json:"intent_counts"`
	EmotionCounts  map[classify.Emotion]int64 `json:"emotion_counts"`
	ProviderCounts map[string]int64           `json:"provider_counts"`
}
