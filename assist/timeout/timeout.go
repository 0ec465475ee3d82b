// Package timeout defines centralized timeout and limit constants for the
// conversation pipeline.
package timeout

import "time"

const (
	// PipelineBudget is the total time budget for one inbound message.
	PipelineBudget = 30 * time.Second

	// ProviderAttempt is the timeout for a single text-generation attempt.
	ProviderAttempt = 10 * time.Second

	// ContextStoreOp is the timeout for a single context-store operation.
	ContextStoreOp = 2 * time.Second

	// KnowledgeLookup is the timeout for a knowledge cache lookup.
	KnowledgeLookup = 1 * time.Second

	// LockWait is the maximum time a request waits for its conversation lock.
	LockWait = 20 * time.Second

	// AnalyticsFlush is the timeout for persisting analytics snapshots.
	AnalyticsFlush = 5 * time.Second

	// MaxTruncateLength is the maximum length for truncating strings in logs.
	MaxTruncateLength = 120
)
