package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/answerdesk/answerdesk/store"
)

// RetentionConfig configures the analytics retention loop.
type RetentionConfig struct {
	// Period is how long persisted events are kept (default: 30 days).
	Period time.Duration
	// Interval is how often cleanup runs (default: 24 hours).
	Interval time.Duration
	// BucketWindow is how long in-memory hour buckets are retained
	// (default: 24 hours).
	BucketWindow time.Duration
}

// Retention periodically deletes old persisted events and drops stale
// in-memory stats buckets.
type Retention struct {
	store      *store.Store
	aggregator *Aggregator

	period       time.Duration
	interval     time.Duration
	bucketWindow time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRetention creates a retention loop over the sink's aggregator.
func NewRetention(s *store.Store, sink *ChannelSink, cfg RetentionConfig) *Retention {
	if cfg.Period <= 0 {
		cfg.Period = 30 * 24 * time.Hour
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.BucketWindow <= 0 {
		cfg.BucketWindow = 24 * time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Retention{
		store:        s,
		aggregator:   sink.aggregator,
		period:       cfg.Period,
		interval:     cfg.Interval,
		bucketWindow: cfg.BucketWindow,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start begins the background cleanup task.
func (r *Retention) Start() {
	r.wg.Add(1)
	go r.loop()
}

// Close stops the cleanup task and waits for it to finish.
func (r *Retention) Close() {
	r.cancel()
	r.wg.Wait()
}

func (r *Retention) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.cleanup()
		}
	}
}

func (r *Retention) cleanup() {
	dropped := r.aggregator.DropBefore(truncateToHour(time.Now().Add(-r.bucketWindow)))
	if dropped > 0 {
		slog.Debug("dropped stale analytics buckets", "count", dropped)
	}

	if r.store == nil {
		return
	}
	cutoff := time.Now().Add(-r.period).UnixMilli()
	deleted, err := r.store.DeleteAnalyticsEventsBefore(r.ctx, cutoff)
	if err != nil {
		slog.Error("analytics event cleanup failed", "error", err)
		return
	}
	slog.Debug("analytics event cleanup completed", "deleted", deleted)
}
