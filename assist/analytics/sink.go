package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/answerdesk/answerdesk/assist/timeout"
	"github.com/answerdesk/answerdesk/store"
)

const (
	defaultQueueSize     = 256
	subscriberBufferSize = 16
)

// ChannelSink is the Sink implementation: a buffered queue drained by a
// single worker that aggregates, persists, and broadcasts each event. When
// the queue is full the event is dropped with a warning; the pipeline is
// never slowed by analytics.
type ChannelSink struct {
	aggregator *Aggregator
	store      *store.Store

	queue chan *Event

	mu          sync.Mutex
	subscribers map[int]chan *Event
	nextSubID   int

	wg     sync.WaitGroup
	closed chan struct{}
}

// SinkConfig configures the analytics sink.
type SinkConfig struct {
	// Store, if set, persists every event. A nil store keeps events
	// in-memory only.
	Store *store.Store
	// QueueSize bounds the pending-event queue (default 256).
	QueueSize int
}

// NewChannelSink creates and starts a sink. Call Close to drain and stop.
func NewChannelSink(cfg SinkConfig) *ChannelSink {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}

	s := &ChannelSink{
		aggregator:  NewAggregator(),
		store:       cfg.Store,
		queue:       make(chan *Event, cfg.QueueSize),
		subscribers: make(map[int]chan *Event),
		closed:      make(chan struct{}),
	}

	s.wg.Add(1)
	go s.worker()
	return s
}

// Record enqueues the event. Never blocks: a full queue drops the event.
func (s *ChannelSink) Record(event *Event) {
	if event == nil {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	select {
	case <-s.closed:
		return
	default:
	}

	// The queue channel is never closed, so this send cannot panic even
	// if Close runs concurrently.
	select {
	case s.queue <- event:
	default:
		slog.Warn("analytics queue full, dropping event",
			"tenant_id", event.TenantID,
			"conversation_id", event.ConversationID)
	}
}

// Subscribe returns a live feed of recorded events. The returned cancel
// function must be called to release the subscription.
func (s *ChannelSink) Subscribe() (<-chan *Event, func()) {
	ch := make(chan *Event, subscriberBufferSize)

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Stats returns the live aggregated stats for one tenant.
func (s *ChannelSink) Stats(tenantID string) *TenantStats {
	return s.aggregator.TenantStats(tenantID)
}

// Close stops accepting events, drains the queue, and waits for the
// worker to finish.
func (s *ChannelSink) Close() {
	s.mu.Lock()
	select {
	case <-s.closed:
		s.mu.Unlock()
		return
	default:
		close(s.closed)
	}
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	for id, sub := range s.subscribers {
		delete(s.subscribers, id)
		close(sub)
	}
	s.mu.Unlock()
}

func (s *ChannelSink) worker() {
	defer s.wg.Done()

	for {
		select {
		case event := <-s.queue:
			s.process(event)
		case <-s.closed:
			// Drain whatever was enqueued before shutdown.
			for {
				select {
				case event := <-s.queue:
					s.process(event)
				default:
					return
				}
			}
		}
	}
}

func (s *ChannelSink) process(event *Event) {
	s.aggregator.Record(event)
	s.persist(event)
	s.broadcast(event)
}

// persist writes the event row. Best effort: errors are logged, never
// retried synchronously.
func (s *ChannelSink) persist(event *Event) {
	if s.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout.AnalyticsFlush)
	defer cancel()

	if _, err := s.store.CreateAnalyticsEvent(ctx, &store.AnalyticsEvent{
		UID:              shortuuid.New(),
		TenantID:         event.TenantID,
		ConversationID:   event.ConversationID,
		LatencyMs:        event.LatencyMs,
		Provider:         event.Provider,
		Success:          event.Success,
		Intent:           string(event.Intent),
		Emotion:          string(event.Emotion),
		ErrorCode:        event.ErrorCode,
		ProfileUpdatedTs: event.ProfileUpdatedTs,
		CreatedTs:        event.CreatedAt.UnixMilli(),
	}); err != nil {
		slog.Warn("analytics event persist failed",
			"tenant_id", event.TenantID,
			"error", err)
	}
}

// broadcast fans the event out to subscribers; a full subscriber buffer
// loses the event.
func (s *ChannelSink) broadcast(event *Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subscribers {
		select {
		case sub <- event:
		default:
		}
	}
}

// Ensure ChannelSink implements Sink
var _ Sink = (*ChannelSink)(nil)
