package contextstore

import (
	"context"
	"log/slog"
	"time"
)

// StartEviction launches the background loop that evicts conversations
// idle for longer than idleTTL, checking every interval. Call Close to
// stop it.
func (s *MemoryStore) StartEviction(interval, idleTTL time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-idleTTL)
				if n := s.EvictIdle(ctx, cutoff); n > 0 {
					slog.Debug("evicted idle conversations", "count", n)
				}
			}
		}
	}()
}

// Close stops the eviction loop and waits for it to finish. Safe to call
// when the loop was never started.
func (s *MemoryStore) Close() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}
