package contextstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/answerdesk/answerdesk/assist/timeout"
	"github.com/answerdesk/answerdesk/store"
)

// DefaultWindowSize is the number of verbatim turns kept per conversation.
const DefaultWindowSize = 20

// MemoryStoreConfig configures the in-memory context store.
type MemoryStoreConfig struct {
	// WindowSize bounds the verbatim turn window (default 20).
	WindowSize int
	// Folder compresses evicted turns (default: TemplateFolder).
	Folder Folder
	// Durable, if set, persists summaries across eviction and restarts.
	Durable *store.Store
}

type entry struct {
	turns       []Turn
	turnIDs     map[string]struct{}
	summary     string
	preferences map[string]string
	lastActive  time.Time
	// rehydrated marks that the durable summary (if any) was loaded.
	rehydrated bool
}

// MemoryStore is the in-memory Service implementation. The raw turn window
// lives only in memory; the rolling summary and preferences survive
// eviction through the durable store when one is configured.
type MemoryStore struct {
	windowSize int
	folder     Folder
	durable    *store.Store

	mu      sync.Mutex
	entries map[Key]*entry

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMemoryStore creates a context store.
func NewMemoryStore(cfg MemoryStoreConfig) *MemoryStore {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = DefaultWindowSize
	}
	if cfg.Folder == nil {
		cfg.Folder = NewTemplateFolder()
	}

	return &MemoryStore{
		windowSize: cfg.WindowSize,
		folder:     cfg.Folder,
		durable:    cfg.Durable,
		entries:    make(map[Key]*entry),
	}
}

// Get returns the conversation snapshot, creating an empty one if absent.
func (s *MemoryStore) Get(ctx context.Context, key Key) *Conversation {
	s.mu.Lock()
	e := s.entryLocked(key)
	needRehydrate := s.durable != nil && !e.rehydrated && e.summary == ""
	if needRehydrate {
		// Mark before releasing the lock so a failed load is not
		// retried on every message.
		e.rehydrated = true
	}
	s.mu.Unlock()

	if needRehydrate {
		s.rehydrate(ctx, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(key)
}

// AppendTurn appends a turn, folding overflow into the summary.
func (s *MemoryStore) AppendTurn(_ context.Context, key Key, turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(key)
	if turn.ID != "" {
		if _, dup := e.turnIDs[turn.ID]; dup {
			return
		}
		e.turnIDs[turn.ID] = struct{}{}
	}

	// Turns are strictly time-ordered within a conversation.
	if n := len(e.turns); n > 0 && turn.Timestamp <= e.turns[n-1].Timestamp {
		turn.Timestamp = e.turns[n-1].Timestamp + 1
	}
	e.turns = append(e.turns, turn)
	e.lastActive = time.Now()

	if excess := len(e.turns) - s.windowSize; excess > 0 {
		evicted := e.turns[:excess]
		e.summary = s.folder.Fold(e.summary, evicted)
		for _, t := range evicted {
			delete(e.turnIDs, t.ID)
		}
		e.turns = append([]Turn(nil), e.turns[excess:]...)
	}
}

// Summary returns the rolling summary for the conversation.
func (s *MemoryStore) Summary(ctx context.Context, key Key) string {
	return s.Get(ctx, key).Summary
}

// SetPreference records a free-form preference.
func (s *MemoryStore) SetPreference(_ context.Context, key Key, name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(key)
	e.preferences[name] = value
	e.lastActive = time.Now()
}

// EvictIdle drops conversations idle since before olderThan. Summaries and
// preferences are persisted first so eviction only discards raw turns.
func (s *MemoryStore) EvictIdle(ctx context.Context, olderThan time.Time) int {
	s.mu.Lock()
	var idle []Key
	for key, e := range s.entries {
		if e.lastActive.Before(olderThan) {
			idle = append(idle, key)
		}
	}
	s.mu.Unlock()

	evicted := 0
	for _, key := range idle {
		s.mu.Lock()
		e, ok := s.entries[key]
		if !ok || !e.lastActive.Before(olderThan) {
			s.mu.Unlock()
			continue
		}
		summary := e.summary
		prefs := e.preferences
		delete(s.entries, key)
		s.mu.Unlock()

		s.persist(ctx, key, summary, prefs)
		evicted++
	}
	return evicted
}

// entryLocked returns the entry for key, creating it lazily. Caller must
// hold the lock.
func (s *MemoryStore) entryLocked(key Key) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{
			turnIDs:     make(map[string]struct{}),
			preferences: make(map[string]string),
			lastActive:  time.Now(),
		}
		s.entries[key] = e
	}
	return e
}

func (s *MemoryStore) snapshotLocked(key Key) *Conversation {
	e := s.entries[key]
	conv := &Conversation{
		Key:         key,
		Turns:       append([]Turn(nil), e.turns...),
		Summary:     e.summary,
		Preferences: make(map[string]string, len(e.preferences)),
		LastActive:  e.lastActive,
	}
	for k, v := range e.preferences {
		conv.Preferences[k] = v
	}
	return conv
}

// rehydrate loads the durable summary left behind by a previous eviction
// or process restart. Failures degrade to an empty summary.
func (s *MemoryStore) rehydrate(ctx context.Context, key Key) {
	loadCtx, cancel := context.WithTimeout(ctx, timeout.ContextStoreOp)
	defer cancel()

	saved, err := s.durable.GetConversationSummary(loadCtx, key.TenantID, key.ConversationID)
	if err != nil {
		slog.Warn("context summary load failed, proceeding memoryless",
			"tenant_id", key.TenantID,
			"conversation_id", key.ConversationID,
			"error", err)
		return
	}
	if saved == nil {
		return
	}

	prefs := map[string]string{}
	if len(saved.Preferences) > 0 {
		if err := json.Unmarshal(saved.Preferences, &prefs); err != nil {
			slog.Warn("stored preferences unreadable, dropping",
				"tenant_id", key.TenantID,
				"conversation_id", key.ConversationID,
				"error", err)
			prefs = map[string]string{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entryLocked(key)
	if e.summary == "" {
		e.summary = saved.Summary
	}
	for k, v := range prefs {
		if _, exists := e.preferences[k]; !exists {
			e.preferences[k] = v
		}
	}
}

// persist writes the summary and preferences to the durable store. Best
// effort: a failed write is logged and the eviction proceeds.
func (s *MemoryStore) persist(ctx context.Context, key Key, summary string, prefs map[string]string) {
	if s.durable == nil || (summary == "" && len(prefs) == 0) {
		return
	}

	payload, err := json.Marshal(prefs)
	if err != nil {
		payload = nil
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout.ContextStoreOp)
	defer cancel()
	if _, err := s.durable.UpsertConversationSummary(saveCtx, &store.ConversationSummary{
		TenantID:       key.TenantID,
		ConversationID: key.ConversationID,
		Summary:        summary,
		Preferences:    payload,
		UpdatedTs:      time.Now().UnixMilli(),
	}); err != nil {
		slog.Warn("context summary persist failed",
			"tenant_id", key.TenantID,
			"conversation_id", key.ConversationID,
			"error", err)
	}
}

// Ensure MemoryStore implements Service
var _ Service = (*MemoryStore)(nil)
