package orchestrator

import (
	"context"
	"sync"

	"github.com/answerdesk/answerdesk/assist/contextstore"
)

// conversationLocks serializes orchestrations per conversation: at most
// one in-flight turn per key, other keys fully parallel. Lock entries are
// refcounted and removed when the last holder or waiter drops out, so the
// map stays bounded by in-flight conversations.
type conversationLocks struct {
	mu      sync.Mutex
	entries map[contextstore.Key]*lockEntry
}

type lockEntry struct {
	// ch is a buffered channel of one; waiting on it is abortable
	// through the context.
	ch   chan struct{}
	refs int
}

func newConversationLocks() *conversationLocks {
	return &conversationLocks{entries: make(map[contextstore.Key]*lockEntry)}
}

func (l *conversationLocks) acquire(ctx context.Context, key contextstore.Key) error {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.drop(key, e)
		return ctx.Err()
	}
}

func (l *conversationLocks) release(key contextstore.Key) {
	l.mu.Lock()
	e, ok := l.entries[key]
	l.mu.Unlock()
	if !ok {
		return
	}
	<-e.ch
	l.drop(key, e)
}

// drop decrements the refcount and deletes the entry once nobody holds
// or waits on it.
func (l *conversationLocks) drop(key contextstore.Key, e *lockEntry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()
}

func (l *conversationLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
