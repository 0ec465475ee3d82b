// Package test provides store tests backed by a throwaway SQLite database.
package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/answerdesk/answerdesk/internal/profile"
	"github.com/answerdesk/answerdesk/store"
	"github.com/answerdesk/answerdesk/store/db"
)

// NewTestingStore creates a migrated store over a temp SQLite database.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	p := &profile.Profile{
		Mode:   "demo",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "answerdesk_test.db"),
	}
	driver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	ts := store.New(driver, p)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = ts.Close() })
	return ts
}
