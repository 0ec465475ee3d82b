package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/answerdesk/answerdesk/internal/profile"
	"github.com/answerdesk/answerdesk/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite database described by the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	// WAL keeps readers (dashboard queries) from blocking the pipeline's
	// writes; busy_timeout covers the remaining write contention.
	dsn := profile.DSN + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// SQLite serializes writes; a single writer connection avoids
	// SQLITE_BUSY churn under concurrent workers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &DB{
		db:      db,
		profile: profile,
	}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

const latestSchema = `
CREATE TABLE IF NOT EXISTS knowledge_item (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tenant_id TEXT NOT NULL,
	topic TEXT NOT NULL,
	value TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT 'synced',
	updated_ts BIGINT NOT NULL,
	UNIQUE(tenant_id, topic)
);
CREATE INDEX IF NOT EXISTS idx_knowledge_item_tenant ON knowledge_item (tenant_id);

CREATE TABLE IF NOT EXISTS tenant_profile (
	tenant_id TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS analytics_event (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	tenant_id TEXT NOT NULL,
	conversation_id TEXT NOT NULL,
	latency_ms BIGINT NOT NULL,
	provider TEXT NOT NULL,
	success INTEGER NOT NULL,
	intent TEXT NOT NULL DEFAULT '',
	emotion TEXT NOT NULL DEFAULT '',
	error_code TEXT NOT NULL DEFAULT '',
	profile_updated_ts BIGINT NOT NULL DEFAULT 0,
	created_ts BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analytics_event_tenant ON analytics_event (tenant_id, created_ts);

CREATE TABLE IF NOT EXISTS conversation_summary (
	tenant_id TEXT NOT NULL,
	conversation_id TEXT NOT NULL,
	summary TEXT NOT NULL,
	preferences BLOB,
	updated_ts BIGINT NOT NULL,
	PRIMARY KEY (tenant_id, conversation_id)
);
`

// Migrate applies the latest schema. Statements are idempotent.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, latestSchema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}

// Ensure DB implements store.Driver
var _ store.Driver = (*DB)(nil)
