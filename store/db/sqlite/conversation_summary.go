package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/answerdesk/answerdesk/store"
)

func (d *DB) UpsertConversationSummary(ctx context.Context, upsert *store.ConversationSummary) (*store.ConversationSummary, error) {
	if upsert.UpdatedTs == 0 {
		upsert.UpdatedTs = time.Now().Unix()
	}

	stmt := `
		INSERT INTO conversation_summary (tenant_id, conversation_id, summary, preferences, updated_ts)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, conversation_id)
		DO UPDATE SET summary = excluded.summary, preferences = excluded.preferences, updated_ts = excluded.updated_ts
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.TenantID, upsert.ConversationID, upsert.Summary, upsert.Preferences, upsert.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert conversation summary")
	}

	return upsert, nil
}

func (d *DB) GetConversationSummary(ctx context.Context, tenantID, conversationID string) (*store.ConversationSummary, error) {
	query := `
		SELECT tenant_id, conversation_id, summary, preferences, updated_ts
		FROM conversation_summary
		WHERE tenant_id = ? AND conversation_id = ?
	`

	s := &store.ConversationSummary{}
	err := d.db.QueryRowContext(ctx, query, tenantID, conversationID).Scan(
		&s.TenantID, &s.ConversationID, &s.Summary, &s.Preferences, &s.UpdatedTs,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get conversation summary")
	}

	return s, nil
}

func (d *DB) DeleteConversationSummariesBefore(ctx context.Context, beforeTs int64) (int64, error) {
	result, err := d.db.ExecContext(ctx, "DELETE FROM conversation_summary WHERE updated_ts < ?", beforeTs)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete conversation summaries")
	}
	return result.RowsAffected()
}
