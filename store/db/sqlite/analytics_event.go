package sqlite

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/answerdesk/answerdesk/store"
)

func (d *DB) CreateAnalyticsEvent(ctx context.Context, create *store.AnalyticsEvent) (*store.AnalyticsEvent, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}

	stmt := `
		INSERT INTO analytics_event (
			uid, tenant_id, conversation_id, latency_ms, provider, success,
			intent, emotion, error_code, profile_updated_ts, created_ts
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.TenantID, create.ConversationID, create.LatencyMs,
		create.Provider, create.Success, create.Intent, create.Emotion,
		create.ErrorCode, create.ProfileUpdatedTs, create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create analytics event")
	}

	return create, nil
}

func (d *DB) ListAnalyticsEvents(ctx context.Context, find *store.FindAnalyticsEvent) ([]*store.AnalyticsEvent, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.TenantID != nil {
		where = append(where, "tenant_id = ?")
		args = append(args, *find.TenantID)
	}
	if find.ConversationID != nil {
		where = append(where, "conversation_id = ?")
		args = append(args, *find.ConversationID)
	}
	if find.Success != nil {
		where = append(where, "success = ?")
		args = append(args, *find.Success)
	}
	if find.AfterTs != nil {
		where = append(where, "created_ts >= ?")
		args = append(args, *find.AfterTs)
	}

	query := `
		SELECT id, uid, tenant_id, conversation_id, latency_ms, provider, success,
			intent, emotion, error_code, profile_updated_ts, created_ts
		FROM analytics_event
		WHERE ` + joinAnd(where) + " ORDER BY created_ts DESC"
	if find.Limit != nil {
		query += limitClause(*find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list analytics events")
	}
	defer rows.Close()

	var events []*store.AnalyticsEvent
	for rows.Next() {
		e := &store.AnalyticsEvent{}
		if err := rows.Scan(
			&e.ID, &e.UID, &e.TenantID, &e.ConversationID, &e.LatencyMs, &e.Provider,
			&e.Success, &e.Intent, &e.Emotion, &e.ErrorCode, &e.ProfileUpdatedTs, &e.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan analytics event")
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate analytics events")
	}

	return events, nil
}

func (d *DB) DeleteAnalyticsEventsBefore(ctx context.Context, beforeTs int64) (int64, error) {
	result, err := d.db.ExecContext(ctx, "DELETE FROM analytics_event WHERE created_ts < ?", beforeTs)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete analytics events")
	}
	return result.RowsAffected()
}
