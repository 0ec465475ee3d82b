package sqlite

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/answerdesk/answerdesk/store"
)

func (d *DB) UpsertKnowledgeItem(ctx context.Context, upsert *store.KnowledgeItem) (*store.KnowledgeItem, error) {
	if upsert.UpdatedTs == 0 {
		upsert.UpdatedTs = time.Now().Unix()
	}
	if upsert.Source == "" {
		upsert.Source = store.KnowledgeSourceSynced
	}

	stmt := `
		INSERT INTO knowledge_item (tenant_id, topic, value, source, updated_ts)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, topic)
		DO UPDATE SET value = excluded.value, source = excluded.source, updated_ts = excluded.updated_ts
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.TenantID, upsert.Topic, upsert.Value, upsert.Source, upsert.UpdatedTs,
	).Scan(&upsert.ID); err != nil {
		return nil, errors.Wrap(err, "failed to upsert knowledge item")
	}

	return upsert, nil
}

func (d *DB) ListKnowledgeItems(ctx context.Context, find *store.FindKnowledgeItem) ([]*store.KnowledgeItem, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.TenantID != nil {
		where = append(where, "tenant_id = ?")
		args = append(args, *find.TenantID)
	}
	if find.Topic != nil {
		where = append(where, "topic = ?")
		args = append(args, *find.Topic)
	}

	query := "SELECT id, tenant_id, topic, value, source, updated_ts FROM knowledge_item WHERE " +
		joinAnd(where) + " ORDER BY topic"
	if find.Limit != nil {
		query += limitClause(*find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list knowledge items")
	}
	defer rows.Close()

	var items []*store.KnowledgeItem
	for rows.Next() {
		item := &store.KnowledgeItem{}
		if err := rows.Scan(&item.ID, &item.TenantID, &item.Topic, &item.Value, &item.Source, &item.UpdatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan knowledge item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate knowledge items")
	}

	return items, nil
}

func (d *DB) DeleteKnowledgeItems(ctx context.Context, delete *store.DeleteKnowledgeItem) error {
	stmt := "DELETE FROM knowledge_item WHERE tenant_id = ?"
	args := []any{delete.TenantID}
	if delete.Source != nil {
		stmt += " AND source = ?"
		args = append(args, *delete.Source)
	}

	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "failed to delete knowledge items")
	}
	return nil
}
