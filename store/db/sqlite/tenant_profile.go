package sqlite

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/answerdesk/answerdesk/store"
)

func (d *DB) UpsertTenantProfile(ctx context.Context, upsert *store.TenantProfile) (*store.TenantProfile, error) {
	if upsert.UpdatedTs == 0 {
		upsert.UpdatedTs = time.Now().Unix()
	}

	stmt := `
		INSERT INTO tenant_profile (tenant_id, payload, updated_ts)
		VALUES (?, ?, ?)
		ON CONFLICT (tenant_id)
		DO UPDATE SET payload = excluded.payload, updated_ts = excluded.updated_ts
	`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.TenantID, upsert.Payload, upsert.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert tenant profile")
	}

	return upsert, nil
}

func (d *DB) ListTenantProfiles(ctx context.Context, find *store.FindTenantProfile) ([]*store.TenantProfile, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.TenantID != nil {
		where = append(where, "tenant_id = ?")
		args = append(args, *find.TenantID)
	}

	query := "SELECT tenant_id, payload, updated_ts FROM tenant_profile WHERE " + joinAnd(where)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tenant profiles")
	}
	defer rows.Close()

	var profiles []*store.TenantProfile
	for rows.Next() {
		p := &store.TenantProfile{}
		if err := rows.Scan(&p.TenantID, &p.Payload, &p.UpdatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan tenant profile")
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate tenant profiles")
	}

	return profiles, nil
}
