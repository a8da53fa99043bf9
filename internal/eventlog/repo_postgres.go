package eventlog

import (
	"context"
	"database/sql"
)

// PostgresRepo persists webhook log entries.
//
// Assumed table:
//
//	webhook_log (
//	  id uuid primary key,
//	  organization_id text,
//	  event text not null,
//	  agent_id text,
//	  platform_call_id text,
//	  raw_payload jsonb,
//	  import_result text not null,
//	  forwarding_result text,
//	  created_at timestamptz not null
//	)
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Entry) error {
	const q = `
INSERT INTO webhook_log (
  id, organization_id, event, agent_id, platform_call_id,
  raw_payload, import_result, forwarding_result, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.OrganizationID, e.Event, e.AgentID, e.PlatformCallID,
		[]byte(e.RawPayload), e.ImportResult, e.ForwardingResult, e.CreatedAt,
	)
	return err
}

func (r *PostgresRepo) SetImportResult(ctx context.Context, id string, result ImportResult) error {
	const q = `UPDATE webhook_log SET import_result = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, result)
	return err
}

func (r *PostgresRepo) SetForwardingResult(ctx context.Context, organizationID, platformCallID, event, result string) error {
	// Annotate the most recent matching entry; retried deliveries append
	// multiple rows for the same call id and event.
	const q = `
UPDATE webhook_log SET forwarding_result = $4
WHERE id = (
  SELECT id FROM webhook_log
  WHERE organization_id = $1 AND platform_call_id = $2 AND event = $3
  ORDER BY created_at DESC
  LIMIT 1
)
`
	_, err := r.db.ExecContext(ctx, q, organizationID, platformCallID, event, result)
	return err
}

func (r *PostgresRepo) ListRecent(ctx context.Context, organizationID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, organization_id, event, agent_id, platform_call_id,
       raw_payload, import_result, COALESCE(forwarding_result, ''), created_at
FROM webhook_log
WHERE organization_id = $1
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := r.db.QueryContext(ctx, q, organizationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var raw []byte
		if err := rows.Scan(
			&e.ID, &e.OrganizationID, &e.Event, &e.AgentID, &e.PlatformCallID,
			&raw, &e.ImportResult, &e.ForwardingResult, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.RawPayload = raw
		out = append(out, e)
	}
	return out, rows.Err()
}
