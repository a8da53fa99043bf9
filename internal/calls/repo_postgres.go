package calls

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PostgresRepo persists call records.
//
// Assumed table:
//
//	call_records (
//	  id uuid primary key,
//	  organization_id text not null,
//	  client_id text,
//	  agent_id text,
//	  provider_call_id text not null,
//	  from_number text, to_number text, direction text,
//	  status text not null,
//	  duration_seconds int not null default 0,
//	  transcript jsonb, summary text, recording_url text,
//	  post_call_analysis jsonb,
//	  started_at timestamptz, ended_at timestamptz,
//	  metadata jsonb,
//	  created_at timestamptz not null, updated_at timestamptz not null,
//	  unique (organization_id, provider_call_id)
//	)
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const callColumns = `
id, organization_id, client_id, agent_id, provider_call_id,
from_number, to_number, direction, status, duration_seconds,
transcript, COALESCE(summary, ''), COALESCE(recording_url, ''),
post_call_analysis, started_at, ended_at, metadata, created_at, updated_at
`

func (r *PostgresRepo) Create(ctx context.Context, rec CallRecord) (bool, error) {
	const q = `
INSERT INTO call_records (
  id, organization_id, client_id, agent_id, provider_call_id,
  from_number, to_number, direction, status, duration_seconds,
  transcript, summary, recording_url, post_call_analysis,
  started_at, ended_at, metadata, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
ON CONFLICT (organization_id, provider_call_id) DO NOTHING
`
	transcript, analysis, metadata, err := marshalJSONFields(rec)
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.OrganizationID, rec.ClientID, rec.AgentID, rec.ProviderCallID,
		rec.FromNumber, rec.ToNumber, rec.Direction, rec.Status, rec.DurationSeconds,
		transcript, rec.Summary, rec.RecordingURL, analysis,
		rec.StartedAt, rec.EndedAt, metadata, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresRepo) GetByProviderCallID(ctx context.Context, organizationID, providerCallID string) (CallRecord, error) {
	q := `SELECT ` + callColumns + ` FROM call_records WHERE organization_id = $1 AND provider_call_id = $2`
	rec, err := scanCall(r.db.QueryRowContext(ctx, q, organizationID, providerCallID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CallRecord{}, ErrNotFound
		}
		return CallRecord{}, err
	}
	return rec, nil
}

func (r *PostgresRepo) Update(ctx context.Context, rec CallRecord) error {
	const q = `
UPDATE call_records SET
  status = $2, duration_seconds = $3, transcript = $4, summary = $5,
  recording_url = $6, post_call_analysis = $7, started_at = $8,
  ended_at = $9, metadata = $10, updated_at = $11
WHERE id = $1
`
	transcript, analysis, metadata, err := marshalJSONFields(rec)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.Status, rec.DurationSeconds, transcript, rec.Summary,
		rec.RecordingURL, analysis, rec.StartedAt, rec.EndedAt, metadata, rec.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) ListRecent(ctx context.Context, organizationID string, limit int) ([]CallRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + callColumns + ` FROM call_records WHERE organization_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, organizationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CallRecord
	for rows.Next() {
		rec, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCall(row rowScanner) (CallRecord, error) {
	var (
		rec        CallRecord
		transcript []byte
		analysis   []byte
		metadata   []byte
	)
	err := row.Scan(
		&rec.ID, &rec.OrganizationID, &rec.ClientID, &rec.AgentID, &rec.ProviderCallID,
		&rec.FromNumber, &rec.ToNumber, &rec.Direction, &rec.Status, &rec.DurationSeconds,
		&transcript, &rec.Summary, &rec.RecordingURL,
		&analysis, &rec.StartedAt, &rec.EndedAt, &metadata, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return CallRecord{}, err
	}
	if len(transcript) > 0 {
		if err := json.Unmarshal(transcript, &rec.Transcript); err != nil {
			return CallRecord{}, err
		}
	}
	if len(analysis) > 0 {
		if err := json.Unmarshal(analysis, &rec.PostCallAnalysis); err != nil {
			return CallRecord{}, err
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &rec.Metadata); err != nil {
			return CallRecord{}, err
		}
	}
	return rec, nil
}

func marshalJSONFields(rec CallRecord) (transcript, analysis, metadata []byte, err error) {
	if rec.Transcript != nil {
		if transcript, err = json.Marshal(rec.Transcript); err != nil {
			return nil, nil, nil, err
		}
	}
	if rec.PostCallAnalysis != nil {
		if analysis, err = json.Marshal(rec.PostCallAnalysis); err != nil {
			return nil, nil, nil, err
		}
	}
	if rec.Metadata != nil {
		if metadata, err = json.Marshal(rec.Metadata); err != nil {
			return nil, nil, nil, err
		}
	}
	return transcript, analysis, metadata, nil
}
