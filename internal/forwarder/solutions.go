package forwarder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// Solution is an external product endpoint subscribed to a tenant's raw
// call events.
type Solution struct {
	ID             string
	OrganizationID string
	Name           string
	WebhookURL     string
}

// SolutionsReader lists the active solution endpoints for a tenant.
type SolutionsReader interface {
	ActiveSolutions(ctx context.Context, organizationID string) ([]Solution, error)
}

// PostgresSolutionsReader reads tenant_solutions rows.
//
//	CREATE TABLE tenant_solutions (
//	    id              UUID PRIMARY KEY,
//	    organization_id UUID NOT NULL,
//	    name            TEXT NOT NULL,
//	    webhook_url     TEXT NOT NULL,
//	    is_active       BOOLEAN NOT NULL DEFAULT TRUE,
//	    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type PostgresSolutionsReader struct {
	db *sql.DB
}

func NewPostgresSolutionsReader(db *sql.DB) *PostgresSolutionsReader {
	return &PostgresSolutionsReader{db: db}
}

func (r *PostgresSolutionsReader) ActiveSolutions(ctx context.Context, organizationID string) ([]Solution, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, organization_id, name, webhook_url
		FROM tenant_solutions
		WHERE organization_id = $1 AND is_active = TRUE
		ORDER BY created_at`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("querying tenant solutions: %w", err)
	}
	defer rows.Close()

	var out []Solution
	for rows.Next() {
		var s Solution
		if err := rows.Scan(&s.ID, &s.OrganizationID, &s.Name, &s.WebhookURL); err != nil {
			return nil, fmt.Errorf("scanning tenant solution: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MemorySolutionsReader is a map-backed reader useful for tests.
type MemorySolutionsReader struct {
	mu    sync.RWMutex
	byOrg map[string][]Solution
}

func NewMemorySolutionsReader() *MemorySolutionsReader {
	return &MemorySolutionsReader{byOrg: make(map[string][]Solution)}
}

func (r *MemorySolutionsReader) Put(s Solution) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOrg[s.OrganizationID] = append(r.byOrg[s.OrganizationID], s)
}

func (r *MemorySolutionsReader) ActiveSolutions(ctx context.Context, organizationID string) ([]Solution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byOrg[organizationID], nil
}
