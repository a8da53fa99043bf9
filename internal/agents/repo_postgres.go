package agents

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresResolver looks up agent identity rows by provider agent id.
type PostgresResolver struct {
	db *sql.DB
}

func NewPostgresResolver(db *sql.DB) *PostgresResolver {
	return &PostgresResolver{db: db}
}

func (r *PostgresResolver) Resolve(ctx context.Context, providerAgentID string) (Identity, error) {
	const q = `
SELECT id, organization_id, client_id, COALESCE(webhook_url, ''), COALESCE(business_name, '')
FROM agents
WHERE provider_agent_id = $1
`
	var ident Identity
	err := r.db.QueryRowContext(ctx, q, providerAgentID).Scan(
		&ident.AgentID,
		&ident.OrganizationID,
		&ident.ClientID,
		&ident.WebhookURL,
		&ident.BusinessName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, err
	}
	return ident, nil
}
