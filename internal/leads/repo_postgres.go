package leads

import (
	"context"
	"database/sql"
)

// PostgresRepo reads lead rows; the leads table is owned by the CRM side.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) FindByAgentAndPhone(ctx context.Context, agentID, phone string) ([]Lead, error) {
	const q = `
SELECT id, agent_id, phone, COALESCE(score, 0)
FROM leads
WHERE agent_id = $1 AND phone = $2
`
	rows, err := r.db.QueryContext(ctx, q, agentID, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.AgentID, &l.Phone, &l.Score); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
