package actions

import (
	"context"
	"database/sql"
	"sync"
)

// Reader loads enabled post-call actions for a tenant.
type Reader interface {
	EnabledForClient(ctx context.Context, clientID string) ([]Action, error)
}

// PostgresReader reads post_call_actions rows.
type PostgresReader struct {
	db *sql.DB
}

func NewPostgresReader(db *sql.DB) *PostgresReader {
	return &PostgresReader{db: db}
}

func (r *PostgresReader) EnabledForClient(ctx context.Context, clientID string) ([]Action, error) {
	const q = `
SELECT id, client_id, action_type, is_enabled, config
FROM post_call_actions
WHERE client_id = $1 AND is_enabled = true
`
	rows, err := r.db.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Action
	for rows.Next() {
		var a Action
		var cfg []byte
		if err := rows.Scan(&a.ID, &a.ClientID, &a.Type, &a.Enabled, &cfg); err != nil {
			return nil, err
		}
		a.Config = cfg
		out = append(out, a)
	}
	return out, rows.Err()
}

// MemoryReader is a map-backed reader useful for tests.
type MemoryReader struct {
	mu       sync.Mutex
	byClient map[string][]Action
}

func NewMemoryReader() *MemoryReader {
	return &MemoryReader{byClient: make(map[string][]Action)}
}

func (r *MemoryReader) Put(a Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byClient[a.ClientID] = append(r.byClient[a.ClientID], a)
}

func (r *MemoryReader) EnabledForClient(ctx context.Context, clientID string) ([]Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Action
	for _, a := range r.byClient[clientID] {
		if a.Enabled {
			out = append(out, a)
		}
	}
	return out, nil
}
