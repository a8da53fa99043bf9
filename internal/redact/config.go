package redact

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
)

// Config is the tenant-owned redaction setting. Read-only to the pipeline.
type Config struct {
	ClientID       string   `json:"client_id"`
	Enabled        bool     `json:"enabled"`
	CustomPatterns []string `json:"custom_patterns,omitempty"`
}

// ConfigReader loads the redaction config for a tenant. A tenant without a
// row gets the zero Config (redaction disabled).
type ConfigReader interface {
	ForClient(ctx context.Context, clientID string) (Config, error)
}

// PostgresConfigReader reads pii_redaction_configs rows.
type PostgresConfigReader struct {
	db *sql.DB
}

func NewPostgresConfigReader(db *sql.DB) *PostgresConfigReader {
	return &PostgresConfigReader{db: db}
}

func (r *PostgresConfigReader) ForClient(ctx context.Context, clientID string) (Config, error) {
	const q = `
SELECT client_id, enabled, COALESCE(custom_patterns, '[]')
FROM pii_redaction_configs
WHERE client_id = $1
`
	var cfg Config
	var patterns []byte
	err := r.db.QueryRowContext(ctx, q, clientID).Scan(&cfg.ClientID, &cfg.Enabled, &patterns)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Config{ClientID: clientID}, nil
		}
		return Config{}, err
	}
	if err := json.Unmarshal(patterns, &cfg.CustomPatterns); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MemoryConfigReader is a map-backed reader useful for tests.
type MemoryConfigReader struct {
	mu       sync.Mutex
	byClient map[string]Config
}

func NewMemoryConfigReader() *MemoryConfigReader {
	return &MemoryConfigReader{byClient: make(map[string]Config)}
}

func (r *MemoryConfigReader) Put(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byClient[cfg.ClientID] = cfg
}

func (r *MemoryConfigReader) ForClient(ctx context.Context, clientID string) (Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg, ok := r.byClient[clientID]; ok {
		return cfg, nil
	}
	return Config{ClientID: clientID}, nil
}
