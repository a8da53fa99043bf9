package platforms

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// Platform names the supported external automation platforms.
type Platform string

const (
	PlatformZapier      Platform = "zapier"
	PlatformMake        Platform = "make"
	PlatformGoHighLevel Platform = "gohighlevel"
)

// Connection is a tenant's link to one automation platform. Owned by the
// tenant settings screens; read-only here.
type Connection struct {
	ClientID string
	Platform Platform

	// HookURL receives the event payload (zapier/make style).
	HookURL string
	// APIKey authenticates API-style platforms (gohighlevel).
	APIKey string
	// LocationID scopes gohighlevel deliveries.
	LocationID string
}

var ErrNoConnection = errors.New("platforms: no connection")

// ConnectionReader loads a tenant's connection for one platform.
// ErrNoConnection means the tenant never connected it: a silent no-op.
type ConnectionReader interface {
	ForClient(ctx context.Context, clientID string, platform Platform) (Connection, error)
}

// PostgresConnectionReader reads platform_connections rows.
type PostgresConnectionReader struct {
	db *sql.DB
}

func NewPostgresConnectionReader(db *sql.DB) *PostgresConnectionReader {
	return &PostgresConnectionReader{db: db}
}

func (r *PostgresConnectionReader) ForClient(ctx context.Context, clientID string, platform Platform) (Connection, error) {
	const q = `
SELECT client_id, platform, COALESCE(hook_url, ''), COALESCE(api_key, ''), COALESCE(location_id, '')
FROM platform_connections
WHERE client_id = $1 AND platform = $2 AND is_active = true
`
	var c Connection
	err := r.db.QueryRowContext(ctx, q, clientID, platform).Scan(
		&c.ClientID, &c.Platform, &c.HookURL, &c.APIKey, &c.LocationID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Connection{}, ErrNoConnection
		}
		return Connection{}, err
	}
	return c, nil
}

// MemoryConnectionReader is a map-backed reader useful for tests.
type MemoryConnectionReader struct {
	mu    sync.Mutex
	conns map[string]Connection
}

func NewMemoryConnectionReader() *MemoryConnectionReader {
	return &MemoryConnectionReader{conns: make(map[string]Connection)}
}

func (r *MemoryConnectionReader) Put(c Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ClientID+"/"+string(c.Platform)] = c
}

func (r *MemoryConnectionReader) ForClient(ctx context.Context, clientID string, platform Platform) (Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[clientID+"/"+string(platform)]
	if !ok {
		return Connection{}, ErrNoConnection
	}
	return c, nil
}
