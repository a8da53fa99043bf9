package agents

import (
	"context"
	"sync"
)

// MemoryResolver is a map-backed resolver useful for tests.
type MemoryResolver struct {
	mu    sync.Mutex
	byPID map[string]Identity
	calls int
}

func NewMemoryResolver() *MemoryResolver {
	return &MemoryResolver{byPID: make(map[string]Identity)}
}

func (r *MemoryResolver) Put(providerAgentID string, ident Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPID[providerAgentID] = ident
}

func (r *MemoryResolver) Resolve(ctx context.Context, providerAgentID string) (Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	ident, ok := r.byPID[providerAgentID]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return ident, nil
}

// ResolveCalls reports how many lookups reached this resolver.
func (r *MemoryResolver) ResolveCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
