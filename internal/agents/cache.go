package agents

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedResolver memoizes successful lookups in a bounded LRU.
//
// Misses are not cached: an agent can be synced at any moment and the next
// event for it should see the new row.
type CachedResolver struct {
	next  Resolver
	cache *lru.Cache[string, Identity]
}

func NewCachedResolver(next Resolver, size int) (*CachedResolver, error) {
	if size <= 0 {
		size = 1024
	}
	c, err := lru.New[string, Identity](size)
	if err != nil {
		return nil, err
	}
	return &CachedResolver{next: next, cache: c}, nil
}

func (r *CachedResolver) Resolve(ctx context.Context, providerAgentID string) (Identity, error) {
	if ident, ok := r.cache.Get(providerAgentID); ok {
		return ident, nil
	}
	ident, err := r.next.Resolve(ctx, providerAgentID)
	if err != nil {
		return Identity{}, err
	}
	r.cache.Add(providerAgentID, ident)
	return ident, nil
}
