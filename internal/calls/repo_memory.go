package calls

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is a map-backed repository useful for tests.
type MemoryRepo struct {
	mu   sync.Mutex
	byID map[string]CallRecord
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]CallRecord)}
}

func key(organizationID, providerCallID string) string {
	return organizationID + "/" + providerCallID
}

func (r *MemoryRepo) Create(ctx context.Context, rec CallRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.OrganizationID == rec.OrganizationID && existing.ProviderCallID == rec.ProviderCallID {
			return false, nil
		}
	}
	r.byID[rec.ID] = rec
	return true, nil
}

func (r *MemoryRepo) GetByProviderCallID(ctx context.Context, organizationID, providerCallID string) (CallRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.byID {
		if rec.OrganizationID == organizationID && rec.ProviderCallID == providerCallID {
			return rec, nil
		}
	}
	return CallRecord{}, ErrNotFound
}

func (r *MemoryRepo) Update(ctx context.Context, rec CallRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rec.ID]; !ok {
		return ErrNotFound
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *MemoryRepo) ListRecent(ctx context.Context, organizationID string, limit int) ([]CallRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []CallRecord
	for _, rec := range r.byID {
		if rec.OrganizationID == organizationID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count reports how many records exist; test helper.
func (r *MemoryRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
