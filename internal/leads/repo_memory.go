package leads

import (
	"context"
	"sync"

	"voicehub/internal/calls"
)

// MemoryRepo is a slice-backed repository useful for tests.
type MemoryRepo struct {
	mu    sync.Mutex
	leads []Lead
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Put(l Lead) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads = append(r.leads, l)
}

func (r *MemoryRepo) FindByAgentAndPhone(ctx context.Context, agentID, phone string) ([]Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Lead
	for _, l := range r.leads {
		if l.AgentID == agentID && l.Phone == phone {
			out = append(out, l)
		}
	}
	return out, nil
}

// FuncScorer adapts a function to the Scorer interface; test helper.
type FuncScorer func(ctx context.Context, lead Lead, call calls.CallRecord) error

func (f FuncScorer) Score(ctx context.Context, lead Lead, call calls.CallRecord) error {
	return f(ctx, lead, call)
}
