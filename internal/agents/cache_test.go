package agents

import (
	"context"
	"errors"
	"testing"
)

func TestCachedResolver_CachesHits(t *testing.T) {
	mem := NewMemoryResolver()
	mem.Put("pa_1", Identity{AgentID: "a1", OrganizationID: "org1", ClientID: "cl1"})

	r, err := NewCachedResolver(mem, 8)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	for i := 0; i < 3; i++ {
		ident, err := r.Resolve(context.Background(), "pa_1")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if ident.AgentID != "a1" {
			t.Fatalf("unexpected identity: %+v", ident)
		}
	}
	if got := mem.ResolveCalls(); got != 1 {
		t.Fatalf("expected 1 backing lookup, got %d", got)
	}
}

func TestCachedResolver_DoesNotCacheMisses(t *testing.T) {
	mem := NewMemoryResolver()
	r, err := NewCachedResolver(mem, 8)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := r.Resolve(context.Background(), "pa_x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Agent synced after the miss; next lookup must see it.
	mem.Put("pa_x", Identity{AgentID: "ax", OrganizationID: "org1", ClientID: "cl1"})
	ident, err := r.Resolve(context.Background(), "pa_x")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ident.AgentID != "ax" {
		t.Fatalf("unexpected identity: %+v", ident)
	}
}
