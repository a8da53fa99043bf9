package leads

import (
	"context"
	"testing"

	"voicehub/internal/calls"
)

func TestScoreCall_ScoresSingleMatch(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Put(Lead{ID: "l1", AgentID: "a1", Phone: "+15551234567"})

	var scored []string
	adapter := NewAdapter(repo, FuncScorer(func(ctx context.Context, lead Lead, call calls.CallRecord) error {
		scored = append(scored, lead.ID)
		return nil
	}), nil)

	call := calls.CallRecord{AgentID: "a1", FromNumber: "+15551234567"}
	if err := adapter.ScoreCall(context.Background(), call); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(scored) != 1 || scored[0] != "l1" {
		t.Fatalf("expected lead l1 scored, got %v", scored)
	}
}

func TestScoreCall_ZeroMatchesIsNoOp(t *testing.T) {
	adapter := NewAdapter(NewMemoryRepo(), FuncScorer(func(ctx context.Context, lead Lead, call calls.CallRecord) error {
		t.Fatalf("scorer must not run")
		return nil
	}), nil)

	call := calls.CallRecord{AgentID: "a1", FromNumber: "+15550000001"}
	if err := adapter.ScoreCall(context.Background(), call); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestScoreCall_AmbiguousMatchesIsNoOp(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Put(Lead{ID: "l1", AgentID: "a1", Phone: "+15551234567"})
	repo.Put(Lead{ID: "l2", AgentID: "a1", Phone: "+15551234567"})

	adapter := NewAdapter(repo, FuncScorer(func(ctx context.Context, lead Lead, call calls.CallRecord) error {
		t.Fatalf("scorer must not run on ambiguous match")
		return nil
	}), nil)

	call := calls.CallRecord{AgentID: "a1", FromNumber: "+15551234567"}
	if err := adapter.ScoreCall(context.Background(), call); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestScoreCall_FallsBackToToNumber(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Put(Lead{ID: "l1", AgentID: "a1", Phone: "+15559999999"})

	var hits int
	adapter := NewAdapter(repo, FuncScorer(func(ctx context.Context, lead Lead, call calls.CallRecord) error {
		hits++
		return nil
	}), nil)

	call := calls.CallRecord{AgentID: "a1", ToNumber: "+15559999999"}
	if err := adapter.ScoreCall(context.Background(), call); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected one scoring call, got %d", hits)
	}
}
