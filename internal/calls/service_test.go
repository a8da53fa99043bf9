package calls

import (
	"context"
	"errors"
	"testing"
)

func TestStartCall_CreatesInProgressRecord(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	rec, err := svc.StartCall(context.Background(), StartParams{
		OrganizationID: "org1",
		ClientID:       "cl1",
		AgentID:        "a1",
		ProviderCallID: "c1",
		FromNumber:     "+15551234567",
		ToNumber:       "+15557654321",
		Direction:      "inbound",
		StartTimestamp: 1700000000000,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.Status != CallStatusInProgress {
		t.Fatalf("expected in_progress, got %q", rec.Status)
	}
	if rec.DurationSeconds != 0 {
		t.Fatalf("expected zero duration, got %d", rec.DurationSeconds)
	}
	if rec.StartedAt == nil {
		t.Fatalf("expected started_at set")
	}
}

func TestStartCall_ReplayIsIdempotent(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	p := StartParams{OrganizationID: "org1", ProviderCallID: "c1", FromNumber: "+15551234567"}
	first, err := svc.StartCall(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := svc.StartCall(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.Count() != 1 {
		t.Fatalf("expected exactly one record, got %d", repo.Count())
	}
	if first.ID != second.ID {
		t.Fatalf("expected replay to return the existing record")
	}
}

func TestCompleteCall_ComputesDurationAndStatus(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	_, err := svc.StartCall(context.Background(), StartParams{OrganizationID: "org1", ProviderCallID: "c1"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	rec, err := svc.CompleteCall(context.Background(), EndParams{
		OrganizationID:      "org1",
		ProviderCallID:      "c1",
		StartTimestamp:      1000,
		EndTimestamp:        61000,
		DisconnectionReason: "agent_hangup",
		Transcript:          []TranscriptEntry{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.Status != CallStatusCompleted {
		t.Fatalf("expected completed, got %q", rec.Status)
	}
	if rec.DurationSeconds != 60 {
		t.Fatalf("expected 60s duration, got %d", rec.DurationSeconds)
	}
	if rec.Metadata["disconnection_reason"] != "agent_hangup" {
		t.Fatalf("expected disconnect reason in metadata")
	}
	if rec.EndedAt == nil {
		t.Fatalf("expected ended_at set")
	}
}

func TestCompleteCall_UnknownCallIsNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	_, err := svc.CompleteCall(context.Background(), EndParams{OrganizationID: "org1", ProviderCallID: "ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplyAnalysis_AbsentFieldsLeaveStoredValues(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.StartCall(ctx, StartParams{OrganizationID: "org1", ProviderCallID: "c1"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.CompleteCall(ctx, EndParams{
		OrganizationID: "org1", ProviderCallID: "c1",
		Transcript: []TranscriptEntry{{Role: "user", Content: "original"}},
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	summary := "Customer asked about pricing."
	rec, err := svc.ApplyAnalysis(ctx, AnalysisParams{
		OrganizationID: "org1",
		ProviderCallID: "c1",
		Summary:        &summary,
		// Transcript and Analysis absent: stored transcript must survive.
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.Summary != summary {
		t.Fatalf("expected summary applied, got %q", rec.Summary)
	}
	if len(rec.Transcript) != 1 || rec.Transcript[0].Content != "original" {
		t.Fatalf("expected stored transcript untouched, got %+v", rec.Transcript)
	}
}

func TestDurationSeconds(t *testing.T) {
	cases := []struct {
		name     string
		start    int64
		end      int64
		expected int
	}{
		{"exact minute", 1000, 61000, 60},
		{"rounds half up", 1000, 2500, 2}, // 1500ms -> 2
		{"rounds down", 1000, 2400, 1},    // 1400ms -> 1
		{"negative never", 61000, 1000, 0},
		{"missing end", 1000, 0, 0},
		{"missing start", 0, 61000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DurationSeconds(tc.start, tc.end); got != tc.expected {
				t.Fatalf("DurationSeconds(%d,%d) = %d, want %d", tc.start, tc.end, got, tc.expected)
			}
		})
	}
}

func TestOutcome(t *testing.T) {
	missed := CallRecord{Metadata: map[string]any{"disconnection_reason": "dial_no_answer"}}
	if missed.Outcome() != "missed" {
		t.Fatalf("expected missed")
	}
	done := CallRecord{Metadata: map[string]any{"disconnection_reason": "agent_hangup"}}
	if done.Outcome() != "completed" {
		t.Fatalf("expected completed")
	}
	none := CallRecord{}
	if none.Outcome() != "completed" {
		t.Fatalf("expected completed default")
	}
}
