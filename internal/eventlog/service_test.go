package eventlog

import (
	"context"
	"errors"
	"testing"
)

func TestAppend_RequiresEvent(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.Append(context.Background(), Entry{}); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestAppend_DefaultsProcessing(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	e, err := svc.Append(context.Background(), Entry{
		OrganizationID: "org1",
		Event:          "call_started",
		PlatformCallID: "c1",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected generated id")
	}
	if e.ImportResult != ImportResultProcessing {
		t.Fatalf("expected processing default, got %q", e.ImportResult)
	}
	if e.CreatedAt.IsZero() {
		t.Fatalf("expected timestamp")
	}
}

func TestAppend_AllowsEmptyOrganization(t *testing.T) {
	// Events for never-synced agents still land in the audit trail.
	svc := NewService(NewMemoryRepo())
	if _, err := svc.Append(context.Background(), Entry{Event: "call_started"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestSetForwardingResult_MatchesByCallAndEvent(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Append(ctx, Entry{OrganizationID: "org1", Event: "call_started", PlatformCallID: "c1"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Append(ctx, Entry{OrganizationID: "org1", Event: "call_ended", PlatformCallID: "c1"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if err := svc.SetForwardingResult(ctx, "org1", "c1", "call_ended", "urlA: 500, urlB: 200"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var found bool
	for _, e := range repo.Entries() {
		switch e.Event {
		case "call_ended":
			found = true
			if e.ForwardingResult != "urlA: 500, urlB: 200" {
				t.Fatalf("unexpected forwarding result %q", e.ForwardingResult)
			}
		case "call_started":
			if e.ForwardingResult != "" {
				t.Fatalf("started entry must not be annotated")
			}
		}
	}
	if !found {
		t.Fatalf("expected call_ended entry")
	}
}

func TestSetImportResult(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	e, err := svc.Append(context.Background(), Entry{OrganizationID: "org1", Event: "call_analyzed", PlatformCallID: "c1"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := svc.SetImportResult(context.Background(), e.ID, ImportResultFailed); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := repo.Entries()[0].ImportResult; got != ImportResultFailed {
		t.Fatalf("expected failed, got %q", got)
	}
}
