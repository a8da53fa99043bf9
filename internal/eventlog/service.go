package eventlog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for the webhook event log.
//
// Append-then-annotate: no general update and no delete. The two Set methods
// are the only mutations and each touches a single outcome column.
type Repository interface {
	Append(ctx context.Context, e Entry) error
	SetImportResult(ctx context.Context, id string, result ImportResult) error
	SetForwardingResult(ctx context.Context, organizationID, platformCallID, event, result string) error
	ListRecent(ctx context.Context, organizationID string, limit int) ([]Entry, error)
}

var ErrInvalidEntry = errors.New("eventlog: invalid entry")

// Service wraps the repository with defaulting and validation.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// Append records an inbound event. Returns the stored entry so the caller can
// annotate it later by id.
func (s *Service) Append(ctx context.Context, e Entry) (Entry, error) {
	if s.repo == nil {
		return Entry{}, errors.New("eventlog: repository not configured")
	}
	if e.Event == "" {
		return Entry{}, ErrInvalidEntry
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ImportResult == "" {
		e.ImportResult = ImportResultProcessing
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) SetImportResult(ctx context.Context, id string, result ImportResult) error {
	if id == "" {
		return ErrInvalidEntry
	}
	return s.repo.SetImportResult(ctx, id, result)
}

// SetForwardingResult annotates the entry matched by call id and event name
// with the joined per-URL delivery outcome.
func (s *Service) SetForwardingResult(ctx context.Context, organizationID, platformCallID, event, result string) error {
	if platformCallID == "" || event == "" {
		return ErrInvalidEntry
	}
	return s.repo.SetForwardingResult(ctx, organizationID, platformCallID, event, result)
}

func (s *Service) ListRecent(ctx context.Context, organizationID string, limit int) ([]Entry, error) {
	return s.repo.ListRecent(ctx, organizationID, limit)
}
