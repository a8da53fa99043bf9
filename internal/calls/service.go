package calls

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// Service owns CallRecord lifecycle mutations. It is the sole writer of the
// call_records table; everything else reads.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// StartParams carries the fields present on a started event.
type StartParams struct {
	OrganizationID string
	ClientID       string
	AgentID        string
	ProviderCallID string

	FromNumber string
	ToNumber   string
	Direction  string

	// StartTimestamp is unix milliseconds; zero when the provider omitted it.
	StartTimestamp int64

	// Metadata is the provider's free-form metadata plus any cost snapshot
	// the caller chose to attach.
	Metadata map[string]any
}

// StartCall creates the call record. Replays are a no-op: the existing record
// is returned unchanged.
func (s *Service) StartCall(ctx context.Context, p StartParams) (CallRecord, error) {
	if p.OrganizationID == "" || p.ProviderCallID == "" {
		return CallRecord{}, errors.New("calls: organization and provider call id are required")
	}

	now := s.clock().UTC()
	rec := CallRecord{
		ID:              uuid.NewString(),
		OrganizationID:  p.OrganizationID,
		ClientID:        p.ClientID,
		AgentID:         p.AgentID,
		ProviderCallID:  p.ProviderCallID,
		FromNumber:      p.FromNumber,
		ToNumber:        p.ToNumber,
		Direction:       p.Direction,
		Status:          CallStatusInProgress,
		DurationSeconds: 0,
		Metadata:        p.Metadata,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if p.StartTimestamp > 0 {
		t := time.UnixMilli(p.StartTimestamp).UTC()
		rec.StartedAt = &t
	}
	if rec.Metadata == nil {
		rec.Metadata = map[string]any{}
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return CallRecord{}, err
	}
	if !created {
		return s.repo.GetByProviderCallID(ctx, p.OrganizationID, p.ProviderCallID)
	}
	return rec, nil
}

// EndParams carries the fields present on an ended event.
type EndParams struct {
	OrganizationID string
	ProviderCallID string

	StartTimestamp int64
	EndTimestamp   int64

	Transcript          []TranscriptEntry
	RecordingURL        string
	DisconnectionReason string
	CallType            string
}

// CompleteCall marks the record completed and computes its duration.
// Returns ErrNotFound when the started event was never seen; callers treat
// that as a tolerated no-op, not a failure.
func (s *Service) CompleteCall(ctx context.Context, p EndParams) (CallRecord, error) {
	rec, err := s.repo.GetByProviderCallID(ctx, p.OrganizationID, p.ProviderCallID)
	if err != nil {
		return CallRecord{}, err
	}

	rec.Status = CallStatusCompleted
	rec.DurationSeconds = DurationSeconds(p.StartTimestamp, p.EndTimestamp)
	if p.Transcript != nil {
		rec.Transcript = p.Transcript
	}
	if p.RecordingURL != "" {
		rec.RecordingURL = p.RecordingURL
	}
	if p.EndTimestamp > 0 {
		t := time.UnixMilli(p.EndTimestamp).UTC()
		rec.EndedAt = &t
	}
	if rec.Metadata == nil {
		rec.Metadata = map[string]any{}
	}
	if p.DisconnectionReason != "" {
		rec.Metadata["disconnection_reason"] = p.DisconnectionReason
	}
	if p.CallType != "" {
		rec.Metadata["call_type"] = p.CallType
	}
	rec.UpdatedAt = s.clock().UTC()

	if err := s.repo.Update(ctx, rec); err != nil {
		return CallRecord{}, err
	}
	return rec, nil
}

// AnalysisParams carries the fields present on an analyzed event. Nil fields
// were absent from the payload and must leave stored values untouched.
type AnalysisParams struct {
	OrganizationID string
	ProviderCallID string

	Summary      *string
	Analysis     map[string]any
	Transcript   []TranscriptEntry
	RecordingURL string
}

// ApplyAnalysis merges analysis output into the record.
func (s *Service) ApplyAnalysis(ctx context.Context, p AnalysisParams) (CallRecord, error) {
	rec, err := s.repo.GetByProviderCallID(ctx, p.OrganizationID, p.ProviderCallID)
	if err != nil {
		return CallRecord{}, err
	}

	if p.Summary != nil {
		rec.Summary = *p.Summary
	}
	if p.Analysis != nil {
		rec.PostCallAnalysis = p.Analysis
	}
	if p.Transcript != nil {
		rec.Transcript = p.Transcript
	}
	if p.RecordingURL != "" {
		rec.RecordingURL = p.RecordingURL
	}
	rec.UpdatedAt = s.clock().UTC()

	if err := s.repo.Update(ctx, rec); err != nil {
		return CallRecord{}, err
	}
	return rec, nil
}

// Redactor scrubs PII from stored content.
type Redactor interface {
	Text(s string) string
	Transcript(entries []TranscriptEntry) []TranscriptEntry
}

// RedactContent rewrites summary and transcript through the redactor and
// persists the result. Read-modify-write: re-applying it is idempotent, so
// the benign race with ApplyAnalysis on a replayed event is acceptable.
func (s *Service) RedactContent(ctx context.Context, organizationID, providerCallID string, red Redactor) (CallRecord, error) {
	rec, err := s.repo.GetByProviderCallID(ctx, organizationID, providerCallID)
	if err != nil {
		return CallRecord{}, err
	}

	rec.Summary = red.Text(rec.Summary)
	if rec.Transcript != nil {
		rec.Transcript = red.Transcript(rec.Transcript)
	}
	rec.UpdatedAt = s.clock().UTC()

	if err := s.repo.Update(ctx, rec); err != nil {
		return CallRecord{}, err
	}
	return rec, nil
}

// Get returns the record for a provider call id.
func (s *Service) Get(ctx context.Context, organizationID, providerCallID string) (CallRecord, error) {
	return s.repo.GetByProviderCallID(ctx, organizationID, providerCallID)
}

// List returns a tenant's most recent calls, newest first.
func (s *Service) List(ctx context.Context, organizationID string, limit int) ([]CallRecord, error) {
	return s.repo.ListRecent(ctx, organizationID, limit)
}

// DurationSeconds converts provider millisecond timestamps to a duration.
// Never negative; zero when either timestamp is missing.
func DurationSeconds(startMs, endMs int64) int {
	if startMs <= 0 || endMs <= 0 || endMs < startMs {
		return 0
	}
	return int(math.Round(float64(endMs-startMs) / 1000.0))
}
