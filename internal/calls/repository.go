package calls

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("calls: not found")

// Repository is the persistence contract for call records.
//
// Create is idempotent on (organization_id, provider_call_id): a replayed
// started event must not produce a second row.
type Repository interface {
	// Create inserts the record unless one already exists for the same
	// (organization, provider call id). Returns false when the row existed.
	Create(ctx context.Context, rec CallRecord) (bool, error)

	GetByProviderCallID(ctx context.Context, organizationID, providerCallID string) (CallRecord, error)

	// Update overwrites the stored record matched by ID.
	Update(ctx context.Context, rec CallRecord) error

	// ListRecent returns the newest records for an organization.
	ListRecent(ctx context.Context, organizationID string, limit int) ([]CallRecord, error)
}
