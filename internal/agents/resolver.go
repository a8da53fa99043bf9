package agents

import (
	"context"
	"errors"
)

// Identity is the internal counterpart of a provider agent id.
//
// The pipeline is a read-only consumer of the agent table; agent sync is
// owned elsewhere. An unresolved provider agent id is an expected condition
// (not-yet-synced or orphaned test agents), never a hard failure.
type Identity struct {
	AgentID        string
	OrganizationID string
	ClientID       string

	// WebhookURL is the agent's own forwarding target, if configured.
	WebhookURL string
	// BusinessName feeds template substitution in follow-up emails.
	BusinessName string
}

var ErrNotFound = errors.New("agents: not found")

// Resolver maps the provider's opaque agent id to the internal identity.
type Resolver interface {
	Resolve(ctx context.Context, providerAgentID string) (Identity, error)
}
