package eventlog

import (
	"encoding/json"
	"time"
)

// Entry is one inbound provider event and its processing outcome.
//
// Invariants:
// - An entry is appended synchronously as each event is received, before any
//   processing branch, so persistence failures stay visible even when the
//   pipeline fails later.
// - Rows are append-then-annotate: after the initial insert the only allowed
//   mutations are import_result and forwarding_result updates.
// - organization_id may be empty when the provider references an agent that
//   was never synced; the audit trail still records the event.
type Entry struct {
	ID             string `json:"id" db:"id"`
	OrganizationID string `json:"organization_id,omitempty" db:"organization_id"`

	// Event is the provider's lifecycle event name.
	Event string `json:"event" db:"event"`

	AgentID        string `json:"agent_id,omitempty" db:"agent_id"`
	PlatformCallID string `json:"platform_call_id,omitempty" db:"platform_call_id"`

	RawPayload json.RawMessage `json:"raw_payload,omitempty" db:"raw_payload"`

	ImportResult ImportResult `json:"import_result" db:"import_result"`

	// ForwardingResult is the joined per-URL outcome string written after
	// webhook fan-out completes, e.g. "urlA: 500, urlB: 200".
	ForwardingResult string `json:"forwarding_result,omitempty" db:"forwarding_result"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ImportResult string

const (
	ImportResultProcessing ImportResult = "processing"
	ImportResultSuccess    ImportResult = "success"
	ImportResultFailed     ImportResult = "failed"
)
