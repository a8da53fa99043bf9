package calls

import "time"

// CallRecord is the durable representation of one call.
//
// Identity invariant: (OrganizationID, ProviderCallID) is unique. A record is
// created at most once, on the started event; later lifecycle events update
// by lookup and never re-insert. Webhook delivery order is not guaranteed, so
// every transition is a conditional update rather than a strict state machine.
type CallRecord struct {
	ID             string `json:"id" db:"id"`
	OrganizationID string `json:"organization_id" db:"organization_id"`
	ClientID       string `json:"client_id" db:"client_id"`
	AgentID        string `json:"agent_id" db:"agent_id"`
	ProviderCallID string `json:"provider_call_id" db:"provider_call_id"`

	FromNumber string `json:"from_number" db:"from_number"`
	ToNumber   string `json:"to_number" db:"to_number"`
	Direction  string `json:"direction" db:"direction"`

	Status CallStatus `json:"status" db:"status"`

	// DurationSeconds is computed from provider timestamps on call_ended;
	// never negative.
	DurationSeconds int `json:"duration_seconds" db:"duration_seconds"`

	Transcript       []TranscriptEntry `json:"transcript,omitempty" db:"transcript"`
	Summary          string            `json:"summary,omitempty" db:"summary"`
	RecordingURL     string            `json:"recording_url,omitempty" db:"recording_url"`
	PostCallAnalysis map[string]any    `json:"post_call_analysis,omitempty" db:"post_call_analysis"`

	StartedAt *time.Time `json:"started_at,omitempty" db:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty" db:"ended_at"`

	// Metadata is free-form and accumulates a cost snapshot and disconnect
	// reason over the record's life.
	Metadata map[string]any `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type TranscriptEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CallStatus string

const (
	CallStatusInProgress CallStatus = "in_progress"
	CallStatusCompleted  CallStatus = "completed"
)

// Outcome classifies a terminal call for trigger filters: "completed" for a
// connected call, "missed" when the callee never picked up.
func (r CallRecord) Outcome() string {
	reason, _ := r.Metadata["disconnection_reason"].(string)
	switch reason {
	case "dial_no_answer", "dial_busy", "voicemail_reached", "no_answer":
		return "missed"
	default:
		return "completed"
	}
}

// CallerEmail digs the caller's email out of the analysis payload or call
// metadata; empty when the call never produced one.
func (r CallRecord) CallerEmail() string {
	if v, ok := r.PostCallAnalysis["caller_email"].(string); ok && v != "" {
		return v
	}
	if v, ok := r.Metadata["caller_email"].(string); ok && v != "" {
		return v
	}
	return ""
}

// CallerName mirrors CallerEmail for template substitution.
func (r CallRecord) CallerName() string {
	if v, ok := r.PostCallAnalysis["caller_name"].(string); ok && v != "" {
		return v
	}
	if v, ok := r.Metadata["caller_name"].(string); ok && v != "" {
		return v
	}
	return ""
}

/// CallerPhoneNumber is the number used for lead matching: from_number or,
// if absent, to_number.
func (r CallRecord) CallerPhoneNumber() string {
	if r.FromNumber != "" {
		return r.FromNumber
	}
	return r.ToNumber
}
