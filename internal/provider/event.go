package provider

import "encoding/json"

// EventType is the lifecycle stage carried in the webhook envelope.
type EventType string

const (
	EventCallStarted  EventType = "call_started"
	EventCallEnded    EventType = "call_ended"
	EventCallAnalyzed EventType = "call_analyzed"
)

// Event is the provider's webhook envelope: { "event": ..., "call": {...} }.
//
// These are wire types only. Fields are partially populated depending on the
// event type; absent fields must not be assumed valid. Domain code works with
// internal/calls types, never with this shape.
type Event struct {
	Event EventType   `json:"event"`
	Call  CallPayload `json:"call"`
}

type CallPayload struct {
	CallID     string `json:"call_id"`
	AgentID    string `json:"agent_id"`
	FromNumber string `json:"from_number"`
	ToNumber   string `json:"to_number"`
	Direction  string `json:"direction"`
	CallType   string `json:"call_type,omitempty"`

	// Unix milliseconds; zero when not present on this event type.
	StartTimestamp int64 `json:"start_timestamp,omitempty"`
	EndTimestamp   int64 `json:"end_timestamp,omitempty"`

	Transcript          []TranscriptEntry `json:"transcript,omitempty"`
	RecordingURL        string            `json:"recording_url,omitempty"`
	DisconnectionReason string            `json:"disconnection_reason,omitempty"`

	CallAnalysis *CallAnalysis  `json:"call_analysis,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type TranscriptEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CallAnalysis arrives only on call_analyzed. A nil pointer means the field
// was absent and stored values must be left untouched.
type CallAnalysis struct {
	CallSummary        string         `json:"call_summary,omitempty"`
	CustomAnalysisData map[string]any `json:"custom_analysis_data,omitempty"`
	UserSentiment      string         `json:"user_sentiment,omitempty"`
	CallSuccessful     *bool          `json:"call_successful,omitempty"`
}

// ParseEvent decodes a verified raw webhook body.
func ParseEvent(raw []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Known reports whether the event type is one the pipeline handles.
func (t EventType) Known() bool {
	switch t {
	case EventCallStarted, EventCallEnded, EventCallAnalyzed:
		return true
	default:
		return false
	}
}
