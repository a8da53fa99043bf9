package actions

import "encoding/json"

// Type enumerates the supported post-call action kinds.
type Type string

const (
	TypeEmailSummary    Type = "email_summary"
	TypeSMSNotification Type = "sms_notification"
	TypeCallerFollowup  Type = "caller_followup_email"
	TypeWebhook         Type = "webhook"
)

// Action is one tenant-configured post-call automation. The pipeline never
// mutates these rows; it only reads enabled ones per call.
type Action struct {
	ID       string          `json:"id" db:"id"`
	ClientID string          `json:"client_id" db:"client_id"`
	Type     Type            `json:"action_type" db:"action_type"`
	Enabled  bool            `json:"is_enabled" db:"is_enabled"`
	Config   json.RawMessage `json:"config" db:"config"`
}

// EmailSummaryConfig shapes the config blob of email_summary actions.
// The Include* toggles control content visibility independently per
// configured action instance.
type EmailSummaryConfig struct {
	// Trigger filters by terminal call outcome: "all", "completed" or "missed".
	Trigger           string   `json:"trigger"`
	Recipients        []string `json:"recipients"`
	IncludeCallerInfo bool     `json:"include_caller_info"`
	IncludeTranscript bool     `json:"include_transcript"`
	IncludeRecording  bool     `json:"include_recording"`
	IncludeSummary    bool     `json:"include_summary"`
}

// SMSNotificationConfig shapes sms_notification actions.
type SMSNotificationConfig struct {
	ToNumber string `json:"to_number"`
}

// CallerFollowupConfig shapes caller_followup_email actions. Body supports
// {{business_name}} and {{caller_name}} substitution. DelayMinutes is
// accepted by the schema but sends happen immediately; deferred execution
// needs an external scheduler the pipeline does not have.
type CallerFollowupConfig struct {
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	DelayMinutes int    `json:"delay_minutes"`
}

// WebhookConfig shapes tenant-level generic webhook actions.
type WebhookConfig struct {
	URL string `json:"url"`
	// Events allow-list: "all", "completed", "missed".
	Events []string `json:"events"`
}

// DecodeConfig unmarshals the action's config blob into its typed shape.
func DecodeConfig[T any](a Action) (T, error) {
	var cfg T
	if len(a.Config) == 0 {
		return cfg, nil
	}
	err := json.Unmarshal(a.Config, &cfg)
	return cfg, err
}

// Matches reports whether a trigger/allow-list value covers an outcome.
func Matches(filter string, outcome string) bool {
	return filter == "" || filter == "all" || filter == outcome
}
