package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"voicehub/internal/actions"
	"voicehub/internal/notify"
)

// EmailSummaryChannel renders and sends summary emails for every enabled
// email_summary action whose trigger matches the call's terminal outcome.
type EmailSummaryChannel struct {
	Sender notify.EmailSender
}

func (c *EmailSummaryChannel) Name() string { return "email_summary" }

func (c *EmailSummaryChannel) Deliver(ctx context.Context, job Job) error {
	var errs []error
	for _, a := range job.Actions {
		if a.Type != actions.TypeEmailSummary {
			continue
		}
		cfg, err := actions.DecodeConfig[actions.EmailSummaryConfig](a)
		if err != nil {
			errs = append(errs, fmt.Errorf("action %s: %w", a.ID, err))
			continue
		}
		if !actions.Matches(cfg.Trigger, job.Call.Outcome()) {
			continue
		}
		if len(cfg.Recipients) == 0 {
			continue
		}

		subject, body := composeSummaryEmail(job, cfg)
		// One send per configured recipient list entry.
		for _, to := range cfg.Recipients {
			if err := c.Sender.Send(ctx, notify.EmailMessage{
				To:      []string{to},
				Subject: subject,
				Body:    body,
			}); err != nil {
				errs = append(errs, fmt.Errorf("action %s to %s: %w", a.ID, to, err))
			}
		}
	}
	return errors.Join(errs...)
}

func composeSummaryEmail(job Job, cfg actions.EmailSummaryConfig) (subject, body string) {
	call := job.Call
	subject = fmt.Sprintf("Call summary: %s call, %ds", call.Direction, call.DurationSeconds)

	var b strings.Builder
	fmt.Fprintf(&b, "A call handled by your agent has finished (%s).\n\n", call.Outcome())
	if cfg.IncludeCallerInfo {
		fmt.Fprintf(&b, "From: %s\nTo: %s\n", call.FromNumber, call.ToNumber)
		if name := call.CallerName(); name != "" {
			fmt.Fprintf(&b, "Caller: %s\n", name)
		}
		b.WriteString("\n")
	}
	if cfg.IncludeSummary && call.Summary != "" {
		fmt.Fprintf(&b, "Summary:\n%s\n\n", call.Summary)
	}
	if cfg.IncludeRecording && call.RecordingURL != "" {
		fmt.Fprintf(&b, "Recording: %s\n\n", call.RecordingURL)
	}
	if cfg.IncludeTranscript && len(call.Transcript) > 0 {
		b.WriteString("Transcript:\n")
		for _, e := range call.Transcript {
			fmt.Fprintf(&b, "%s: %s\n", e.Role, e.Content)
		}
	}
	return subject, b.String()
}
