package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"voicehub/internal/actions"
	"voicehub/internal/notify"
)

// CallerFollowupChannel emails the caller after the call, when an address is
// known. Most inbound calls never produce one; that is a silent no-op.
type CallerFollowupChannel struct {
	Sender notify.EmailSender
	Log    *slog.Logger
}

func (c *CallerFollowupChannel) Name() string { return "caller_followup_email" }

func (c *CallerFollowupChannel) Deliver(ctx context.Context, job Job) error {
	callerEmail := job.Call.CallerEmail()
	if callerEmail == "" {
		return nil
	}

	var errs []error
	for _, a := range job.Actions {
		if a.Type != actions.TypeCallerFollowup {
			continue
		}
		cfg, err := actions.DecodeConfig[actions.CallerFollowupConfig](a)
		if err != nil {
			errs = append(errs, fmt.Errorf("action %s: %w", a.ID, err))
			continue
		}
		if cfg.DelayMinutes > 0 && c.Log != nil {
			// Deferred sends need an external scheduler; immediate send is
			// the documented behavior.
			c.Log.Warn("delay_minutes configured but not supported, sending immediately",
				"action_id", a.ID, "delay_minutes", cfg.DelayMinutes)
		}

		subject := substitute(cfg.Subject, job)
		body := substitute(cfg.Body, job)
		if subject == "" {
			subject = "Thanks for your call"
		}
		if err := c.Sender.Send(ctx, notify.EmailMessage{
			To:      []string{callerEmail},
			Subject: subject,
			Body:    body,
		}); err != nil {
			errs = append(errs, fmt.Errorf("action %s: %w", a.ID, err))
		}
	}
	return errors.Join(errs...)
}

func substitute(tmpl string, job Job) string {
	out := strings.ReplaceAll(tmpl, "{{business_name}}", job.BusinessName)
	out = strings.ReplaceAll(out, "{{caller_name}}", job.Call.CallerName())
	return out
}
