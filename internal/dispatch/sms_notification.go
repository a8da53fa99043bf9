package dispatch

import (
	"context"
	"errors"
	"fmt"

	"voicehub/internal/actions"
	"voicehub/internal/notify"
)

// smsSummaryLimit caps the summary fragment so the composed body stays within
// carrier segment limits.
const smsSummaryLimit = 160

// SMSNotificationChannel texts a short call digest to the configured number.
type SMSNotificationChannel struct {
	Sender notify.SMSSender
}

func (c *SMSNotificationChannel) Name() string { return "sms_notification" }

func (c *SMSNotificationChannel) Deliver(ctx context.Context, job Job) error {
	var errs []error
	for _, a := range job.Actions {
		if a.Type != actions.TypeSMSNotification {
			continue
		}
		cfg, err := actions.DecodeConfig[actions.SMSNotificationConfig](a)
		if err != nil {
			errs = append(errs, fmt.Errorf("action %s: %w", a.ID, err))
			continue
		}
		// No destination configured: skip, not an error.
		if cfg.ToNumber == "" {
			continue
		}

		body := fmt.Sprintf("Call from %s (%ds): %s",
			job.Call.FromNumber,
			job.Call.DurationSeconds,
			truncate(job.Call.Summary, smsSummaryLimit))
		if err := c.Sender.Send(ctx, notify.SMSMessage{To: cfg.ToNumber, Body: body}); err != nil {
			errs = append(errs, fmt.Errorf("action %s: %w", a.ID, err))
		}
	}
	return errors.Join(errs...)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
