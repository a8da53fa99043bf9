package dispatch

import (
	"context"

	"voicehub/internal/leads"
)

// LeadScoringChannel runs lead scoring as one more unit of work in the
// fan-out, concurrent with and isolated from the delivery channels.
type LeadScoringChannel struct {
	Adapter *leads.Adapter
}

func (c *LeadScoringChannel) Name() string { return "lead_scoring" }

func (c *LeadScoringChannel) Deliver(ctx context.Context, job Job) error {
	if c.Adapter == nil {
		return nil
	}
	return c.Adapter.ScoreCall(ctx, job.Call)
}
