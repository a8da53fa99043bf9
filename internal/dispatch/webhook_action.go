package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"voicehub/internal/actions"
	"voicehub/internal/calls"
)

// WebhookActionChannel POSTs a normalized call envelope to tenant-configured
// URLs, filtered by each action's events allow-list.
type WebhookActionChannel struct {
	HTTP *http.Client
}

func (c *WebhookActionChannel) Name() string { return "webhook" }

// callEnvelope is the normalized shape tenant webhook actions receive.
// Distinct from the raw-payload forwarding path, which ships the provider's
// original event verbatim.
type callEnvelope struct {
	CallID          string                  `json:"call_id"`
	FromNumber      string                  `json:"from_number"`
	ToNumber        string                  `json:"to_number"`
	Direction       string                  `json:"direction"`
	DurationSeconds int                     `json:"duration_seconds"`
	Status          string                  `json:"status"`
	Summary         string                  `json:"summary,omitempty"`
	Transcript      []calls.TranscriptEntry `json:"transcript,omitempty"`
	RecordingURL    string                  `json:"recording_url,omitempty"`
	Analysis        map[string]any          `json:"analysis,omitempty"`
	Metadata        map[string]any          `json:"metadata,omitempty"`
	DispatchedAt    time.Time               `json:"dispatched_at"`
}

func (c *WebhookActionChannel) Deliver(ctx context.Context, job Job) error {
	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	var errs []error
	for _, a := range job.Actions {
		if a.Type != actions.TypeWebhook {
			continue
		}
		cfg, err := actions.DecodeConfig[actions.WebhookConfig](a)
		if err != nil {
			errs = append(errs, fmt.Errorf("action %s: %w", a.ID, err))
			continue
		}
		if cfg.URL == "" || !eventAllowed(cfg.Events, job.Call.Outcome()) {
			continue
		}

		env := callEnvelope{
			CallID:          job.Call.ProviderCallID,
			FromNumber:      job.Call.FromNumber,
			ToNumber:        job.Call.ToNumber,
			Direction:       job.Call.Direction,
			DurationSeconds: job.Call.DurationSeconds,
			Status:          string(job.Call.Status),
			Summary:         job.Call.Summary,
			Transcript:      job.Call.Transcript,
			RecordingURL:    job.Call.RecordingURL,
			Analysis:        job.Call.PostCallAnalysis,
			Metadata:        job.Call.Metadata,
			DispatchedAt:    time.Now().UTC(),
		}
		if err := postEnvelope(ctx, client, cfg.URL, env); err != nil {
			errs = append(errs, fmt.Errorf("action %s: %w", a.ID, err))
		}
	}
	return errors.Join(errs...)
}

func eventAllowed(allowList []string, outcome string) bool {
	if len(allowList) == 0 {
		return true
	}
	for _, ev := range allowList {
		if actions.Matches(ev, outcome) {
			return true
		}
	}
	return false
}

func postEnvelope(ctx context.Context, client *http.Client, url string, env callEnvelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
