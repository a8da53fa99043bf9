package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"voicehub/internal/calls"
)

// HTTPScorer posts the matched lead and call to an external scoring endpoint.
type HTTPScorer struct {
	url    string
	apiKey string
	http   *http.Client
}

func NewHTTPScorer(url, apiKey string) *HTTPScorer {
	return &HTTPScorer{url: url, apiKey: apiKey, http: &http.Client{Timeout: 5 * time.Second}}
}

type scoreRequest struct {
	LeadID          string `json:"lead_id"`
	CallID          string `json:"call_id"`
	DurationSeconds int    `json:"duration_seconds"`
	Outcome         string `json:"outcome"`
	Summary         string `json:"summary,omitempty"`
}

func (s *HTTPScorer) Score(ctx context.Context, lead Lead, call calls.CallRecord) error {
	if s.url == "" {
		return nil
	}
	body, err := json.Marshal(scoreRequest{
		LeadID:          lead.ID,
		CallID:          call.ProviderCallID,
		DurationSeconds: call.DurationSeconds,
		Outcome:         call.Outcome(),
		Summary:         call.Summary,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("leads: score post: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("leads: score status %d", resp.StatusCode)
	}
	return nil
}
