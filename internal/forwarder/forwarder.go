package forwarder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const maxErrorBodyBytes = 4096

// Forwarder relays the provider's raw webhook payload, byte for byte, to
// every URL registered for the tenant: the agent's own webhook plus any
// active solution endpoints. Delivery is best effort; the result summary is
// recorded in the event log rather than returned as an error.
type Forwarder struct {
	solutions SolutionsReader
	http      *http.Client
	log       *slog.Logger
}

func New(solutions SolutionsReader, log *slog.Logger) *Forwarder {
	if log == nil {
		log = slog.Default()
	}
	return &Forwarder{
		solutions: solutions,
		http:      &http.Client{Timeout: 5 * time.Second},
		log:       log,
	}
}

// Forward posts rawPayload to agentURL (when set) and to every active
// solution URL for the organization. It returns a human-readable summary,
// one "url: status" part per target, and never an error: a downstream 500
// must not disturb the tenant's own processing.
func (f *Forwarder) Forward(ctx context.Context, organizationID, agentURL string, rawPayload []byte) string {
	urls := make([]string, 0, 4)
	if agentURL != "" {
		urls = append(urls, agentURL)
	}
	if f.solutions != nil {
		sols, err := f.solutions.ActiveSolutions(ctx, organizationID)
		if err != nil {
			f.log.Error("loading solution endpoints", "organization_id", organizationID, "err", err)
		}
		for _, s := range sols {
			if s.WebhookURL != "" {
				urls = append(urls, s.WebhookURL)
			}
		}
	}
	if len(urls) == 0 {
		return ""
	}

	parts := make([]string, 0, len(urls))
	for _, url := range urls {
		parts = append(parts, fmt.Sprintf("%s: %s", url, f.forwardOne(ctx, url, rawPayload)))
	}
	return strings.Join(parts, ", ")
}

func (f *Forwarder) forwardOne(ctx context.Context, url string, rawPayload []byte) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(rawPayload))
	if err != nil {
		f.log.Error("building forward request", "url", url, "err", err)
		return "failed"
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		f.log.Error("forwarding payload", "url", url, "err", err)
		return "failed"
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))

	return fmt.Sprintf("%d", resp.StatusCode)
}
