package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"voicehub/internal/calls"
	"voicehub/internal/dispatch"
)

// eventName is the only event the automation platforms subscribe to today.
const eventName = "call.completed"

// callPayload is the platform-facing call shape. Flat keys: zapier and make
// map fields in their editors and nested objects are painful there.
type callPayload struct {
	Event           string `json:"event"`
	ClientID        string `json:"client_id"`
	CallID          string `json:"call_id"`
	FromNumber      string `json:"from_number"`
	ToNumber        string `json:"to_number"`
	Direction       string `json:"direction"`
	DurationSeconds int    `json:"duration_seconds"`
	Outcome         string `json:"outcome"`
	Summary         string `json:"summary,omitempty"`
	RecordingURL    string `json:"recording_url,omitempty"`
}

func payloadFor(clientID string, call calls.CallRecord) callPayload {
	return callPayload{
		Event:           eventName,
		ClientID:        clientID,
		CallID:          call.ProviderCallID,
		FromNumber:      call.FromNumber,
		ToNumber:        call.ToNumber,
		Direction:       call.Direction,
		DurationSeconds: call.DurationSeconds,
		Outcome:         call.Outcome(),
		Summary:         call.Summary,
		RecordingURL:    call.RecordingURL,
	}
}

// ZapierAdapter posts to the tenant's Zapier catch hook.
type ZapierAdapter struct {
	Connections ConnectionReader
	HTTP        *http.Client
}

func (a *ZapierAdapter) Name() string { return "zapier" }

func (a *ZapierAdapter) Deliver(ctx context.Context, job dispatch.Job) error {
	conn, err := a.Connections.ForClient(ctx, job.ClientID, PlatformZapier)
	if err != nil {
		if errors.Is(err, ErrNoConnection) {
			return nil
		}
		return err
	}
	if conn.HookURL == "" {
		return nil
	}
	return postJSON(ctx, a.HTTP, conn.HookURL, nil, payloadFor(job.ClientID, job.Call))
}

// MakeAdapter posts to the tenant's Make (Integromat) webhook.
type MakeAdapter struct {
	Connections ConnectionReader
	HTTP        *http.Client
}

func (a *MakeAdapter) Name() string { return "make" }

func (a *MakeAdapter) Deliver(ctx context.Context, job dispatch.Job) error {
	conn, err := a.Connections.ForClient(ctx, job.ClientID, PlatformMake)
	if err != nil {
		if errors.Is(err, ErrNoConnection) {
			return nil
		}
		return err
	}
	if conn.HookURL == "" {
		return nil
	}
	return postJSON(ctx, a.HTTP, conn.HookURL, nil, payloadFor(job.ClientID, job.Call))
}

// GoHighLevelAdapter pushes the call into the tenant's GoHighLevel location
// via its inbound webhook API.
type GoHighLevelAdapter struct {
	Connections ConnectionReader
	HTTP        *http.Client
}

func (a *GoHighLevelAdapter) Name() string { return "gohighlevel" }

type ghlEnvelope struct {
	LocationID string      `json:"location_id"`
	Type       string      `json:"type"`
	Data       callPayload `json:"data"`
}

func (a *GoHighLevelAdapter) Deliver(ctx context.Context, job dispatch.Job) error {
	conn, err := a.Connections.ForClient(ctx, job.ClientID, PlatformGoHighLevel)
	if err != nil {
		if errors.Is(err, ErrNoConnection) {
			return nil
		}
		return err
	}
	if conn.HookURL == "" {
		return nil
	}
	env := ghlEnvelope{
		LocationID: conn.LocationID,
		Type:       eventName,
		Data:       payloadFor(job.ClientID, job.Call),
	}
	headers := map[string]string{}
	if conn.APIKey != "" {
		headers["Authorization"] = "Bearer " + conn.APIKey
	}
	return postJSON(ctx, a.HTTP, conn.HookURL, headers, env)
}

func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload any) error {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("platforms: status %d from %s", resp.StatusCode, url)
	}
	return nil
}
