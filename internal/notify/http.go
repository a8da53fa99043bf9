package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultSendTimeout = 5 * time.Second
	maxErrorBodyBytes  = 4096
)

// HTTPEmailSender posts messages to a transactional email provider's REST API.
type HTTPEmailSender struct {
	baseURL string
	apiKey  string
	from    string
	http    *http.Client
}

func NewHTTPEmailSender(baseURL, apiKey, from string) *HTTPEmailSender {
	return &HTTPEmailSender{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		http:    &http.Client{Timeout: defaultSendTimeout},
	}
}

func (s *HTTPEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("notify: email needs at least one recipient")
	}
	if msg.From == "" {
		msg.From = s.from
	}
	return postJSON(ctx, s.http, s.baseURL+"/v1/emails", s.apiKey, msg)
}

// HTTPSMSSender posts messages to an SMS provider's REST API.
type HTTPSMSSender struct {
	baseURL string
	apiKey  string
	from    string
	http    *http.Client
}

func NewHTTPSMSSender(baseURL, apiKey, from string) *HTTPSMSSender {
	return &HTTPSMSSender{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		http:    &http.Client{Timeout: defaultSendTimeout},
	}
}

func (s *HTTPSMSSender) Send(ctx context.Context, msg SMSMessage) error {
	if msg.To == "" {
		return fmt.Errorf("notify: sms needs a destination number")
	}
	if msg.From == "" {
		msg.From = s.from
	}
	return postJSON(ctx, s.http, s.baseURL+"/v1/messages", s.apiKey, msg)
}

func postJSON(ctx context.Context, client *http.Client, url, apiKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return fmt.Errorf("notify: status %d body %q", resp.StatusCode, string(errBody))
}
