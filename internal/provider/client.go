package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultClientTimeout = 3 * time.Second

// AgentConfig is the slice of the provider's live agent configuration the
// pipeline snapshots into call metadata on call_started. Informational only.
type AgentConfig struct {
	Model         string `json:"model"`
	VoiceID       string `json:"voice_id"`
	DenoisingMode string `json:"denoising_mode"`
	PIIConfigured bool   `json:"pii_configured"`
}

// Client is a minimal REST client for the provider's management API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultClientTimeout},
	}
}

// GetAgentConfig fetches the live configuration of a provider agent.
// Callers treat failures as best-effort: a timeout here must never fail
// the event being processed.
func (c *Client) GetAgentConfig(ctx context.Context, providerAgentID string) (AgentConfig, error) {
	if providerAgentID == "" {
		return AgentConfig{}, fmt.Errorf("provider agent id is required")
	}

	url := fmt.Sprintf("%s/v1/agents/%s", c.baseURL, providerAgentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return AgentConfig{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return AgentConfig{}, fmt.Errorf("fetch agent config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return AgentConfig{}, fmt.Errorf("fetch agent config: status %d", resp.StatusCode)
	}

	var cfg AgentConfig
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return AgentConfig{}, fmt.Errorf("decode agent config: %w", err)
	}
	return cfg, nil
}
