package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_GetAgentConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/agents/agent_1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key123" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"gpt-4o","voice_id":"v9","denoising_mode":"strong","pii_configured":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key123")
	cfg, err := c.GetAgentConfig(context.Background(), "agent_1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Model != "gpt-4o" || cfg.VoiceID != "v9" || !cfg.PIIConfigured {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestClient_GetAgentConfig_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key123")
	if _, err := c.GetAgentConfig(context.Background(), "agent_missing"); err == nil {
		t.Fatalf("expected error on 404")
	}
}
