package actions

import (
	"encoding/json"
	"testing"
)

func TestDecodeConfig_EmailSummary(t *testing.T) {
	a := Action{
		Type:   TypeEmailSummary,
		Config: json.RawMessage(`{"trigger":"completed","recipients":["ops@x.co"],"include_summary":true}`),
	}
	cfg, err := DecodeConfig[EmailSummaryConfig](a)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Trigger != "completed" || len(cfg.Recipients) != 1 || !cfg.IncludeSummary {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.IncludeTranscript {
		t.Fatalf("expected transcript toggle off by default")
	}
}

func TestDecodeConfig_EmptyBlob(t *testing.T) {
	cfg, err := DecodeConfig[WebhookConfig](Action{Type: TypeWebhook})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.URL != "" {
		t.Fatalf("expected zero config")
	}
}

func TestMatches(t *testing.T) {
	if !Matches("all", "completed") || !Matches("", "missed") {
		t.Fatalf("all/empty must match any outcome")
	}
	if !Matches("completed", "completed") {
		t.Fatalf("exact match expected")
	}
	if Matches("missed", "completed") {
		t.Fatalf("mismatch must not match")
	}
}
