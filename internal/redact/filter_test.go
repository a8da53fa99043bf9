package redact

import (
	"strings"
	"testing"

	"voicehub/internal/calls"
)

func TestText_RedactsEmail(t *testing.T) {
	f, err := NewFilter(Config{Enabled: true})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := f.Text("reach me at jane.doe+test@example.com please")
	if strings.Contains(got, "jane.doe") || strings.Contains(got, "example.com") {
		t.Fatalf("email leaked: %q", got)
	}
	if !strings.Contains(got, "[redacted-email]") {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestText_RedactsPhoneNumbers(t *testing.T) {
	f, _ := NewFilter(Config{})
	cases := []string{
		"call me on +1 555 123 4567 tomorrow",
		"call me on 555-123-4567 tomorrow",
		"call me on (555) 123 4567 tomorrow",
	}
	for _, in := range cases {
		got := f.Text(in)
		if strings.Contains(got, "4567") {
			t.Fatalf("phone leaked in %q -> %q", in, got)
		}
	}
}

func TestText_RedactsSSNAndCard(t *testing.T) {
	f, _ := NewFilter(Config{})
	got := f.Text("ssn 123-45-6789 card 4111 1111 1111 1111")
	if strings.Contains(got, "6789") || strings.Contains(got, "4111") {
		t.Fatalf("sensitive digits leaked: %q", got)
	}
}

func TestText_CustomPatterns(t *testing.T) {
	f, err := NewFilter(Config{CustomPatterns: []string{`ACCT-\d{6}`}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := f.Text("account ACCT-123456 flagged")
	if strings.Contains(got, "ACCT-123456") {
		t.Fatalf("custom pattern leaked: %q", got)
	}
}

func TestNewFilter_RejectsBadPattern(t *testing.T) {
	if _, err := NewFilter(Config{CustomPatterns: []string{`([`}}); err == nil {
		t.Fatalf("expected error for invalid pattern")
	}
}

func TestTranscript_DoesNotMutateInput(t *testing.T) {
	f, _ := NewFilter(Config{})
	in := []calls.TranscriptEntry{{Role: "user", Content: "mail me at a@b.co"}}
	out := f.Transcript(in)

	if in[0].Content != "mail me at a@b.co" {
		t.Fatalf("input mutated: %q", in[0].Content)
	}
	if strings.Contains(out[0].Content, "a@b.co") {
		t.Fatalf("email leaked: %q", out[0].Content)
	}
	if out[0].Role != "user" {
		t.Fatalf("role lost")
	}
}

func TestText_EmptyStringPassthrough(t *testing.T) {
	f, _ := NewFilter(Config{})
	if got := f.Text(""); got != "" {
		t.Fatalf("expected empty passthrough, got %q", got)
	}
}
