package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPEmailSender_PostsMessage(t *testing.T) {
	var got EmailMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/emails" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer mailkey" {
			t.Errorf("unexpected auth %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewHTTPEmailSender(srv.URL, "mailkey", "noreply@voicehub.test")
	err := s.Send(context.Background(), EmailMessage{To: []string{"a@b.co"}, Subject: "hi", Body: "text"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.From != "noreply@voicehub.test" {
		t.Fatalf("expected default from, got %q", got.From)
	}
}

func TestHTTPEmailSender_RequiresRecipient(t *testing.T) {
	s := NewHTTPEmailSender("http://unused", "k", "f@x.co")
	if err := s.Send(context.Background(), EmailMessage{Subject: "hi"}); err == nil {
		t.Fatalf("expected error without recipients")
	}
}

func TestHTTPSMSSender_SurfacesErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewHTTPSMSSender(srv.URL, "smskey", "+15550000000")
	if err := s.Send(context.Background(), SMSMessage{To: "+15551234567", Body: "ping"}); err == nil {
		t.Fatalf("expected error on 429")
	}
}
