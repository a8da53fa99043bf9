package forwarder

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func captureServer(t *testing.T, status int, bodies *[][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if bodies != nil {
			*bodies = append(*bodies, body)
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestForward_PayloadIsVerbatim(t *testing.T) {
	var bodies [][]byte
	srv := captureServer(t, http.StatusOK, &bodies)

	raw := []byte(`{"event":"call_ended","call":{"call_id":"c1"},  "extra": 1}`)
	f := New(nil, nil)
	result := f.Forward(context.Background(), "org1", srv.URL, raw)

	if len(bodies) != 1 {
		t.Fatalf("expected one delivery, got %d", len(bodies))
	}
	if string(bodies[0]) != string(raw) {
		t.Fatalf("payload was altered: %q", bodies[0])
	}
	want := srv.URL + ": 200"
	if result != want {
		t.Fatalf("result = %q, want %q", result, want)
	}
}

func TestForward_MixedOutcomesReportedPerURL(t *testing.T) {
	failing := captureServer(t, http.StatusInternalServerError, nil)
	healthy := captureServer(t, http.StatusOK, nil)

	sols := NewMemorySolutionsReader()
	sols.Put(Solution{ID: "s1", OrganizationID: "org1", Name: "crm", WebhookURL: healthy.URL})

	f := New(sols, nil)
	result := f.Forward(context.Background(), "org1", failing.URL, []byte(`{}`))

	want := failing.URL + ": 500, " + healthy.URL + ": 200"
	if result != want {
		t.Fatalf("result = %q, want %q", result, want)
	}
}

func TestForward_UnreachableURLReportsFailed(t *testing.T) {
	f := New(nil, nil)
	result := f.Forward(context.Background(), "org1", "http://127.0.0.1:1/hook", []byte(`{}`))

	if !strings.HasSuffix(result, ": failed") {
		t.Fatalf("expected failed marker, got %q", result)
	}
}

func TestForward_NoTargetsReturnsEmpty(t *testing.T) {
	f := New(NewMemorySolutionsReader(), nil)
	if got := f.Forward(context.Background(), "org1", "", []byte(`{}`)); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestForward_SolutionsOnlyWithoutAgentURL(t *testing.T) {
	var bodies [][]byte
	srv := captureServer(t, http.StatusAccepted, &bodies)

	sols := NewMemorySolutionsReader()
	sols.Put(Solution{ID: "s1", OrganizationID: "org1", Name: "crm", WebhookURL: srv.URL})

	f := New(sols, nil)
	result := f.Forward(context.Background(), "org1", "", []byte(`{"a":1}`))

	if len(bodies) != 1 {
		t.Fatalf("expected one delivery, got %d", len(bodies))
	}
	if result != srv.URL+": 202" {
		t.Fatalf("result = %q", result)
	}
}
