package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"voicehub/internal/auth"
	"voicehub/internal/calls"
	"voicehub/internal/eventlog"

	"github.com/gin-gonic/gin"
)

func identityMiddleware(organizationID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := auth.WithIdentity(c.Request.Context(), "user-1", organizationID, "member")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func testRouter(t *testing.T, h Handlers, organizationID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/v1")
	if organizationID != "" {
		g.Use(identityMiddleware(organizationID))
	}
	g.GET("/calls", h.ListCalls)
	g.GET("/calls/:call_id", h.GetCall)
	g.GET("/events", h.ListEvents)
	return r
}

func seedCall(t *testing.T, repo *calls.MemoryRepo, organizationID, callID string) {
	t.Helper()
	svc := calls.NewService(repo)
	if _, err := svc.StartCall(context.Background(), calls.StartParams{
		OrganizationID: organizationID,
		ProviderCallID: callID,
	}); err != nil {
		t.Fatalf("seed call: %v", err)
	}
}

func TestGetCall_PendingWhenUnknown(t *testing.T) {
	h := Handlers{
		Calls:    calls.NewService(calls.NewMemoryRepo()),
		EventLog: eventlog.NewService(eventlog.NewMemoryRepo()),
	}
	r := testRouter(t, h, "org-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/calls/call_x", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["state"] != "pending" {
		t.Fatalf("state = %v, want pending", body["state"])
	}
}

func TestGetCall_ReturnsRecord(t *testing.T) {
	repo := calls.NewMemoryRepo()
	seedCall(t, repo, "org-1", "call_1")

	h := Handlers{Calls: calls.NewService(repo), EventLog: eventlog.NewService(eventlog.NewMemoryRepo())}
	r := testRouter(t, h, "org-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/calls/call_1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["state"] != "available" {
		t.Fatalf("state = %v, want available", body["state"])
	}
}

func TestGetCall_ScopedToOrganization(t *testing.T) {
	repo := calls.NewMemoryRepo()
	seedCall(t, repo, "org-1", "call_1")

	h := Handlers{Calls: calls.NewService(repo), EventLog: eventlog.NewService(eventlog.NewMemoryRepo())}
	r := testRouter(t, h, "org-2")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/calls/call_1", nil))
	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["state"] != "pending" {
		t.Fatalf("cross-tenant read must look pending, got %v", body["state"])
	}
}

func TestListCalls_EmptyIsEmptyArray(t *testing.T) {
	h := Handlers{Calls: calls.NewService(calls.NewMemoryRepo()), EventLog: eventlog.NewService(eventlog.NewMemoryRepo())}
	r := testRouter(t, h, "org-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/calls", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Body.String(); got != `{"calls":[]}` {
		t.Fatalf("body = %s", got)
	}
}

func TestListCalls_RequiresIdentity(t *testing.T) {
	h := Handlers{Calls: calls.NewService(calls.NewMemoryRepo()), EventLog: eventlog.NewService(eventlog.NewMemoryRepo())}
	r := testRouter(t, h, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/calls", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestListEvents_ReturnsTenantEntries(t *testing.T) {
	logRepo := eventlog.NewMemoryRepo()
	logSvc := eventlog.NewService(logRepo)
	if _, err := logSvc.Append(context.Background(), eventlog.Entry{
		OrganizationID: "org-1", Event: "call_started", PlatformCallID: "c1",
	}); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	h := Handlers{Calls: calls.NewService(calls.NewMemoryRepo()), EventLog: logSvc}
	r := testRouter(t, h, "org-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/events", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Events []eventlog.Entry `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Events) != 1 || body.Events[0].PlatformCallID != "c1" {
		t.Fatalf("unexpected events: %+v", body.Events)
	}
}
