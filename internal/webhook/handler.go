package webhook

import (
	"errors"
	"io"
	"net/http"

	"voicehub/internal/agents"
	"voicehub/internal/eventlog"
	"voicehub/internal/provider"
	"voicehub/pkg/logger"

	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 1 << 20 // provider payloads are transcripts, not media

// Handler is the provider-facing webhook endpoint. It is the only write path
// into the call pipeline and the only place signature auth happens.
//
// Response contract:
//   - 401 only for a missing or invalid signature.
//   - 500 only when the event log itself cannot be written.
//   - 200 {"received": true} for everything else, including internal
//     processing failures, which are recorded in the event log instead.
type Handler struct {
	Secret   string
	Resolver agents.Resolver
	EventLog *eventlog.Service
	Pipeline *Pipeline
}

func (h *Handler) Receive(c *gin.Context) {
	log := logger.FromGin(c)

	rawBody, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	sig := c.GetHeader(provider.SignatureHeader)
	if !provider.VerifySignature(rawBody, sig, h.Secret) {
		log.Warn("webhook signature rejected", "remote_addr", c.ClientIP())
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	ev, err := provider.ParseEvent(rawBody)
	if err != nil || ev.Event == "" {
		log.Warn("unparseable webhook payload", "err", err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	// Agent resolution misses are expected (unsynced or test agents); the
	// event is still logged, lifecycle processing is skipped.
	var identity agents.Identity
	resolved := false
	if ev.Call.AgentID != "" {
		identity, err = h.Resolver.Resolve(c.Request.Context(), ev.Call.AgentID)
		switch {
		case err == nil:
			resolved = true
		case errors.Is(err, agents.ErrNotFound):
			log.Warn("webhook for unknown agent", "agent_id", ev.Call.AgentID)
		default:
			log.Error("resolving agent", "agent_id", ev.Call.AgentID, "err", err)
		}
	}

	// Appended before any branch so the audit trail survives processing
	// failures. This is the only post-auth write that may 500.
	entry, err := h.EventLog.Append(c.Request.Context(), eventlog.Entry{
		OrganizationID: identity.OrganizationID,
		Event:          string(ev.Event),
		AgentID:        ev.Call.AgentID,
		PlatformCallID: ev.Call.CallID,
		RawPayload:     rawBody,
	})
	if err != nil {
		log.Error("appending webhook log entry", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "event log unavailable"})
		return
	}

	result := eventlog.ImportResultSuccess
	switch {
	case !ev.Event.Known():
		log.Warn("unknown webhook event type", "event", ev.Event)
	case !resolved:
		// Nothing to mutate without an identity; the raw payload is kept.
	default:
		if perr := h.process(c, ev, identity, rawBody); perr != nil {
			log.Error("processing webhook event",
				"event", ev.Event, "call_id", ev.Call.CallID, "err", perr)
			result = eventlog.ImportResultFailed
		}
	}

	if err := h.EventLog.SetImportResult(c.Request.Context(), entry.ID, result); err != nil {
		log.Error("updating import result", "entry_id", entry.ID, "err", err)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) process(c *gin.Context, ev provider.Event, identity agents.Identity, rawBody []byte) error {
	ctx := c.Request.Context()
	switch ev.Event {
	case provider.EventCallStarted:
		return h.Pipeline.HandleStarted(ctx, ev, identity)
	case provider.EventCallEnded:
		return h.Pipeline.HandleEnded(ctx, ev, identity, rawBody)
	case provider.EventCallAnalyzed:
		return h.Pipeline.HandleAnalyzed(ctx, ev, identity)
	}
	return nil
}
