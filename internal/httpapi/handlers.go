package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"voicehub/internal/auth"
	"voicehub/internal/calls"
	"voicehub/internal/eventlog"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Calls    *calls.Service
	EventLog *eventlog.Service
}

const defaultListLimit = 50
const maxListLimit = 200

func listLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultListLimit
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}

// --- Calls ---

func (h Handlers) ListCalls(c *gin.Context) {
	organizationID, err := auth.OrganizationID(c.Request.Context())
	if err != nil || organizationID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "organization_id required"})
		return
	}

	records, err := h.Calls.List(c.Request.Context(), organizationID, listLimit(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "listing calls failed"})
		return
	}
	if records == nil {
		records = []calls.CallRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"calls": records})
}

// GetCall returns one call by its provider call id. A call the pipeline has
// not seen yet is reported as pending, not as an error: dashboards poll this
// endpoint while events are still in flight.
func (h Handlers) GetCall(c *gin.Context) {
	organizationID, err := auth.OrganizationID(c.Request.Context())
	if err != nil || organizationID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "organization_id required"})
		return
	}
	callID := c.Param("call_id")
	if callID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "call_id required"})
		return
	}

	rec, err := h.Calls.Get(c.Request.Context(), organizationID, callID)
	if errors.Is(err, calls.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"call_id": callID, "state": "pending"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "loading call failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"call": rec, "state": "available"})
}

// --- Event log ---

func (h Handlers) ListEvents(c *gin.Context) {
	organizationID, err := auth.OrganizationID(c.Request.Context())
	if err != nil || organizationID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "organization_id required"})
		return
	}

	entries, err := h.EventLog.ListRecent(c.Request.Context(), organizationID, listLimit(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "listing events failed"})
		return
	}
	if entries == nil {
		entries = []eventlog.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"events": entries})
}
