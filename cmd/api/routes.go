package main

import (
	"voicehub/internal/auth"
	"voicehub/internal/calls"
	"voicehub/internal/eventlog"
	"voicehub/internal/httpapi"
	"voicehub/internal/webhook"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, receiver *webhook.Handler, authManager *auth.Manager, callSvc *calls.Service, logSvc *eventlog.Service) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Provider webhook (public). Authenticated by HMAC signature over the
	// raw body, not by bearer token.
	r.POST("/webhooks/provider", receiver.Receive)

	// protected read API
	v1 := r.Group("/v1")
	v1.Use(auth.RequireAccessToken(authManager))
	{
		h := httpapi.Handlers{Calls: callSvc, EventLog: logSvc}

		v1.GET("/me", func(c *gin.Context) {
			uid, _ := auth.UserID(c.Request.Context())
			oid, _ := auth.OrganizationID(c.Request.Context())
			role, _ := auth.Role(c.Request.Context())
			c.JSON(200, gin.H{"user_id": uid, "organization_id": oid, "role": role})
		})

		v1.GET("/calls", h.ListCalls)
		v1.GET("/calls/:call_id", h.GetCall)
		v1.GET("/events", h.ListEvents)
	}
}
