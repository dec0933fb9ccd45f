package main

import (
	"callcenter-analytics/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Provider webhook (public).
	// NOTE: webhook signature verification is deliberately out of scope; the
	// endpoint relies on its network boundary.
	r.POST("/webhooks/retell/call", h.HandleCallWebhook)

	// Dashboard read API. Polled by the browser client every 30s.
	api := r.Group("/api")
	{
		api.GET("/call-analysis", h.HandleCallAnalysis)
		api.GET("/call-analysis/export", h.HandleAnalysisExport)
	}

	// Live insert notifications, complementing the poll loop. Clients merge
	// both streams idempotently by record id.
	r.GET("/ws/updates", h.HandleLiveUpdates)
}
