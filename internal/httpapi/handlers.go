package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"callcenter-analytics/internal/analytics"
	"callcenter-analytics/internal/export"
	"callcenter-analytics/internal/ingest"
	"callcenter-analytics/internal/live"
	"callcenter-analytics/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Ingest    *ingest.Service
	Analytics *analytics.Service
	Live      *live.Hub
}

// HandleCallWebhook ingests a call-completed event from the voice agent
// provider.
//
// NOTE: the provider's webhook signature is not verified; the endpoint
// trusts its network boundary.
func (h Handlers) HandleCallWebhook(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Ingest == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "ingest not configured"})
		return
	}

	var ev ingest.WebhookEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		log.Warn("webhook body unparsable", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook data"})
		return
	}

	rec, err := h.Ingest.Ingest(c.Request.Context(), ev)
	switch {
	case errors.Is(err, ingest.ErrInvalidPayload):
		log.Warn("webhook payload invalid", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook data"})
		return
	case errors.Is(err, ingest.ErrStorageFailure):
		log.Error("call storage failed", "call_id", ev.CallID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to store call data"})
		return
	case err != nil:
		log.Error("webhook processing failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Call data received and stored", "id": rec.ID})
}

// HandleCallAnalysis serves the aggregated dashboard view for the trailing
// N-day window.
func (h Handlers) HandleCallAnalysis(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Analytics == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "analytics not configured"})
		return
	}

	view, err := h.Analytics.Dashboard(c.Request.Context(), windowDays(c))
	if err != nil {
		log.Error("dashboard aggregation failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleAnalysisExport serves the dashboard view as a spreadsheet download.
func (h Handlers) HandleAnalysisExport(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Analytics == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "analytics not configured"})
		return
	}

	days := windowDays(c)
	view, err := h.Analytics.Dashboard(c.Request.Context(), days)
	if err != nil {
		log.Error("dashboard aggregation failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	f, err := export.Workbook(view)
	if err != nil {
		log.Error("workbook build failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="call-analytics-%dd.xlsx"`, days))
	c.Status(http.StatusOK)
	if _, err := f.WriteTo(c.Writer); err != nil {
		log.Error("workbook write failed", "err", err)
	}
}

// HandleLiveUpdates upgrades the connection and attaches it to the live hub.
func (h Handlers) HandleLiveUpdates(c *gin.Context) {
	if h.Live == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "live updates not configured"})
		return
	}
	h.Live.HandleWS(c)
}

// windowDays reads the days query parameter, defaulting to 7 when absent or
// unparsable. Negative values are clamped downstream.
func windowDays(c *gin.Context) int {
	v := c.Query("days")
	if v == "" {
		return analytics.DefaultWindowDays
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return analytics.DefaultWindowDays
	}
	return n
}
