package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldlink/locate-sla/internal/application/tracking"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	service *tracking.Service
}

// NewHealthHandler wires the handler.
func NewHealthHandler(service *tracking.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

// Healthz reports process liveness.
func (h *HealthHandler) Healthz(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"status": "ok"})
}

// Readyz reports readiness: true once at least one refresh or cache restore
// has populated the record set.
func (h *HealthHandler) Readyz(c *gin.Context) {
	if !h.service.Ready() {
		respond(c, http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	respond(c, http.StatusOK, gin.H{
		"status":       "ready",
		"last_refresh": h.service.LastRefresh(),
	})
}
