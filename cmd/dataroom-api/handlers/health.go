package handlers

import (
	"context"
	"net/http"
)

// ServiceStatus reports component availability.
type ServiceStatus interface {
	Services(ctx context.Context) map[string]bool
}

// HealthHandler serves the root and health endpoints.
type HealthHandler struct {
	status ServiceStatus
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(status ServiceStatus) *HealthHandler {
	return &HealthHandler{status: status}
}

// Root handles GET /.
func (h *HealthHandler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "PharmaFlow API", "status": "running"})
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"services": h.status.Services(r.Context()),
	})
}
