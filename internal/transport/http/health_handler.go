package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"tradelens/internal/services"
)

// HealthHandler serves the health and version endpoints.
type HealthHandler struct {
	service *services.HealthService
	version string
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service *services.HealthService, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		version: version,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// LivenessCheck handles GET /api/health.
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Liveness(r.Context()))
}

// ReadinessCheck handles GET /api/health/ready. A degraded status maps
// to 503 so load balancers stop routing to this instance.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := h.service.Readiness(r.Context())
	if status.Status != "healthy" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}

// Version handles GET /api/version.
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"version": h.version,
	})
}
