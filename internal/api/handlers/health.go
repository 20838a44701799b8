package handlers

import (
	"net/http"

	"github.com/Project-Sylos/DriveLister/internal/api/models"
	"github.com/Project-Sylos/DriveLister/sdk"
)

// HealthHandler reports liveness. It never calls Google Drive.
type HealthHandler struct {
	BaseHandler
	dl *sdk.DriveLister
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(dl *sdk.DriveLister) *HealthHandler {
	return &HealthHandler{dl: dl}
}

// HealthCheck handles the health check endpoint
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, req *http.Request) {
	h.sendSuccess(w, "DriveLister API is healthy", models.Health{
		ConfigLoaded: h.dl.HasConfig(),
		History:      h.dl.HistoryEnabled(),
	})
}
