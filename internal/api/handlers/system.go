package handlers

import (
	"net/http"

	"github.com/Project-Sylos/DriveLister/internal/api/models"
	"github.com/Project-Sylos/DriveLister/sdk"
)

// SystemHandler handles system-related endpoints
type SystemHandler struct {
	BaseHandler
	dl *sdk.DriveLister
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(dl *sdk.DriveLister) *SystemHandler {
	return &SystemHandler{
		dl: dl,
	}
}

// GetConfig handles the get config endpoint. The API key is masked.
func (h *SystemHandler) GetConfig(w http.ResponseWriter, req *http.Request) {
	view := models.NewConfigView(h.dl.GetConfig(), h.dl.HasConfig())
	h.sendSuccess(w, "Config retrieved successfully", view)
}
