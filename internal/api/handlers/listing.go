package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/Project-Sylos/DriveLister/internal/config"
	"github.com/Project-Sylos/DriveLister/internal/logging"
	"github.com/Project-Sylos/DriveLister/sdk"
	"go.uber.org/zap"
)

// ListingHandler serves the rendered folder page and its JSON tree
type ListingHandler struct {
	BaseHandler
	dl *sdk.DriveLister
}

// NewListingHandler creates a new listing handler
func NewListingHandler(dl *sdk.DriveLister) *ListingHandler {
	return &ListingHandler{
		dl: dl,
	}
}

// GetPage handles the HTML page endpoint. Setup and listing errors are shown
// inside the page. A missing configuration is only logged and answers an
// empty 500.
func (h *ListingHandler) GetPage(w http.ResponseWriter, req *http.Request) {
	res, err := h.dl.Load(req.Context())
	if err != nil {
		if errors.Is(err, config.ErrConfigMissing) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		h.sendText(w, loadStatus(err), loadFailure(err))
		return
	}

	// Render to a buffer so a template failure never leaves a half page
	var buf bytes.Buffer
	if err := res.Page.Render(&buf); err != nil {
		logging.Error("failed to render page", zap.Error(err))
		h.sendText(w, http.StatusInternalServerError, "failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetTree handles the JSON tree endpoint
func (h *ListingHandler) GetTree(w http.ResponseWriter, req *http.Request) {
	res, err := h.dl.Load(req.Context())
	if err != nil {
		h.sendError(w, loadStatus(err), loadFailure(err))
		return
	}

	if res.Err != nil {
		status := http.StatusBadGateway
		if errors.Is(res.Err, config.ErrConfigUnset) {
			status = http.StatusServiceUnavailable
		}
		h.sendError(w, status, res.Page.Message().Text)
		return
	}

	h.sendSuccess(w, "Tree loaded successfully", res.Listing)
}

// loadStatus maps a Load error to an HTTP status
func loadStatus(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// loadFailure describes a Load error without echoing its details
func loadFailure(err error) string {
	switch {
	case errors.Is(err, config.ErrConfigMissing):
		return "drive configuration not found"
	case loadStatus(err) == http.StatusServiceUnavailable:
		return "listing canceled"
	default:
		logging.Error("failed to load listing", zap.String("error", logging.Redact(err.Error())))
		return "failed to load listing"
	}
}
