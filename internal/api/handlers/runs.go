package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Project-Sylos/DriveLister/internal/api/models"
	"github.com/Project-Sylos/DriveLister/sdk"
	"github.com/go-chi/chi/v5"
)

// defaultRunLimit caps /runs when no limit is given
const defaultRunLimit = 20

// RunsHandler handles run history endpoints
type RunsHandler struct {
	BaseHandler
	dl *sdk.DriveLister
}

// NewRunsHandler creates a new runs handler
func NewRunsHandler(dl *sdk.DriveLister) *RunsHandler {
	return &RunsHandler{
		dl: dl,
	}
}

// ListRuns handles the list runs endpoint
func (h *RunsHandler) ListRuns(w http.ResponseWriter, req *http.Request) {
	limit := defaultRunLimit
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.sendError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.dl.Runs(req.Context(), limit)
	if err != nil {
		h.sendHistoryError(w, err)
		return
	}

	h.sendSuccess(w, "Runs retrieved successfully", runs)
}

// GetRun handles the get run endpoint, including its folder visits
func (h *RunsHandler) GetRun(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if id == "" {
		h.sendError(w, http.StatusBadRequest, "run id is required")
		return
	}

	run, err := h.dl.Run(req.Context(), id)
	if err != nil {
		h.sendHistoryError(w, err)
		return
	}
	visits, err := h.dl.Visits(req.Context(), id)
	if err != nil {
		h.sendHistoryError(w, err)
		return
	}

	h.sendSuccess(w, "Run retrieved successfully", models.NewRunDetail(run, visits))
}

// GetVisits handles the list visits endpoint
func (h *RunsHandler) GetVisits(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if id == "" {
		h.sendError(w, http.StatusBadRequest, "run id is required")
		return
	}

	visits, err := h.dl.Visits(req.Context(), id)
	if err != nil {
		h.sendHistoryError(w, err)
		return
	}

	h.sendSuccess(w, "Visits retrieved successfully", visits)
}

func (h *RunsHandler) sendHistoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sdk.ErrRunNotFound):
		h.sendError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sdk.ErrHistoryDisabled):
		h.sendError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read run history: %v", err))
	}
}
