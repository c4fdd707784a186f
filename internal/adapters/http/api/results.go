package api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ResultsHandler serves stored evaluation records.
type ResultsHandler struct {
	deps Dependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps Dependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandleGetResult handles GET /results/{id}.
func (h *ResultsHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: result id: %w", ErrBadRequest, err))
		return
	}
	rec, err := h.deps.Result(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleGetByMeasurement handles GET /measurements/{id}/result, the polling
// endpoint for asynchronous submissions.
func (h *ResultsHandler) HandleGetByMeasurement(w http.ResponseWriter, r *http.Request) {
	rec, err := h.deps.ResultByMeasurement(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleGetBySubject handles GET /subjects/{id}/results. An unknown subject
// yields an empty list.
func (h *ResultsHandler) HandleGetBySubject(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.ResultsBySubject(r.Context(), r.PathValue("id")))
}
