package api

import (
	"fmt"
	"math"
	"net/http"

	"github.com/google/uuid"
	service "github.com/okian/sportgrade/internal/app"
)

// LevelsHandler answers next-grade and sportabzeichen aggregation queries.
type LevelsHandler struct {
	deps Dependencies
}

// NewLevelsHandler creates a new levels handler.
func NewLevelsHandler(deps Dependencies) *LevelsHandler {
	return &LevelsHandler{deps: deps}
}

type nextGradeRequest struct {
	Points *float64 `json:"points"`
}

// HandleNextGrade handles POST /grading-keys/{id}/next-grade.
func (h *LevelsHandler) HandleNextGrade(w http.ResponseWriter, r *http.Request) {
	var req nextGradeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.Points == nil || math.IsNaN(*req.Points) {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing points", ErrBadRequest))
		return
	}
	ng, err := h.deps.NextGrade(r.Context(), r.PathValue("id"), *req.Points)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ng)
}

type overallRequest struct {
	RecordIDs []string `json:"recordIds,omitempty"`
	Levels    []string `json:"levels,omitempty"`
}

// HandleOverall handles POST /sportabzeichen/overall. The body names either
// stored record ids or plain level names.
func (h *LevelsHandler) HandleOverall(w http.ResponseWriter, r *http.Request) {
	var req overallRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	var (
		out service.Overall
		err error
	)
	switch {
	case len(req.RecordIDs) > 0 && len(req.Levels) > 0:
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: send recordIds or levels, not both", ErrBadRequest))
		return
	case len(req.RecordIDs) > 0:
		ids := make([]uuid.UUID, len(req.RecordIDs))
		for i, s := range req.RecordIDs {
			if ids[i], err = uuid.Parse(s); err != nil {
				writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: record id %q: %w", ErrBadRequest, s, err))
				return
			}
		}
		out, err = h.deps.OverallLevel(r.Context(), ids)
	default:
		out, err = h.deps.WeakestLevel(r.Context(), req.Levels)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleSubjectLevel handles GET /subjects/{id}/sportabzeichen.
func (h *LevelsHandler) HandleSubjectLevel(w http.ResponseWriter, r *http.Request) {
	out, err := h.deps.SubjectLevel(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
