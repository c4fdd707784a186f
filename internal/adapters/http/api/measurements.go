package api

import (
	"net/http"

	"github.com/okian/sportgrade/internal/domain/model"
)

// MeasurementsHandler accepts measurements for asynchronous grading.
type MeasurementsHandler struct {
	deps Dependencies
}

// NewMeasurementsHandler creates a new measurements handler.
func NewMeasurementsHandler(deps Dependencies) *MeasurementsHandler {
	return &MeasurementsHandler{deps: deps}
}

// HandlePostMeasurement handles POST /measurements. New measurements get 202,
// repeated ids 200 with duplicate set.
func (h *MeasurementsHandler) HandlePostMeasurement(w http.ResponseWriter, r *http.Request) {
	var m model.Measurement
	if err := decode(w, r, &m); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	ack, err := h.deps.Submit(r.Context(), m)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if ack.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", MeasurementID: ack.MeasurementID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", MeasurementID: ack.MeasurementID})
}
