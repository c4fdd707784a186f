package api

import (
	"fmt"
	"net/http"

	"github.com/okian/sportgrade/internal/domain/model"
)

// EvaluateHandler grades measurements synchronously.
type EvaluateHandler struct {
	deps     Dependencies
	maxBatch int
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps Dependencies, maxBatch int) *EvaluateHandler {
	return &EvaluateHandler{deps: deps, maxBatch: maxBatch}
}

// HandleEvaluate handles POST /evaluate.
func (h *EvaluateHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var m model.Measurement
	if err := decode(w, r, &m); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	rec, err := h.deps.Evaluate(r.Context(), m)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type batchRequest struct {
	Measurements []model.Measurement `json:"measurements"`
}

type batchItem struct {
	Record *model.Record  `json:"record,omitempty"`
	Error  *errorResponse `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchItem `json:"results"`
	Failed  int         `json:"failed"`
}

// HandleBatch handles POST /evaluate/batch. Items fail independently; the
// response is 200 with per-item errors.
func (h *EvaluateHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	switch n := len(req.Measurements); {
	case n == 0:
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: no measurements", ErrBadRequest))
		return
	case n > h.maxBatch:
		writeError(w, http.StatusBadRequest, "batch_too_large", fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, n, h.maxBatch))
		return
	}

	recs, errs := h.deps.EvaluateBatch(r.Context(), req.Measurements)
	resp := batchResponse{Results: make([]batchItem, len(recs))}
	for i := range recs {
		if errs[i] != nil {
			_, code := classify(errs[i])
			resp.Results[i].Error = &errorResponse{Code: code, Message: errs[i].Error()}
			resp.Failed++
			continue
		}
		resp.Results[i].Record = &recs[i]
	}
	writeJSON(w, http.StatusOK, resp)
}
