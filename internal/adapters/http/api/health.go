package api

import (
	"net/http"

	"github.com/okian/sportgrade/pkg/metrics"
)

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	stats StatsProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(stats StatsProvider) *HealthHandler {
	return &HealthHandler{stats: stats}
}

type healthResponse struct {
	Status  string `json:"status"`
	Started bool   `json:"started"`
}

// HandleHealth handles GET /healthz. It reports 503 until the worker pool
// runs.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	started, _ := h.stats.GetStats()["started"].(bool)
	if !started {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "starting"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Started: true})
}

// MetricsHandler serves the custom Prometheus registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return metrics.Handler()
}
