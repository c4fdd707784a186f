package api

import (
	"net/http"

	"github.com/okian/sportgrade/pkg/logger"
)

// CatalogHandler reloads the grading catalog from disk.
type CatalogHandler struct {
	deps   Dependencies
	path   string
	logger logger.Logger
}

// NewCatalogHandler creates a new catalog handler. An empty path disables
// reloads.
func NewCatalogHandler(deps Dependencies, path string, l logger.Logger) *CatalogHandler {
	return &CatalogHandler{deps: deps, path: path, logger: l}
}

// HandleReload handles POST /catalog/reload. A rejected catalog leaves the
// served one in place.
func (h *CatalogHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if h.path == "" {
		writeError(w, http.StatusNotFound, "not_found", ErrReloadOff)
		return
	}
	if err := h.deps.ReloadCatalog(r.Context(), h.path); err != nil {
		h.logger.Warn(r.Context(), "catalog reload rejected", logger.Error(err))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reloaded", "catalog": h.deps.GetStats()["catalog"]})
}
