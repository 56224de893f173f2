// internal/handler/api.go
//
// Build-support API.  The static generator calls /api/static-paths to
// learn every (tenant, path) pair it should pre-render; the route-key
// table used here is the same one runtime dispatch uses.
package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

func (h *Handler) staticPaths(w http.ResponseWriter, r *http.Request) {
	paths, err := h.routeKeys.StaticPaths(r.Context(), h.pages)
	if err != nil {
		zap.S().Errorw("static path enumeration failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(paths); err != nil {
		zap.S().Warnw("static path encode failed", "err", err)
	}
}
