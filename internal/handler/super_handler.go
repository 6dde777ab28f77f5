package handler

import (
	"net/http"

	"washdesk/internal/service"
)

// SuperHandler serves cross-tenant super-admin endpoints.
type SuperHandler struct {
	stats *service.StatsService
}

func NewSuperHandler(stats *service.StatsService) *SuperHandler {
	return &SuperHandler{stats: stats}
}

// Stats handles GET /super/stats.
func (h *SuperHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		httpError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
