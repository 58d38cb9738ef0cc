package handlers

import (
	"net/http"

	"github.com/moriartysec/moriarty/internal/core/services/stats"
)

// StatsHandler serves the dashboard statistics snapshot
type StatsHandler struct {
	Aggregator *stats.Aggregator
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(aggregator *stats.Aggregator) *StatsHandler {
	return &StatsHandler{Aggregator: aggregator}
}

// HandleGet returns current dashboard statistics.
// GET /api/stats
func (h *StatsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Aggregator.Snapshot())
}
