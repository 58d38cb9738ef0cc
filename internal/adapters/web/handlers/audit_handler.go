package handlers

import (
	"log"
	"net/http"

	"github.com/moriartysec/moriarty/internal/core/services/audit"
)

// AuditHandler handles audit trail queries
type AuditHandler struct {
	Service *audit.Service
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service *audit.Service) *AuditHandler {
	return &AuditHandler{Service: service}
}

// HandleGetLogs returns recent audit entries.
// GET /api/audit-logs?limit=
func (h *AuditHandler) HandleGetLogs(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)

	logs, err := h.Service.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("Failed to fetch audit logs: %v", err)
		http.Error(w, "Failed to fetch logs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"logs": logs,
	})
}
