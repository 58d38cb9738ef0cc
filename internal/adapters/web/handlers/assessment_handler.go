package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/moriartysec/moriarty/internal/core/services/assessment"
)

// AssessmentHandler serves AI risk assessment operations
type AssessmentHandler struct {
	Orchestrator *assessment.Orchestrator
}

// NewAssessmentHandler creates a new AssessmentHandler
func NewAssessmentHandler(orchestrator *assessment.Orchestrator) *AssessmentHandler {
	return &AssessmentHandler{Orchestrator: orchestrator}
}

type createAssessmentRequest struct {
	VulnerabilityID string `json:"vulnerability_id"`
}

// HandleCreate runs a new assessment for a vulnerability.
// POST /api/assessments
func (h *AssessmentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var req createAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.VulnerabilityID == "" {
		http.Error(w, "vulnerability_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.Orchestrator.Create(r.Context(), req.VulnerabilityID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleGet returns a single assessment by ID
func (h *AssessmentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := h.Orchestrator.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleLatest returns the most recent assessments.
// GET /api/assessments?limit=
func (h *AssessmentHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	if limit < 0 {
		http.Error(w, "limit must not be negative", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"assessments": h.Orchestrator.Latest(limit),
	})
}
