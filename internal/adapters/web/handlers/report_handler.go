package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/moriartysec/moriarty/internal/adapters/reporting"
	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/services/report"
)

// ReportHandler serves report assembly and downloads
type ReportHandler struct {
	Assembler *report.Assembler
	Exporter  *reporting.Exporter
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(assembler *report.Assembler, exporter *reporting.Exporter) *ReportHandler {
	return &ReportHandler{
		Assembler: assembler,
		Exporter:  exporter,
	}
}

type createReportRequest struct {
	Title            string   `json:"title"`
	VulnerabilityIDs []string `json:"vulnerability_ids"`
	AssessmentIDs    []string `json:"assessment_ids"`
	ExportFormat     string   `json:"export_format"`
}

// HandleCreate assembles and stores a new report.
// POST /api/reports
func (h *ReportHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	format, err := domain.ParseExportFormat(req.ExportFormat)
	if err != nil {
		http.Error(w, "Invalid export format", http.StatusBadRequest)
		return
	}

	created, err := h.Assembler.Create(r.Context(), req.Title, req.VulnerabilityIDs, req.AssessmentIDs, format)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleGet returns a stored report by ID
func (h *ReportHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	stored, err := h.Assembler.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stored)
}

// HandleList returns stored reports, newest first.
// GET /api/reports?limit=&offset=
func (h *ReportHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	if limit < 0 || offset < 0 {
		http.Error(w, "limit and offset must not be negative", http.StatusBadRequest)
		return
	}

	reports, total := h.Assembler.List(limit, offset)
	writeJSON(w, http.StatusOK, map[string]any{
		"reports": reports,
		"total":   total,
	})
}

// HandleDownload renders a stored report in its export format. A format
// query parameter overrides the stored one.
// GET /api/reports/{id}/download?format=
func (h *ReportHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	stored, err := h.Assembler.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	format := stored.ExportFormat
	if raw := r.URL.Query().Get("format"); raw != "" {
		format, err = domain.ParseExportFormat(raw)
		if err != nil {
			http.Error(w, "Invalid export format", http.StatusBadRequest)
			return
		}
	}

	data, contentType, err := h.Exporter.Render(&stored, format)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s.%s", stored.ID, format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
