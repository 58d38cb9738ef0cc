package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/services/ingest"
)

// CVEHandler serves CVE ingestion from the external registry
type CVEHandler struct {
	Ingestor *ingest.Ingestor
}

// NewCVEHandler creates a new CVEHandler
func NewCVEHandler(ingestor *ingest.Ingestor) *CVEHandler {
	return &CVEHandler{Ingestor: ingestor}
}

type fetchCVERequest struct {
	CVEID string `json:"cve_id"`
}

// HandleFetch ingests a single CVE by ID.
// POST /api/cves/fetch
func (h *CVEHandler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var req fetchCVERequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	vuln, err := h.Ingestor.FetchByID(r.Context(), req.CVEID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, vuln)
}

type searchCVERequest struct {
	Keyword        string          `json:"keyword"`
	Severity       domain.Severity `json:"severity"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	ResultsPerPage int             `json:"results_per_page"`
	StartIndex     int             `json:"start_index"`
}

// HandleSearch queries the registry and ingests the results.
// POST /api/cves/search
func (h *CVEHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var req searchCVERequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	query := domain.CVESearchQuery{
		Keyword:        req.Keyword,
		Severity:       req.Severity,
		ResultsPerPage: req.ResultsPerPage,
		StartIndex:     req.StartIndex,
	}

	var err error
	if query.StartDate, err = parseDate(req.StartDate); err != nil {
		http.Error(w, "Invalid start_date", http.StatusBadRequest)
		return
	}
	if query.EndDate, err = parseDate(req.EndDate); err != nil {
		http.Error(w, "Invalid end_date", http.StatusBadRequest)
		return
	}

	stored, total, err := h.Ingestor.SearchAndStore(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"vulnerabilities": stored,
		"total_results":   total,
	})
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}
