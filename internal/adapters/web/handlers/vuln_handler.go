package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/services/assessment"
	"github.com/moriartysec/moriarty/internal/core/services/search"
)

// VulnerabilityHandler serves catalog search and vulnerability lookups
type VulnerabilityHandler struct {
	Engine      *search.Engine
	Assessments *assessment.Orchestrator
}

// NewVulnerabilityHandler creates a new VulnerabilityHandler
func NewVulnerabilityHandler(engine *search.Engine, orchestrator *assessment.Orchestrator) *VulnerabilityHandler {
	return &VulnerabilityHandler{
		Engine:      engine,
		Assessments: orchestrator,
	}
}

// HandleSearch runs a filtered catalog search.
// GET /api/vulnerabilities/search?cve_id=&severity=&product=&vendor=&cvss_min=&cvss_max=&has_exploit=&limit=&offset=
func (h *VulnerabilityHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query, err := searchQueryFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.Engine.Search(query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleGet returns a single vulnerability by catalog ID
func (h *VulnerabilityHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	vuln, err := h.Engine.Lookup(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, vuln)
}

// HandleAssessments returns all assessments recorded for a vulnerability
func (h *VulnerabilityHandler) HandleAssessments(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	// Resolve first so an unknown ID stays a 404, not an empty list.
	if _, err := h.Engine.Lookup(id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"assessments": h.Assessments.ForVulnerability(id),
	})
}

func searchQueryFromRequest(r *http.Request) (domain.SearchQuery, error) {
	q := r.URL.Query()

	query := domain.SearchQuery{
		CVEID:    q.Get("cve_id"),
		Severity: domain.Severity(q.Get("severity")),
		Product:  q.Get("product"),
		Vendor:   q.Get("vendor"),
		Limit:    queryInt(r, "limit", 0),
		Offset:   queryInt(r, "offset", 0),
	}

	if raw := q.Get("cvss_min"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.SearchQuery{}, domain.ErrInvalidInput
		}
		query.CVSSMin = &v
	}
	if raw := q.Get("cvss_max"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.SearchQuery{}, domain.ErrInvalidInput
		}
		query.CVSSMax = &v
	}
	if raw := q.Get("has_exploit"); raw != "" {
		v := raw == "true"
		query.HasExploit = &v
	}

	return query, nil
}
