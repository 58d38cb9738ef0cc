package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/ports"
	"github.com/moriartysec/moriarty/internal/core/services/audit"
)

// ExploitHandler serves exploit project tracking. Creation without an
// explicit ethical approval flag is refused by the catalog.
type ExploitHandler struct {
	Catalog ports.Catalog
	Audit   *audit.Service
}

// NewExploitHandler creates a new ExploitHandler
func NewExploitHandler(catalog ports.Catalog, auditSvc *audit.Service) *ExploitHandler {
	return &ExploitHandler{
		Catalog: catalog,
		Audit:   auditSvc,
	}
}

type exploitProjectRequest struct {
	Name              *string                      `json:"name"`
	VulnerabilityType *string                      `json:"vulnerability_type"`
	TargetPlatform    *string                      `json:"target_platform"`
	Code              *string                      `json:"code"`
	Status            *domain.ExploitProjectStatus `json:"status"`
	Documentation     *string                      `json:"documentation"`
	AuthorizedTargets []string                     `json:"authorized_targets"`
	TestingResults    map[string]any               `json:"testing_results"`
	EthicalApproval   bool                         `json:"ethical_approval"`
}

// HandleCreate registers a new exploit project.
// POST /api/exploit-projects
func (h *ExploitHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var req exploitProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	in := domain.ExploitProjectInput{
		Name:              deref(req.Name),
		VulnerabilityType: deref(req.VulnerabilityType),
		TargetPlatform:    deref(req.TargetPlatform),
		Code:              deref(req.Code),
		Documentation:     deref(req.Documentation),
		AuthorizedTargets: req.AuthorizedTargets,
		TestingResults:    req.TestingResults,
		EthicalApproval:   req.EthicalApproval,
	}
	if req.Status != nil {
		in.Status = *req.Status
	}

	created, err := h.Catalog.CreateExploitProject(in)
	if err != nil {
		writeError(w, err)
		return
	}

	h.Audit.Log(r.Context(), domain.ActionCreateExploitProject, created.ID, created.Name)
	writeJSON(w, http.StatusCreated, created)
}

// HandleGet returns an exploit project by ID
func (h *ExploitHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	project, err := h.Catalog.GetExploitProject(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// HandleUpdate applies a partial update to an exploit project.
// PATCH /api/exploit-projects/{id}
func (h *ExploitHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	var req exploitProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.Catalog.UpdateExploitProject(id, domain.ExploitProjectPatch{
		Name:              req.Name,
		VulnerabilityType: req.VulnerabilityType,
		TargetPlatform:    req.TargetPlatform,
		Code:              req.Code,
		Status:            req.Status,
		Documentation:     req.Documentation,
		AuthorizedTargets: req.AuthorizedTargets,
		TestingResults:    req.TestingResults,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.Audit.Log(r.Context(), domain.ActionUpdateExploitProject, updated.ID, updated.Name)
	writeJSON(w, http.StatusOK, updated)
}

// HandleList returns exploit projects, newest first.
// GET /api/exploit-projects?limit=&offset=
func (h *ExploitHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	if limit < 0 || offset < 0 {
		http.Error(w, "limit and offset must not be negative", http.StatusBadRequest)
		return
	}

	projects, total := h.Catalog.ListExploitProjects(limit, offset)
	writeJSON(w, http.StatusOK, map[string]any{
		"projects": projects,
		"total":    total,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
