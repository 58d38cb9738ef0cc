// Package catalog implements the in-memory record store that owns every
// vulnerability, assessment, report and exploit-project instance.
package catalog

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/ports"
)

// Store keeps one map per entity type, keyed by generated UUID. The mutex is
// held only for the duration of a map operation, never across a collaborator
// call, so concurrent requests on different records do not interfere.
type Store struct {
	mu              sync.RWMutex
	vulnerabilities map[string]domain.Vulnerability
	assessments     map[string]domain.Assessment
	reports         map[string]domain.Report
	exploitProjects map[string]domain.ExploitProject

	now func() time.Time
}

var _ ports.Catalog = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		vulnerabilities: make(map[string]domain.Vulnerability),
		assessments:     make(map[string]domain.Assessment),
		reports:         make(map[string]domain.Report),
		exploitProjects: make(map[string]domain.ExploitProject),
		now:             time.Now,
	}
}

// GetVulnerability returns the record for id or ErrNotFound.
func (s *Store) GetVulnerability(id string) (domain.Vulnerability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vulnerabilities[id]
	if !ok {
		return domain.Vulnerability{}, fmt.Errorf("vulnerability %s: %w", id, domain.ErrNotFound)
	}
	return v, nil
}

// GetVulnerabilityByCVEID looks a record up by its natural key.
func (s *Store) GetVulnerabilityByCVEID(cveID string) (domain.Vulnerability, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.vulnerabilities {
		if v.CVEID == cveID {
			return v, true
		}
	}
	return domain.Vulnerability{}, false
}

// CreateVulnerability assigns a fresh identity and stores the record.
// Deduplication by CVE ID is the ingestion service's job; the store itself
// stays a plain keyed map.
func (s *Store) CreateVulnerability(in domain.VulnerabilityInput) (domain.Vulnerability, error) {
	if in.CVEID == "" {
		return domain.Vulnerability{}, fmt.Errorf("%w: cve_id is required", domain.ErrInvalidInput)
	}
	v := domain.Vulnerability{
		ID:               uuid.NewString(),
		CVEID:            in.CVEID,
		Description:      in.Description,
		Severity:         in.Severity,
		CVSSScore:        in.CVSSScore,
		Product:          in.Product,
		Vendor:           in.Vendor,
		PublishedDate:    in.PublishedDate,
		UpdatedDate:      in.UpdatedDate,
		References:       in.References,
		ExploitAvailable: in.ExploitAvailable,
		RawData:          in.RawData,
	}
	s.mu.Lock()
	s.vulnerabilities[v.ID] = v
	s.mu.Unlock()
	return v, nil
}

// UpdateVulnerability merges the provided fields into the existing record.
// Nil patch fields keep their prior values.
func (s *Store) UpdateVulnerability(id string, patch domain.VulnerabilityPatch) (domain.Vulnerability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vulnerabilities[id]
	if !ok {
		return domain.Vulnerability{}, fmt.Errorf("vulnerability %s: %w", id, domain.ErrNotFound)
	}
	if patch.Description != nil {
		v.Description = *patch.Description
	}
	if patch.Severity != nil {
		v.Severity = *patch.Severity
	}
	if patch.CVSSScore != nil {
		v.CVSSScore = patch.CVSSScore
	}
	if patch.Product != nil {
		v.Product = *patch.Product
	}
	if patch.Vendor != nil {
		v.Vendor = *patch.Vendor
	}
	if patch.UpdatedDate != nil {
		v.UpdatedDate = patch.UpdatedDate
	}
	if patch.References != nil {
		v.References = patch.References
	}
	if patch.ExploitAvailable != nil {
		v.ExploitAvailable = *patch.ExploitAvailable
	}
	if patch.RawData != nil {
		v.RawData = patch.RawData
	}
	s.vulnerabilities[id] = v
	return v, nil
}

// ListVulnerabilities returns a snapshot of the full catalog.
func (s *Store) ListVulnerabilities() []domain.Vulnerability {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Vulnerability, 0, len(s.vulnerabilities))
	for _, v := range s.vulnerabilities {
		out = append(out, v)
	}
	return out
}

// GetAssessment returns the record for id or ErrNotFound.
func (s *Store) GetAssessment(id string) (domain.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assessments[id]
	if !ok {
		return domain.Assessment{}, fmt.Errorf("assessment %s: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

// GetAssessmentsByVulnerability returns every assessment referencing the
// given vulnerability ID.
func (s *Store) GetAssessmentsByVulnerability(vulnerabilityID string) []domain.Assessment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Assessment
	for _, a := range s.assessments {
		if a.VulnerabilityID == vulnerabilityID {
			out = append(out, a)
		}
	}
	return out
}

// CreateAssessment stores a fresh pending assessment. Existence of the
// referenced vulnerability is the orchestrator's check.
func (s *Store) CreateAssessment(vulnerabilityID string) (domain.Assessment, error) {
	a := domain.Assessment{
		ID:              uuid.NewString(),
		VulnerabilityID: vulnerabilityID,
		Status:          domain.AssessmentPending,
		CreatedAt:       s.now(),
	}
	s.mu.Lock()
	s.assessments[a.ID] = a
	s.mu.Unlock()
	return a, nil
}

// UpdateAssessment applies a partial update.
func (s *Store) UpdateAssessment(id string, patch domain.AssessmentPatch) (domain.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assessments[id]
	if !ok {
		return domain.Assessment{}, fmt.Errorf("assessment %s: %w", id, domain.ErrNotFound)
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.AIAnalysis != nil {
		a.AIAnalysis = patch.AIAnalysis
	}
	s.assessments[id] = a
	return a, nil
}

// LatestAssessments returns up to limit assessments, newest first.
func (s *Store) LatestAssessments(limit int) []domain.Assessment {
	s.mu.RLock()
	out := make([]domain.Assessment, 0, len(s.assessments))
	for _, a := range s.assessments {
		out = append(out, a)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// GetReport returns the record for id or ErrNotFound.
func (s *Store) GetReport(id string) (domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return domain.Report{}, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

// SaveReport assigns identity and generation time, then stores the report.
func (s *Store) SaveReport(report domain.Report) (domain.Report, error) {
	report.ID = uuid.NewString()
	report.GeneratedAt = s.now()
	s.mu.Lock()
	s.reports[report.ID] = report
	s.mu.Unlock()
	return report, nil
}

// ListReports returns one page of reports, newest first, plus the total count.
func (s *Store) ListReports(limit, offset int) ([]domain.Report, int) {
	s.mu.RLock()
	all := make([]domain.Report, 0, len(s.reports))
	for _, r := range s.reports {
		all = append(all, r)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].GeneratedAt.After(all[j].GeneratedAt)
	})
	return paginate(all, limit, offset), len(all)
}

// GetExploitProject returns the record for id or ErrNotFound.
func (s *Store) GetExploitProject(id string) (domain.ExploitProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.exploitProjects[id]
	if !ok {
		return domain.ExploitProject{}, fmt.Errorf("exploit project %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// CreateExploitProject stores a new project. Creation without the ethical
// approval flag is refused before anything is written.
func (s *Store) CreateExploitProject(in domain.ExploitProjectInput) (domain.ExploitProject, error) {
	if !in.EthicalApproval {
		return domain.ExploitProject{}, fmt.Errorf("%w: ethical approval is required", domain.ErrInvalidInput)
	}
	if in.Name == "" || in.VulnerabilityType == "" || in.TargetPlatform == "" {
		return domain.ExploitProject{}, fmt.Errorf("%w: name, vulnerability_type and target_platform are required", domain.ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = domain.ExploitDraft
	}
	now := s.now()
	p := domain.ExploitProject{
		ID:                uuid.NewString(),
		Name:              in.Name,
		VulnerabilityType: in.VulnerabilityType,
		TargetPlatform:    in.TargetPlatform,
		Code:              in.Code,
		Status:            status,
		Documentation:     in.Documentation,
		AuthorizedTargets: in.AuthorizedTargets,
		TestingResults:    in.TestingResults,
		EthicalApproval:   in.EthicalApproval,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.mu.Lock()
	s.exploitProjects[p.ID] = p
	s.mu.Unlock()
	return p, nil
}

// UpdateExploitProject merges the provided fields and bumps UpdatedAt.
func (s *Store) UpdateExploitProject(id string, patch domain.ExploitProjectPatch) (domain.ExploitProject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.exploitProjects[id]
	if !ok {
		return domain.ExploitProject{}, fmt.Errorf("exploit project %s: %w", id, domain.ErrNotFound)
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.VulnerabilityType != nil {
		p.VulnerabilityType = *patch.VulnerabilityType
	}
	if patch.TargetPlatform != nil {
		p.TargetPlatform = *patch.TargetPlatform
	}
	if patch.Code != nil {
		p.Code = *patch.Code
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Documentation != nil {
		p.Documentation = *patch.Documentation
	}
	if patch.AuthorizedTargets != nil {
		p.AuthorizedTargets = patch.AuthorizedTargets
	}
	if patch.TestingResults != nil {
		p.TestingResults = patch.TestingResults
	}
	p.UpdatedAt = s.now()
	s.exploitProjects[id] = p
	return p, nil
}

// ListExploitProjects returns one page of projects, most recently updated
// first, plus the total count.
func (s *Store) ListExploitProjects(limit, offset int) ([]domain.ExploitProject, int) {
	s.mu.RLock()
	all := make([]domain.ExploitProject, 0, len(s.exploitProjects))
	for _, p := range s.exploitProjects {
		all = append(all, p)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})
	return paginate(all, limit, offset), len(all)
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
