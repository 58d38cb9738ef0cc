package ports

import (
	"context"

	"github.com/moriartysec/moriarty/internal/core/domain"
)

// Catalog is the contract of the in-memory record store. All other
// components borrow records by ID through it and never mutate a record
// outside its update operations.
type Catalog interface {
	// Vulnerabilities
	GetVulnerability(id string) (domain.Vulnerability, error)
	GetVulnerabilityByCVEID(cveID string) (domain.Vulnerability, bool)
	CreateVulnerability(in domain.VulnerabilityInput) (domain.Vulnerability, error)
	UpdateVulnerability(id string, patch domain.VulnerabilityPatch) (domain.Vulnerability, error)
	ListVulnerabilities() []domain.Vulnerability

	// Assessments
	GetAssessment(id string) (domain.Assessment, error)
	GetAssessmentsByVulnerability(vulnerabilityID string) []domain.Assessment
	CreateAssessment(vulnerabilityID string) (domain.Assessment, error)
	UpdateAssessment(id string, patch domain.AssessmentPatch) (domain.Assessment, error)
	LatestAssessments(limit int) []domain.Assessment

	// Reports
	GetReport(id string) (domain.Report, error)
	SaveReport(report domain.Report) (domain.Report, error)
	ListReports(limit, offset int) ([]domain.Report, int)

	// Exploit projects
	GetExploitProject(id string) (domain.ExploitProject, error)
	CreateExploitProject(in domain.ExploitProjectInput) (domain.ExploitProject, error)
	UpdateExploitProject(id string, patch domain.ExploitProjectPatch) (domain.ExploitProject, error)
	ListExploitProjects(limit, offset int) ([]domain.ExploitProject, int)
}

// RiskAnalyzer is the external risk-analysis collaborator. The returned
// analysis is untrusted and must be clamped by the caller.
type RiskAnalyzer interface {
	Assess(ctx context.Context, summary domain.VulnerabilitySummary) (domain.AIAnalysis, error)
}

// ReportNarrator is the external summarization collaborator.
type ReportNarrator interface {
	Summarize(ctx context.Context, vulns []domain.Vulnerability, assessments []domain.Assessment) (string, error)
}

// CVEProvider is the external CVE registry.
type CVEProvider interface {
	FetchCVE(ctx context.Context, cveID string) (*domain.CVEDetails, error)
	SearchCVEs(ctx context.Context, query domain.CVESearchQuery) ([]domain.CVEDetails, int, error)
}

// CVECache is a local, durable response cache in front of the registry.
// Get returns (nil, nil) on a miss.
type CVECache interface {
	Get(ctx context.Context, cveID string) (*domain.CVEDetails, error)
	Put(ctx context.Context, details domain.CVEDetails) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// AuditRepository persists the audit trail.
type AuditRepository interface {
	Save(ctx context.Context, entry domain.AuditEntry) error
	List(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

// EventPublisher pushes dashboard events to connected clients. Implementations
// must never block the caller.
type EventPublisher interface {
	Publish(event string, payload any)
}
