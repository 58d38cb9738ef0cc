// Package report composes vulnerability and assessment snapshots into
// persisted reports.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/ports"
	"github.com/moriartysec/moriarty/internal/core/services/audit"
	"github.com/moriartysec/moriarty/internal/telemetry"
)

// GeneratedBy is the attribution tag stamped into every report.
const GeneratedBy = "Moriarty AI"

// Assembler resolves IDs against the catalog and asks the narrator for a
// summary body.
type Assembler struct {
	catalog  ports.Catalog
	narrator ports.ReportNarrator
	audit    *audit.Service
}

// NewAssembler wires an assembler. audit may be nil.
func NewAssembler(catalog ports.Catalog, narrator ports.ReportNarrator, auditSvc *audit.Service) *Assembler {
	return &Assembler{catalog: catalog, narrator: narrator, audit: auditSvc}
}

// Create builds and persists a report. IDs that no longer resolve are dropped
// silently: the report is best-effort over what still exists. A narrator
// failure degrades to a placeholder narrative instead of aborting.
func (a *Assembler) Create(ctx context.Context, title string, vulnIDs, assessmentIDs []string, format domain.ExportFormat) (domain.Report, error) {
	if strings.TrimSpace(title) == "" {
		return domain.Report{}, fmt.Errorf("%w: report title is required", domain.ErrInvalidInput)
	}
	if format == "" {
		format = domain.FormatPDF
	}

	vulns := make([]domain.Vulnerability, 0, len(vulnIDs))
	for _, id := range vulnIDs {
		if v, err := a.catalog.GetVulnerability(id); err == nil {
			vulns = append(vulns, v)
		}
	}
	assessments := make([]domain.Assessment, 0, len(assessmentIDs))
	for _, id := range assessmentIDs {
		if as, err := a.catalog.GetAssessment(id); err == nil {
			assessments = append(assessments, as)
		}
	}

	narrative, err := a.narrator.Summarize(ctx, vulns, assessments)
	if err != nil {
		slog.Warn("report narrative degraded to placeholder", "title", title, "error", err)
		narrative = placeholderNarrative(title, len(vulns), len(assessments))
	}

	report, err := a.catalog.SaveReport(domain.Report{
		Title:            title,
		VulnerabilityIDs: vulnIDs,
		AssessmentIDs:    assessmentIDs,
		ExportFormat:     format,
		Content: domain.ReportContent{
			Narrative:       narrative,
			Vulnerabilities: vulns,
			Assessments:     assessments,
			GeneratedBy:     GeneratedBy,
		},
	})
	if err != nil {
		return domain.Report{}, err
	}

	telemetry.ReportsTotal.WithLabelValues(string(format)).Inc()
	a.audit.Log(ctx, domain.ActionCreateReport, report.ID, fmt.Sprintf("%d vulnerabilities, %d assessments", len(vulns), len(assessments)))
	return report, nil
}

// Get returns a report by ID.
func (a *Assembler) Get(id string) (domain.Report, error) {
	return a.catalog.GetReport(id)
}

// List returns one page of reports, newest first, plus the total count.
func (a *Assembler) List(limit, offset int) ([]domain.Report, int) {
	return a.catalog.ListReports(limit, offset)
}

func placeholderNarrative(title string, vulnCount, assessmentCount int) string {
	if vulnCount == 0 && assessmentCount == 0 {
		return fmt.Sprintf("%s\n\nNo findings were available when this report was generated.", title)
	}
	return fmt.Sprintf(
		"%s\n\nAutomatic summarization was unavailable. This report covers %d vulnerabilities and %d assessments; see the attached records for details.",
		title, vulnCount, assessmentCount,
	)
}
