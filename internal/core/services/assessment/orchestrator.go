// Package assessment drives the create-assessment pipeline: persist a
// pending record, call the external risk analyzer, persist the outcome.
package assessment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/ports"
	"github.com/moriartysec/moriarty/internal/core/services/audit"
	"github.com/moriartysec/moriarty/internal/telemetry"
)

// Orchestrator owns the assessment lifecycle. The analyzer call happens
// outside any store lock; the store is only touched at step boundaries.
type Orchestrator struct {
	catalog  ports.Catalog
	analyzer ports.RiskAnalyzer
	audit    *audit.Service
	events   ports.EventPublisher
}

// NewOrchestrator wires an orchestrator. audit and events may be nil.
func NewOrchestrator(catalog ports.Catalog, analyzer ports.RiskAnalyzer, auditSvc *audit.Service, events ports.EventPublisher) *Orchestrator {
	return &Orchestrator{
		catalog:  catalog,
		analyzer: analyzer,
		audit:    auditSvc,
		events:   events,
	}
}

// Create runs the full pipeline for one vulnerability. On analyzer failure
// (including context cancellation) the assessment is durably marked failed
// before the error is returned, so later reads never see it stuck pending.
func (o *Orchestrator) Create(ctx context.Context, vulnerabilityID string) (domain.Assessment, error) {
	vuln, err := o.catalog.GetVulnerability(vulnerabilityID)
	if err != nil {
		return domain.Assessment{}, err
	}

	pending, err := o.catalog.CreateAssessment(vuln.ID)
	if err != nil {
		return domain.Assessment{}, err
	}

	analysis, err := o.analyzer.Assess(ctx, vuln.Summary())
	if err != nil {
		o.markFailed(pending.ID, vuln.CVEID)
		return domain.Assessment{}, fmt.Errorf("%w: risk analysis for %s: %v", domain.ErrCollaborator, vuln.CVEID, err)
	}

	clamped := analysis.Clamped()
	status := domain.AssessmentCompleted
	completed, err := o.catalog.UpdateAssessment(pending.ID, domain.AssessmentPatch{
		Status:     &status,
		AIAnalysis: &clamped,
	})
	if err != nil {
		return domain.Assessment{}, err
	}

	telemetry.AssessmentsTotal.WithLabelValues(string(domain.AssessmentCompleted)).Inc()
	o.audit.Log(ctx, domain.ActionCreateAssessment, completed.ID, fmt.Sprintf("assessed %s, risk %d", vuln.CVEID, clamped.RiskScore))
	if o.events != nil {
		o.events.Publish("assessment_completed", completed)
	}
	return completed, nil
}

// markFailed records the terminal failed state. The update uses a fresh
// context detached from the caller's: the transition must land even when the
// original request was cancelled.
func (o *Orchestrator) markFailed(assessmentID, cveID string) {
	status := domain.AssessmentFailed
	if _, err := o.catalog.UpdateAssessment(assessmentID, domain.AssessmentPatch{Status: &status}); err != nil {
		slog.Error("could not mark assessment failed", "assessment", assessmentID, "error", err)
	}
	telemetry.AssessmentsTotal.WithLabelValues(string(domain.AssessmentFailed)).Inc()
	o.audit.Log(context.Background(), domain.ActionCreateAssessment, assessmentID, fmt.Sprintf("analysis of %s failed", cveID))
}

// Get returns an assessment by ID.
func (o *Orchestrator) Get(id string) (domain.Assessment, error) {
	return o.catalog.GetAssessment(id)
}

// ForVulnerability returns all assessments referencing a vulnerability.
func (o *Orchestrator) ForVulnerability(vulnerabilityID string) []domain.Assessment {
	return o.catalog.GetAssessmentsByVulnerability(vulnerabilityID)
}

// Latest returns up to limit assessments, newest first.
func (o *Orchestrator) Latest(limit int) []domain.Assessment {
	return o.catalog.LatestAssessments(limit)
}
