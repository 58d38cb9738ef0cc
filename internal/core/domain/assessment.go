package domain

import "time"

// AssessmentStatus tracks the lifecycle of a risk-analysis run.
// An assessment is terminal once completed or failed.
type AssessmentStatus string

const (
	AssessmentPending   AssessmentStatus = "pending"
	AssessmentCompleted AssessmentStatus = "completed"
	AssessmentFailed    AssessmentStatus = "failed"
)

// AIAnalysis is the structured result returned by the risk-analysis
// collaborator, embedded in a completed assessment.
type AIAnalysis struct {
	RiskScore            int      `json:"risk_score"`      // 0-100
	Exploitability       int      `json:"exploitability"`  // 0-100
	ImpactSeverity       Severity `json:"impact_severity"` // Critical, High, Medium, Low
	Recommendation       string   `json:"recommendation"`
	RemediationAvailable bool     `json:"remediation_available"`
	ConfidenceScore      float64  `json:"confidence_score"` // 0-1
}

// Clamped returns a copy with every numeric field forced into its documented
// range and missing text fields replaced by safe defaults. The collaborator's
// output is untrusted; this runs on every analysis before it is persisted.
func (a AIAnalysis) Clamped() AIAnalysis {
	a.RiskScore = clampInt(a.RiskScore, 0, 100)
	a.Exploitability = clampInt(a.Exploitability, 0, 100)
	a.ConfidenceScore = clampFloat(a.ConfidenceScore, 0, 1)
	if !a.ImpactSeverity.Known() {
		a.ImpactSeverity = SeverityMedium
	}
	if a.Recommendation == "" {
		a.Recommendation = "Further analysis required."
	}
	return a
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Assessment is one risk-analysis run over a vulnerability. VulnerabilityID
// is a weak reference; the assessment never owns the record it points at.
type Assessment struct {
	ID              string           `json:"id"`
	VulnerabilityID string           `json:"vulnerability_id"`
	Status          AssessmentStatus `json:"status"`
	AIAnalysis      *AIAnalysis      `json:"ai_analysis,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// AssessmentPatch is a partial update applied by the orchestrator at each
// step boundary.
type AssessmentPatch struct {
	Status     *AssessmentStatus
	AIAnalysis *AIAnalysis
}
