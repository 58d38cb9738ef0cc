package assessment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/services/assessment"
	"github.com/moriartysec/moriarty/internal/core/services/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct {
	analysis domain.AIAnalysis
	err      error
	sawCVE   string
}

func (s *stubAnalyzer) Assess(_ context.Context, summary domain.VulnerabilitySummary) (domain.AIAnalysis, error) {
	s.sawCVE = summary.CVEID
	return s.analysis, s.err
}

func seedVulnerability(t *testing.T, store *catalog.Store) domain.Vulnerability {
	t.Helper()
	vuln, err := store.CreateVulnerability(domain.VulnerabilityInput{
		CVEID:    "CVE-2024-31337",
		Severity: domain.SeverityHigh,
	})
	require.NoError(t, err)
	return vuln
}

func TestOrchestrator_CreateCompletes(t *testing.T) {
	store := catalog.NewStore()
	vuln := seedVulnerability(t, store)

	analyzer := &stubAnalyzer{analysis: domain.AIAnalysis{
		RiskScore:       85,
		Exploitability:  70,
		ImpactSeverity:  domain.SeverityHigh,
		Recommendation:  "Apply the vendor patch",
		ConfidenceScore: 0.9,
	}}
	orch := assessment.NewOrchestrator(store, analyzer, nil, nil)

	result, err := orch.Create(context.Background(), vuln.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.AssessmentCompleted, result.Status)
	assert.Equal(t, vuln.ID, result.VulnerabilityID)
	assert.Equal(t, "CVE-2024-31337", analyzer.sawCVE)
	require.NotNil(t, result.AIAnalysis)
	assert.Equal(t, 85, result.AIAnalysis.RiskScore)

	// The stored record matches what was returned.
	stored, err := orch.Get(result.ID)
	require.NoError(t, err)
	assert.Equal(t, result, stored)
}

func TestOrchestrator_ClampsAnalyzerOutput(t *testing.T) {
	store := catalog.NewStore()
	vuln := seedVulnerability(t, store)

	analyzer := &stubAnalyzer{analysis: domain.AIAnalysis{
		RiskScore:       150,
		Exploitability:  -10,
		ImpactSeverity:  "apocalyptic",
		ConfidenceScore: -0.3,
	}}
	orch := assessment.NewOrchestrator(store, analyzer, nil, nil)

	result, err := orch.Create(context.Background(), vuln.ID)
	require.NoError(t, err)
	require.NotNil(t, result.AIAnalysis)

	assert.Equal(t, 100, result.AIAnalysis.RiskScore)
	assert.Equal(t, 0, result.AIAnalysis.Exploitability)
	assert.Equal(t, float64(0), result.AIAnalysis.ConfidenceScore)
	assert.Equal(t, domain.SeverityMedium, result.AIAnalysis.ImpactSeverity)
	assert.Equal(t, "Further analysis required.", result.AIAnalysis.Recommendation)
}

func TestOrchestrator_UnknownVulnerability(t *testing.T) {
	orch := assessment.NewOrchestrator(catalog.NewStore(), &stubAnalyzer{}, nil, nil)

	_, err := orch.Create(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrchestrator_AnalyzerFailureIsDurable(t *testing.T) {
	store := catalog.NewStore()
	vuln := seedVulnerability(t, store)

	analyzer := &stubAnalyzer{err: errors.New("model unavailable")}
	orch := assessment.NewOrchestrator(store, analyzer, nil, nil)

	_, err := orch.Create(context.Background(), vuln.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCollaborator)

	// The pending record must have transitioned to failed, not vanished.
	failed := orch.ForVulnerability(vuln.ID)
	require.Len(t, failed, 1)
	assert.Equal(t, domain.AssessmentFailed, failed[0].Status)
	assert.Nil(t, failed[0].AIAnalysis)
}

func TestOrchestrator_FailureSurvivesCancelledContext(t *testing.T) {
	store := catalog.NewStore()
	vuln := seedVulnerability(t, store)

	analyzer := &stubAnalyzer{err: context.Canceled}
	orch := assessment.NewOrchestrator(store, analyzer, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orch.Create(ctx, vuln.ID)
	require.Error(t, err)

	failed := orch.ForVulnerability(vuln.ID)
	require.Len(t, failed, 1)
	assert.Equal(t, domain.AssessmentFailed, failed[0].Status)
}
