package domain_test

import (
	"testing"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestSeverityRank(t *testing.T) {
	tests := []struct {
		severity domain.Severity
		rank     int
	}{
		{domain.SeverityCritical, 4},
		{domain.SeverityHigh, 3},
		{domain.SeverityMedium, 2},
		{domain.SeverityLow, 1},
		{"Moderate", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.rank, tt.severity.Rank(), "severity %q", tt.severity)
	}
}

func TestAIAnalysisClamped(t *testing.T) {
	tests := []struct {
		name     string
		in       domain.AIAnalysis
		expected domain.AIAnalysis
	}{
		{
			name: "Values Above Range",
			in: domain.AIAnalysis{
				RiskScore:       150,
				Exploitability:  999,
				ImpactSeverity:  domain.SeverityHigh,
				Recommendation:  "Patch now",
				ConfidenceScore: 1.5,
			},
			expected: domain.AIAnalysis{
				RiskScore:       100,
				Exploitability:  100,
				ImpactSeverity:  domain.SeverityHigh,
				Recommendation:  "Patch now",
				ConfidenceScore: 1,
			},
		},
		{
			name: "Values Below Range",
			in: domain.AIAnalysis{
				RiskScore:       -20,
				Exploitability:  -1,
				ImpactSeverity:  domain.SeverityLow,
				Recommendation:  "Monitor",
				ConfidenceScore: -0.3,
			},
			expected: domain.AIAnalysis{
				RiskScore:       0,
				Exploitability:  0,
				ImpactSeverity:  domain.SeverityLow,
				Recommendation:  "Monitor",
				ConfidenceScore: 0,
			},
		},
		{
			name: "Missing Text Fields",
			in: domain.AIAnalysis{
				RiskScore:       50,
				Exploitability:  40,
				ImpactSeverity:  "catastrophic",
				ConfidenceScore: 0.7,
			},
			expected: domain.AIAnalysis{
				RiskScore:       50,
				Exploitability:  40,
				ImpactSeverity:  domain.SeverityMedium,
				Recommendation:  "Further analysis required.",
				ConfidenceScore: 0.7,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.in.Clamped())
		})
	}
}

func TestSearchQueryNormalize(t *testing.T) {
	t.Run("Defaults Limit", func(t *testing.T) {
		q := domain.SearchQuery{}
		assert.NoError(t, q.Normalize())
		assert.Equal(t, domain.DefaultSearchLimit, q.Limit)
	})

	t.Run("Rejects Out Of Bounds", func(t *testing.T) {
		bad := []domain.SearchQuery{
			{Limit: 101},
			{Limit: -1},
			{Offset: -1},
			{CVSSMin: ptr(-0.1)},
			{CVSSMax: ptr(10.5)},
			{Severity: "Moderate"},
		}
		for _, q := range bad {
			err := q.Normalize()
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		}
	})

	t.Run("Accepts Valid Criteria", func(t *testing.T) {
		q := domain.SearchQuery{
			Severity: domain.SeverityCritical,
			CVSSMin:  ptr(4.0),
			CVSSMax:  ptr(10.0),
			Limit:    100,
			Offset:   40,
		}
		assert.NoError(t, q.Normalize())
	})
}

func TestParseExportFormat(t *testing.T) {
	format, err := domain.ParseExportFormat("")
	assert.NoError(t, err)
	assert.Equal(t, domain.FormatPDF, format)

	for _, valid := range []string{"pdf", "json", "csv"} {
		format, err := domain.ParseExportFormat(valid)
		assert.NoError(t, err)
		assert.Equal(t, domain.ExportFormat(valid), format)
	}

	_, err = domain.ParseExportFormat("docx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func ptr(f float64) *float64 {
	return &f
}
