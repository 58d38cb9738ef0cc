package reporting

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.Report {
	score := 9.8
	return &domain.Report{
		ID:           "rep-1",
		Title:        "Quarterly Exposure Review",
		ExportFormat: domain.FormatPDF,
		GeneratedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Content: domain.ReportContent{
			Narrative:   "# Executive Summary\n\nOne critical finding requires action.",
			GeneratedBy: "Moriarty AI",
			Vulnerabilities: []domain.Vulnerability{
				{
					ID:        "v1",
					CVEID:     "CVE-2021-44228",
					Severity:  domain.SeverityCritical,
					CVSSScore: &score,
					Product:   "log4j",
					Vendor:    "apache",
				},
				{
					ID:       "v2",
					CVEID:    "CVE-2024-0001",
					Severity: domain.SeverityLow,
				},
			},
			Assessments: []domain.Assessment{
				{ID: "a1", VulnerabilityID: "v1", Status: domain.AssessmentCompleted},
			},
		},
	}
}

func TestPDFExporter_Export(t *testing.T) {
	data, err := NewPDFExporter().Export(sampleReport())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "output should be a PDF document")
	assert.Greater(t, len(data), 1000)
}

func TestExporter_RenderCSV(t *testing.T) {
	data, contentType, err := NewExporter().Render(sampleReport(), domain.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "text/csv", contentType)
	body := string(data)
	assert.Contains(t, body, "cve_id,severity,cvss_score")
	assert.Contains(t, body, "CVE-2021-44228,Critical,9.8")
	assert.Contains(t, body, "CVE-2024-0001,Low,")
}

func TestExporter_RenderJSON(t *testing.T) {
	data, contentType, err := NewExporter().Render(sampleReport(), domain.FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)

	var decoded domain.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Quarterly Exposure Review", decoded.Title)
	assert.Len(t, decoded.Content.Vulnerabilities, 2)
}

func TestExporter_RenderUnknownFormat(t *testing.T) {
	_, _, err := NewExporter().Render(sampleReport(), "docx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
