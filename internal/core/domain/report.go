package domain

import "time"

// ExportFormat selects how a stored report is rendered on download.
type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)

// ParseExportFormat normalizes a caller-supplied format string.
// Empty defaults to PDF; anything else is rejected.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatJSON, FormatCSV:
		return ExportFormat(s), nil
	default:
		return "", ErrInvalidInput
	}
}

// ReportContent bundles the composed narrative with snapshots of the records
// that were resolvable at assembly time.
type ReportContent struct {
	Narrative       string          `json:"narrative"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Assessments     []Assessment    `json:"assessments"`
	GeneratedBy     string          `json:"generated_by"`
}

// Report is a composed document aggregating vulnerabilities and assessments.
// Immutable once created; the ID lists keep the original (possibly stale)
// weak references, Content keeps what actually resolved.
type Report struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	VulnerabilityIDs []string      `json:"vulnerability_ids"`
	AssessmentIDs    []string      `json:"assessment_ids"`
	ExportFormat     ExportFormat  `json:"export_format"`
	Content          ReportContent `json:"content"`
	GeneratedAt      time.Time     `json:"generated_at"`
}
