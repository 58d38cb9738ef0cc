package reporting

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/moriartysec/moriarty/internal/core/domain"
)

// Exporter renders a report into one of the supported export formats.
type Exporter struct {
	pdf *PDFExporter
}

func NewExporter() *Exporter {
	return &Exporter{pdf: NewPDFExporter()}
}

// Render returns the report bytes and the matching content type.
func (e *Exporter) Render(report *domain.Report, format domain.ExportFormat) ([]byte, string, error) {
	switch format {
	case domain.FormatPDF:
		data, err := e.pdf.Export(report)
		return data, "application/pdf", err
	case domain.FormatCSV:
		data, err := exportCSV(report)
		return data, "text/csv", err
	case domain.FormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal report: %w", err)
		}
		return data, "application/json", nil
	default:
		return nil, "", fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, format)
	}
}

func exportCSV(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"cve_id", "severity", "cvss_score", "product", "vendor", "exploit_available", "description"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, v := range report.Content.Vulnerabilities {
		cvss := ""
		if v.CVSSScore != nil {
			cvss = fmt.Sprintf("%.1f", *v.CVSSScore)
		}
		row := []string{
			v.CVEID,
			string(v.Severity),
			cvss,
			v.Product,
			v.Vendor,
			fmt.Sprintf("%t", v.ExploitAvailable),
			v.Description,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
