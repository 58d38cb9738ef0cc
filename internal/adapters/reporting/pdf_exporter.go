// Package reporting renders stored reports into their export formats.
package reporting

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/moriartysec/moriarty/internal/core/domain"
)

// PDFExporter renders reports to PDF
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Export generates a PDF document from a stored report.
func (e *PDFExporter) Export(report *domain.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, report)
	e.addSeverityBreakdown(pdf, report)
	e.addFindings(pdf, report)
	e.addNarrative(pdf, report)
	e.addFooter(pdf, report)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, report *domain.Report) {
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102) // Dark blue
	pdf.CellFormat(0, 14, report.Title, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated by: %s", report.Content.GeneratedBy), "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func (e *PDFExporter) addSeverityBreakdown(pdf *gofpdf.Fpdf, report *domain.Report) {
	counts := map[domain.Severity]int{}
	for _, v := range report.Content.Vulnerabilities {
		counts[v.Severity]++
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Findings Overview", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	order := []domain.Severity{domain.SeverityCritical, domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow}
	for _, sev := range order {
		r, g, b := severityColor(sev)
		pdf.SetFillColor(r, g, b)
		pdf.Rect(20, pdf.GetY()+1, 4, 4, "F")
		pdf.SetX(27)
		pdf.CellFormat(0, 7, fmt.Sprintf("%s: %d", sev, counts[sev]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (e *PDFExporter) addFindings(pdf *gofpdf.Fpdf, report *domain.Report) {
	if len(report.Content.Vulnerabilities) == 0 {
		return
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Vulnerabilities", "", 1, "L", false, 0, "")

	// Table header
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(45, 8, "CVE", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Severity", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "CVSS", "1", 0, "L", true, 0, "")
	pdf.CellFormat(45, 8, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, "Vendor", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, v := range report.Content.Vulnerabilities {
		cvss := "-"
		if v.CVSSScore != nil {
			cvss = fmt.Sprintf("%.1f", *v.CVSSScore)
		}
		pdf.CellFormat(45, 7, v.CVEID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, string(v.Severity), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, cvss, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 7, truncate(v.Product, 24), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, truncate(v.Vendor, 18), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (e *PDFExporter) addNarrative(pdf *gofpdf.Fpdf, report *domain.Report) {
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Analysis", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(40, 40, 40)
	// The narrative is markdown; render it as plain paragraphs.
	for _, line := range strings.Split(report.Content.Narrative, "\n") {
		pdf.MultiCell(0, 5, strings.TrimLeft(line, "#*- "), "", "L", false)
	}
}

func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf, report *domain.Report) {
	pdf.SetY(-20)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 6, fmt.Sprintf("Report %s | %d vulnerabilities, %d assessments",
		report.ID, len(report.Content.Vulnerabilities), len(report.Content.Assessments)), "", 1, "C", false, 0, "")
}

func severityColor(sev domain.Severity) (r, g, b int) {
	switch sev {
	case domain.SeverityCritical:
		return 220, 53, 69 // Red
	case domain.SeverityHigh:
		return 255, 149, 0 // Orange
	case domain.SeverityMedium:
		return 255, 204, 0 // Yellow
	default:
		return 52, 199, 89 // Green
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
