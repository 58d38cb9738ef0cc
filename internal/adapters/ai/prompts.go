package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/moriartysec/moriarty/internal/core/domain"
)

const analystSystemPrompt = "You are an expert cybersecurity analysis engine specializing in vulnerability " +
	"risk assessment. Provide accurate, actionable security analysis based on industry standards " +
	"and threat intelligence."

const reporterSystemPrompt = "You are a cybersecurity reporting engine generating professional vulnerability " +
	"assessment reports for security teams and executives."

func assessPrompt(s domain.VulnerabilitySummary) string {
	var b strings.Builder
	b.WriteString("Analyze this cybersecurity vulnerability and provide a comprehensive risk assessment:\n\n")
	fmt.Fprintf(&b, "CVE ID: %s\n", s.CVEID)
	fmt.Fprintf(&b, "Description: %s\n", s.Description)
	fmt.Fprintf(&b, "Severity: %s\n", s.Severity)
	fmt.Fprintf(&b, "CVSS Score: %s\n", orNA(formatScore(s.CVSSScore)))
	fmt.Fprintf(&b, "Product: %s\n", orNA(s.Product))
	fmt.Fprintf(&b, "Vendor: %s\n", orNA(s.Vendor))
	b.WriteString(`
Consider active exploitation in the wild, ease of exploitation, impact on
confidentiality/integrity/availability, availability of patches or
mitigations, attack vector complexity and authentication requirements.

Respond with JSON in this exact format:
{
  "riskScore": number (0-100),
  "exploitability": number (0-100),
  "impactSeverity": "Critical" | "High" | "Medium" | "Low",
  "recommendation": "detailed recommendation text",
  "remediationAvailable": boolean,
  "confidenceScore": number (0-1)
}`)
	return b.String()
}

func summarizePrompt(vulns []domain.Vulnerability, assessments []domain.Assessment) string {
	vulnJSON, _ := json.MarshalIndent(vulns, "", "  ")
	assessJSON, _ := json.MarshalIndent(assessments, "", "  ")

	var b strings.Builder
	b.WriteString("Generate a comprehensive cybersecurity vulnerability assessment report based on the following data:\n\n")
	fmt.Fprintf(&b, "Vulnerabilities: %s\n\n", vulnJSON)
	fmt.Fprintf(&b, "Assessments: %s\n\n", assessJSON)
	b.WriteString(`Create a professional security report that includes:
1. Executive Summary
2. Risk Overview and Statistics
3. Critical Findings
4. Detailed Vulnerability Analysis
5. Remediation Recommendations
6. Conclusion and Next Steps

Format as markdown for easy conversion to PDF.`)
	return b.String()
}

func formatScore(score *float64) string {
	if score == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *score)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
