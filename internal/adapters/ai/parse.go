package ai

import (
	"fmt"
	"strings"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/tidwall/gjson"
)

// parseAnalysis interprets the model's free-text reply leniently: fields
// missing from an otherwise valid JSON object fall back to safe defaults
// rather than failing the pipeline. Only a reply with no JSON object at all
// is an error.
func parseAnalysis(raw string) (domain.AIAnalysis, error) {
	body := stripFences(raw)
	if !gjson.Valid(body) {
		// Some models pad the object with prose; try the outermost braces.
		start, end := strings.Index(body, "{"), strings.LastIndex(body, "}")
		if start < 0 || end <= start {
			return domain.AIAnalysis{}, fmt.Errorf("analysis response is not JSON: %.80q", raw)
		}
		body = body[start : end+1]
		if !gjson.Valid(body) {
			return domain.AIAnalysis{}, fmt.Errorf("analysis response is not JSON: %.80q", raw)
		}
	}

	parsed := gjson.Parse(body)
	analysis := domain.AIAnalysis{
		RiskScore:            int(parsed.Get("riskScore").Int()),
		Exploitability:       int(parsed.Get("exploitability").Int()),
		ImpactSeverity:       domain.Severity(parsed.Get("impactSeverity").String()),
		Recommendation:       parsed.Get("recommendation").String(),
		RemediationAvailable: parsed.Get("remediationAvailable").Bool(),
		ConfidenceScore:      parsed.Get("confidenceScore").Float(),
	}
	if !parsed.Get("confidenceScore").Exists() {
		analysis.ConfidenceScore = 0.5
	}
	return analysis, nil
}

// stripFences removes a markdown code fence wrapper if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
