// Package cve provides the NVD registry client and a local SQLite response
// cache in front of it.
package cve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/ports"
	"github.com/tidwall/gjson"
)

const (
	nvdBaseURL = "https://services.nvd.nist.gov/rest/json/cves/2.0"

	// minRequestInterval keeps us inside NVD's unauthenticated rate limits.
	minRequestInterval = 600 * time.Millisecond
)

// Client queries the NIST NVD 2.0 API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu          sync.Mutex
	lastRequest time.Time
}

var _ ports.CVEProvider = (*Client)(nil)

// NewClient creates an NVD client. apiKey may be empty; authenticated
// requests get higher rate limits.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: nvdBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point at a stub server.
func NewClientWithBaseURL(baseURL, apiKey string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// FetchCVE retrieves a single record by CVE ID. A registry response without
// a matching record yields ErrNotFound.
func (c *Client) FetchCVE(ctx context.Context, cveID string) (*domain.CVEDetails, error) {
	params := url.Values{}
	params.Set("cveId", cveID)

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	entries := gjson.GetBytes(body, "vulnerabilities")
	if !entries.Exists() || len(entries.Array()) == 0 {
		return nil, fmt.Errorf("CVE %s: %w", cveID, domain.ErrNotFound)
	}

	details := parseCVE(entries.Array()[0].Get("cve"))
	return &details, nil
}

// SearchCVEs runs a keyword/severity/date-range query and returns one page of
// records plus the registry's total match count.
func (c *Client) SearchCVEs(ctx context.Context, query domain.CVESearchQuery) ([]domain.CVEDetails, int, error) {
	params := url.Values{}
	if query.Keyword != "" {
		params.Set("keywordSearch", query.Keyword)
	}
	if query.Severity != "" {
		params.Set("cvssV3Severity", strings.ToUpper(string(query.Severity)))
	}
	if query.StartDate != nil {
		params.Set("pubStartDate", query.StartDate.Format("2006-01-02")+"T00:00:00.000")
	}
	if query.EndDate != nil {
		params.Set("pubEndDate", query.EndDate.Format("2006-01-02")+"T23:59:59.999")
	}
	perPage := query.ResultsPerPage
	if perPage <= 0 {
		perPage = 20
	}
	params.Set("resultsPerPage", strconv.Itoa(perPage))
	params.Set("startIndex", strconv.Itoa(query.StartIndex))

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	var results []domain.CVEDetails
	for _, entry := range gjson.GetBytes(body, "vulnerabilities").Array() {
		results = append(results, parseCVE(entry.Get("cve")))
	}
	total := int(gjson.GetBytes(body, "totalResults").Int())
	return results, total, nil
}

// get performs a rate-limited request against the registry.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	c.mu.Lock()
	if elapsed := time.Since(c.lastRequest); elapsed < minRequestInterval {
		time.Sleep(minRequestInterval - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("apiKey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// parseCVE extracts a CVEDetails from one NVD "cve" object. The payload is
// treated as untrusted: every field falls back to a sane zero value.
func parseCVE(cve gjson.Result) domain.CVEDetails {
	details := domain.CVEDetails{
		CVEID:       cve.Get("id").String(),
		Description: "No description available",
	}

	// English description
	for _, d := range cve.Get("descriptions").Array() {
		if d.Get("lang").String() == "en" {
			details.Description = d.Get("value").String()
			break
		}
	}

	details.CVSSScore, details.Severity = parseMetrics(cve.Get("metrics"))

	for _, ref := range cve.Get("references").Array() {
		if u := ref.Get("url").String(); u != "" {
			details.References = append(details.References, u)
		}
	}

	details.Vendor, details.Product = parseCPE(cve)
	details.PublishedDate = parseNVDTime(cve.Get("published").String())
	details.UpdatedDate = parseNVDTime(cve.Get("lastModified").String())

	// Keep the full source object around for later inspection.
	var raw map[string]any
	if err := json.Unmarshal([]byte(cve.Raw), &raw); err == nil {
		details.RawData = raw
	}
	return details
}

// parseMetrics picks the best available CVSS metric: v3.1, then v3.0, then
// v2 with a score-based severity mapping.
func parseMetrics(metrics gjson.Result) (*float64, domain.Severity) {
	if m := metrics.Get("cvssMetricV31.0.cvssData"); m.Exists() {
		score := m.Get("baseScore").Float()
		return &score, normalizeSeverity(m.Get("baseSeverity").String())
	}
	if m := metrics.Get("cvssMetricV30.0.cvssData"); m.Exists() {
		score := m.Get("baseScore").Float()
		return &score, normalizeSeverity(m.Get("baseSeverity").String())
	}
	if m := metrics.Get("cvssMetricV2.0.cvssData"); m.Exists() {
		score := m.Get("baseScore").Float()
		switch {
		case score >= 9.0:
			return &score, domain.SeverityCritical
		case score >= 7.0:
			return &score, domain.SeverityHigh
		case score >= 4.0:
			return &score, domain.SeverityMedium
		default:
			return &score, domain.SeverityLow
		}
	}
	return nil, "Unknown"
}

// parseCPE pulls vendor and product out of the first CPE match criteria,
// e.g. "cpe:2.3:a:apache:log4j:...".
func parseCPE(cve gjson.Result) (vendor, product string) {
	criteria := cve.Get("configurations.0.nodes.0.cpeMatch.0.criteria")
	if !criteria.Exists() {
		// Some feeds flatten configurations into an object.
		criteria = cve.Get("configurations.nodes.0.cpeMatch.0.criteria")
	}
	parts := strings.Split(criteria.String(), ":")
	if len(parts) >= 5 {
		return parts[3], parts[4]
	}
	return "", ""
}

func normalizeSeverity(s string) domain.Severity {
	if s == "" {
		return "Unknown"
	}
	return domain.Severity(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
}

func parseNVDTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05.000", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
