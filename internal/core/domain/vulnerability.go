package domain

import "time"

// Severity is the qualitative rating attached to a vulnerability.
// Values outside the four known levels are tolerated (feeds are messy);
// they simply rank below Low when sorting.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// Rank returns the sort weight of a severity. Unrecognized values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Known reports whether s is one of the four documented levels.
func (s Severity) Known() bool {
	return s.Rank() > 0
}

// Vulnerability is a catalog entry for a single CVE.
// CVEID is the natural key: the catalog never holds two records with the
// same CVE identifier.
type Vulnerability struct {
	ID               string         `json:"id"`
	CVEID            string         `json:"cve_id"`
	Description      string         `json:"description"`
	Severity         Severity       `json:"severity"`
	CVSSScore        *float64       `json:"cvss_score,omitempty"` // 0.0-10.0, nil when the feed has no score
	Product          string         `json:"product,omitempty"`
	Vendor           string         `json:"vendor,omitempty"`
	PublishedDate    *time.Time     `json:"published_date,omitempty"`
	UpdatedDate      *time.Time     `json:"updated_date,omitempty"`
	References       []string       `json:"references,omitempty"`
	ExploitAvailable bool           `json:"exploit_available"`
	RawData          map[string]any `json:"raw_data,omitempty"` // opaque payload from the source feed
}

// Summary extracts the fields handed to the risk-analysis collaborator.
func (v Vulnerability) Summary() VulnerabilitySummary {
	return VulnerabilitySummary{
		CVEID:       v.CVEID,
		Description: v.Description,
		Severity:    v.Severity,
		CVSSScore:   v.CVSSScore,
		Product:     v.Product,
		Vendor:      v.Vendor,
	}
}

// VulnerabilitySummary is the condensed view sent to the external
// risk-analysis collaborator.
type VulnerabilitySummary struct {
	CVEID       string
	Description string
	Severity    Severity
	CVSSScore   *float64
	Product     string
	Vendor      string
}

// VulnerabilityInput carries the fields for creating a catalog entry.
// The store assigns the ID.
type VulnerabilityInput struct {
	CVEID            string
	Description      string
	Severity         Severity
	CVSSScore        *float64
	Product          string
	Vendor           string
	PublishedDate    *time.Time
	UpdatedDate      *time.Time
	References       []string
	ExploitAvailable bool
	RawData          map[string]any
}

// VulnerabilityPatch is a partial update. Nil fields are left untouched,
// which keeps "not provided" distinguishable from an explicit zero value.
type VulnerabilityPatch struct {
	Description      *string
	Severity         *Severity
	CVSSScore        *float64
	Product          *string
	Vendor           *string
	UpdatedDate      *time.Time
	References       []string
	ExploitAvailable *bool
	RawData          map[string]any
}
