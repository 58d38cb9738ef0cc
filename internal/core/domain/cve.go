package domain

import "time"

// CVEDetails is a record fetched from an external CVE registry. It mirrors
// Vulnerability minus the catalog identity.
type CVEDetails struct {
	CVEID            string         `json:"cve_id"`
	Description      string         `json:"description"`
	Severity         Severity       `json:"severity"`
	CVSSScore        *float64       `json:"cvss_score,omitempty"`
	Product          string         `json:"product,omitempty"`
	Vendor           string         `json:"vendor,omitempty"`
	PublishedDate    *time.Time     `json:"published_date,omitempty"`
	UpdatedDate      *time.Time     `json:"updated_date,omitempty"`
	References       []string       `json:"references,omitempty"`
	ExploitAvailable bool           `json:"exploit_available"`
	RawData          map[string]any `json:"raw_data,omitempty"`
}

// Input converts the fetched record into a catalog creation payload.
func (d CVEDetails) Input() VulnerabilityInput {
	return VulnerabilityInput{
		CVEID:            d.CVEID,
		Description:      d.Description,
		Severity:         d.Severity,
		CVSSScore:        d.CVSSScore,
		Product:          d.Product,
		Vendor:           d.Vendor,
		PublishedDate:    d.PublishedDate,
		UpdatedDate:      d.UpdatedDate,
		References:       d.References,
		ExploitAvailable: d.ExploitAvailable,
		RawData:          d.RawData,
	}
}

// CVESearchQuery is a keyword/severity/date-range query against the external
// registry.
type CVESearchQuery struct {
	Keyword        string
	Severity       Severity
	StartDate      *time.Time
	EndDate        *time.Time
	ResultsPerPage int // defaults to 20 at the client
	StartIndex     int
}
