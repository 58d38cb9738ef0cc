package domain

import "fmt"

const (
	// DefaultSearchLimit is applied when a query omits the page size.
	DefaultSearchLimit = 20
	// MaxSearchLimit caps the page size.
	MaxSearchLimit = 100
)

// SearchQuery holds the filter criteria for a catalog search.
// Every field is optional; the zero value of a field means "no constraint".
type SearchQuery struct {
	CVEID      string   // case-insensitive substring
	Severity   Severity // exact match
	Product    string   // case-insensitive substring
	Vendor     string   // case-insensitive substring
	CVSSMin    *float64 // inclusive; records without a score are excluded when set
	CVSSMax    *float64
	HasExploit *bool
	Limit      int // 1-100, defaults to DefaultSearchLimit
	Offset     int // >= 0
}

// Normalize applies pagination defaults and rejects out-of-bounds criteria.
// It runs before any filtering so a malformed query never produces a partial
// scan.
func (q *SearchQuery) Normalize() error {
	if q.Limit == 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.Limit < 1 || q.Limit > MaxSearchLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxSearchLimit)
	}
	if q.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}
	if q.CVSSMin != nil && (*q.CVSSMin < 0 || *q.CVSSMin > 10) {
		return fmt.Errorf("%w: cvss_min must be within 0-10", ErrInvalidInput)
	}
	if q.CVSSMax != nil && (*q.CVSSMax < 0 || *q.CVSSMax > 10) {
		return fmt.Errorf("%w: cvss_max must be within 0-10", ErrInvalidInput)
	}
	if q.Severity != "" && !q.Severity.Known() {
		return fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, q.Severity)
	}
	return nil
}

// SearchResult pairs one page of matches with the pre-pagination total.
type SearchResult struct {
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Total           int             `json:"total"`
}
