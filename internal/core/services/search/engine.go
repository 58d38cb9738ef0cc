// Package search implements catalog filtering and ranking.
package search

import (
	"sort"
	"strings"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/ports"
	"github.com/moriartysec/moriarty/internal/telemetry"
)

// Engine filters and orders the catalog for dashboard queries.
type Engine struct {
	catalog ports.Catalog
}

// NewEngine creates a search engine over the given catalog.
func NewEngine(catalog ports.Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Search applies all provided filters conjunctively, ranks the matches and
// returns the requested page. Total always reflects the match count before
// pagination. Malformed criteria are rejected before any filtering runs.
func (e *Engine) Search(query domain.SearchQuery) (domain.SearchResult, error) {
	if err := query.Normalize(); err != nil {
		return domain.SearchResult{}, err
	}
	telemetry.SearchesTotal.Inc()

	var matched []domain.Vulnerability
	for _, v := range e.catalog.ListVulnerabilities() {
		if matches(v, query) {
			matched = append(matched, v)
		}
	}

	// Most dangerous first: severity rank, then CVSS. Recency is deliberately
	// not part of the ordering.
	sort.SliceStable(matched, func(i, j int) bool {
		ri, rj := matched[i].Severity.Rank(), matched[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return cvssOrZero(matched[i]) > cvssOrZero(matched[j])
	})

	total := len(matched)
	page := matched[min(query.Offset, total):min(query.Offset+query.Limit, total)]
	results := make([]domain.Vulnerability, len(page))
	copy(results, page)

	return domain.SearchResult{Vulnerabilities: results, Total: total}, nil
}

// Lookup resolves a single catalog record by ID.
func (e *Engine) Lookup(id string) (domain.Vulnerability, error) {
	return e.catalog.GetVulnerability(id)
}

func matches(v domain.Vulnerability, q domain.SearchQuery) bool {
	if q.CVEID != "" && !containsFold(v.CVEID, q.CVEID) {
		return false
	}
	if q.Severity != "" && v.Severity != q.Severity {
		return false
	}
	if q.Product != "" && !containsFold(v.Product, q.Product) {
		return false
	}
	if q.Vendor != "" && !containsFold(v.Vendor, q.Vendor) {
		return false
	}
	if q.CVSSMin != nil && (v.CVSSScore == nil || *v.CVSSScore < *q.CVSSMin) {
		return false
	}
	if q.CVSSMax != nil && (v.CVSSScore == nil || *v.CVSSScore > *q.CVSSMax) {
		return false
	}
	if q.HasExploit != nil && v.ExploitAvailable != *q.HasExploit {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func cvssOrZero(v domain.Vulnerability) float64 {
	if v.CVSSScore == nil {
		return 0
	}
	return *v.CVSSScore
}
