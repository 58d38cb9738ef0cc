// Package stats derives the dashboard counters from the catalog.
package stats

import (
	"time"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/ports"
)

// Aggregator computes dashboard counters on demand. The catalog is small
// enough that a linear scan per request is fine.
type Aggregator struct {
	catalog          ports.Catalog
	systemsProtected int

	now func() time.Time
}

// NewAggregator creates an aggregator. systemsProtected is a configured
// value surfaced as-is in the snapshot.
func NewAggregator(catalog ports.Catalog, systemsProtected int) *Aggregator {
	return &Aggregator{
		catalog:          catalog,
		systemsProtected: systemsProtected,
		now:              time.Now,
	}
}

// Snapshot returns the current dashboard counters. "Today" means since local
// midnight.
func (a *Aggregator) Snapshot() domain.DashboardStats {
	vulns := a.catalog.ListVulnerabilities()

	critical := 0
	for _, v := range vulns {
		if v.Severity == domain.SeverityCritical {
			critical++
		}
	}

	now := a.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today := 0
	for _, as := range a.catalog.LatestAssessments(0) {
		if !as.CreatedAt.Before(midnight) {
			today++
		}
	}

	return domain.DashboardStats{
		TotalVulnerabilities: len(vulns),
		CriticalCount:        critical,
		AssessmentsToday:     today,
		SystemsProtected:     a.systemsProtected,
	}
}
