// Package ingest pulls CVE records from the external registry into the
// catalog, deduplicating by CVE ID.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/ports"
	"github.com/moriartysec/moriarty/internal/core/services/audit"
	"github.com/moriartysec/moriarty/internal/telemetry"
)

// Ingestor resolves CVE IDs through three layers: the catalog itself, the
// local response cache, and finally the external registry.
type Ingestor struct {
	catalog  ports.Catalog
	provider ports.CVEProvider
	cache    ports.CVECache // optional
	audit    *audit.Service
	events   ports.EventPublisher // optional
}

// NewIngestor wires an ingestor. cache, audit and events may be nil.
func NewIngestor(catalog ports.Catalog, provider ports.CVEProvider, cache ports.CVECache, auditSvc *audit.Service, events ports.EventPublisher) *Ingestor {
	return &Ingestor{
		catalog:  catalog,
		provider: provider,
		cache:    cache,
		audit:    auditSvc,
		events:   events,
	}
}

// FetchByID returns the catalog record for cveID, ingesting it first if
// needed. Re-ingesting an existing CVE ID is a no-op returning the existing
// record; the catalog never grows a duplicate.
func (i *Ingestor) FetchByID(ctx context.Context, cveID string) (domain.Vulnerability, error) {
	if cveID == "" {
		return domain.Vulnerability{}, fmt.Errorf("%w: cve_id is required", domain.ErrInvalidInput)
	}

	if existing, ok := i.catalog.GetVulnerabilityByCVEID(cveID); ok {
		telemetry.CVEFetchesTotal.WithLabelValues("catalog").Inc()
		return existing, nil
	}

	details, source, err := i.lookup(ctx, cveID)
	if err != nil {
		return domain.Vulnerability{}, err
	}
	telemetry.CVEFetchesTotal.WithLabelValues(source).Inc()

	return i.store(ctx, *details)
}

// SearchAndStore queries the external registry and ingests every result that
// is not already in the catalog. It returns the catalog records (existing or
// fresh) and the registry's total match count.
func (i *Ingestor) SearchAndStore(ctx context.Context, query domain.CVESearchQuery) ([]domain.Vulnerability, int, error) {
	found, total, err := i.provider.SearchCVEs(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: registry search: %v", domain.ErrCollaborator, err)
	}

	stored := make([]domain.Vulnerability, 0, len(found))
	for _, details := range found {
		if existing, ok := i.catalog.GetVulnerabilityByCVEID(details.CVEID); ok {
			stored = append(stored, existing)
			continue
		}
		vuln, err := i.store(ctx, details)
		if err != nil {
			slog.Warn("skipping unstorable registry record", "cve", details.CVEID, "error", err)
			continue
		}
		stored = append(stored, vuln)
	}
	return stored, total, nil
}

// lookup consults the cache before the registry and backfills the cache on a
// registry hit. Cache errors only degrade to a registry call.
func (i *Ingestor) lookup(ctx context.Context, cveID string) (*domain.CVEDetails, string, error) {
	if i.cache != nil {
		cached, err := i.cache.Get(ctx, cveID)
		if err != nil {
			slog.Warn("cve cache read failed", "cve", cveID, "error", err)
		} else if cached != nil {
			return cached, "cache", nil
		}
	}

	details, err := i.provider.FetchCVE(ctx, cveID)
	if err != nil {
		// An unknown CVE ID stays a not-found; anything else is the
		// registry misbehaving.
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: registry fetch for %s: %v", domain.ErrCollaborator, cveID, err)
	}

	if i.cache != nil {
		if err := i.cache.Put(ctx, *details); err != nil {
			slog.Warn("cve cache write failed", "cve", cveID, "error", err)
		}
	}
	return details, "registry", nil
}

func (i *Ingestor) store(ctx context.Context, details domain.CVEDetails) (domain.Vulnerability, error) {
	vuln, err := i.catalog.CreateVulnerability(details.Input())
	if err != nil {
		return domain.Vulnerability{}, err
	}
	i.audit.Log(ctx, domain.ActionIngestCVE, vuln.CVEID, fmt.Sprintf("severity %s", vuln.Severity))
	if i.events != nil {
		i.events.Publish("vulnerability_ingested", vuln)
	}
	return vuln, nil
}
