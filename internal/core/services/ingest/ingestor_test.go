package ingest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/services/catalog"
	"github.com/moriartysec/moriarty/internal/core/services/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	records map[string]domain.CVEDetails
	search  []domain.CVEDetails
	total   int
	err     error
	fetches int
}

func (s *stubProvider) FetchCVE(_ context.Context, cveID string) (*domain.CVEDetails, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	d, ok := s.records[cveID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (s *stubProvider) SearchCVEs(_ context.Context, _ domain.CVESearchQuery) ([]domain.CVEDetails, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.search, s.total, nil
}

type memCache struct {
	entries map[string]domain.CVEDetails
	puts    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]domain.CVEDetails)}
}

func (c *memCache) Get(_ context.Context, cveID string) (*domain.CVEDetails, error) {
	d, ok := c.entries[cveID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (c *memCache) Put(_ context.Context, details domain.CVEDetails) error {
	c.puts++
	c.entries[details.CVEID] = details
	return nil
}

func (c *memCache) Count(_ context.Context) (int, error) { return len(c.entries), nil }
func (c *memCache) Close() error                         { return nil }

func detail(cveID string, sev domain.Severity) domain.CVEDetails {
	return domain.CVEDetails{
		CVEID:       cveID,
		Description: "test record",
		Severity:    sev,
	}
}

func TestIngestor_FetchByIDIsIdempotent(t *testing.T) {
	store := catalog.NewStore()
	provider := &stubProvider{records: map[string]domain.CVEDetails{
		"CVE-2024-1000": detail("CVE-2024-1000", domain.SeverityHigh),
	}}
	ing := ingest.NewIngestor(store, provider, nil, nil, nil)

	first, err := ing.FetchByID(context.Background(), "CVE-2024-1000")
	require.NoError(t, err)

	second, err := ing.FetchByID(context.Background(), "CVE-2024-1000")
	require.NoError(t, err)

	// Same record, same identity; the catalog never grows a duplicate.
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.ListVulnerabilities(), 1)
	assert.Equal(t, 1, provider.fetches)
}

func TestIngestor_CacheShortCircuitsRegistry(t *testing.T) {
	store := catalog.NewStore()
	cache := newMemCache()
	cache.entries["CVE-2024-2000"] = detail("CVE-2024-2000", domain.SeverityCritical)

	provider := &stubProvider{err: errors.New("registry down")}
	ing := ingest.NewIngestor(store, provider, cache, nil, nil)

	vuln, err := ing.FetchByID(context.Background(), "CVE-2024-2000")
	require.NoError(t, err)
	assert.Equal(t, "CVE-2024-2000", vuln.CVEID)
	assert.Zero(t, provider.fetches)
}

func TestIngestor_RegistryHitBackfillsCache(t *testing.T) {
	store := catalog.NewStore()
	cache := newMemCache()
	provider := &stubProvider{records: map[string]domain.CVEDetails{
		"CVE-2024-3000": detail("CVE-2024-3000", domain.SeverityMedium),
	}}
	ing := ingest.NewIngestor(store, provider, cache, nil, nil)

	_, err := ing.FetchByID(context.Background(), "CVE-2024-3000")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.puts)
}

func TestIngestor_UnknownCVE(t *testing.T) {
	provider := &stubProvider{records: map[string]domain.CVEDetails{}}
	ing := ingest.NewIngestor(catalog.NewStore(), provider, nil, nil, nil)

	_, err := ing.FetchByID(context.Background(), "CVE-2099-0000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestor_RegistryFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("503")}
	ing := ingest.NewIngestor(catalog.NewStore(), provider, nil, nil, nil)

	_, err := ing.FetchByID(context.Background(), "CVE-2024-4000")
	assert.ErrorIs(t, err, domain.ErrCollaborator)
}

func TestIngestor_EmptyIDRejected(t *testing.T) {
	ing := ingest.NewIngestor(catalog.NewStore(), &stubProvider{}, nil, nil, nil)

	_, err := ing.FetchByID(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestor_SearchAndStoreDeduplicates(t *testing.T) {
	store := catalog.NewStore()
	provider := &stubProvider{
		search: []domain.CVEDetails{
			detail("CVE-2024-5001", domain.SeverityHigh),
			detail("CVE-2024-5002", domain.SeverityLow),
		},
		total: 17,
	}
	ing := ingest.NewIngestor(store, provider, nil, nil, nil)

	stored, total, err := ing.SearchAndStore(context.Background(), domain.CVESearchQuery{Keyword: "test"})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	assert.Equal(t, 17, total)

	// A second run returns the same catalog records without duplicating.
	again, _, err := ing.SearchAndStore(context.Background(), domain.CVESearchQuery{Keyword: "test"})
	require.NoError(t, err)
	assert.Len(t, again, 2)
	assert.Len(t, store.ListVulnerabilities(), 2)
	assert.Equal(t, stored[0].ID, again[0].ID)
}
