package search_test

import (
	"testing"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/core/services/catalog"
	"github.com/moriartysec/moriarty/internal/core/services/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, records []domain.VulnerabilityInput) *catalog.Store {
	t.Helper()
	store := catalog.NewStore()
	for _, in := range records {
		_, err := store.CreateVulnerability(in)
		require.NoError(t, err)
	}
	return store
}

func score(f float64) *float64 { return &f }

func TestEngine_SeverityOutranksCVSS(t *testing.T) {
	store := seedCatalog(t, []domain.VulnerabilityInput{
		{CVEID: "CVE-1", Severity: domain.SeverityHigh, CVSSScore: score(9.0)},
		{CVEID: "CVE-2", Severity: domain.SeverityCritical, CVSSScore: score(2.0)},
		{CVEID: "CVE-3", Severity: domain.SeverityHigh, CVSSScore: score(7.0)},
	})
	engine := search.NewEngine(store)

	result, err := engine.Search(domain.SearchQuery{})
	require.NoError(t, err)
	require.Len(t, result.Vulnerabilities, 3)

	// A Critical with a low CVSS still sorts ahead of any High; within High,
	// CVSS breaks the tie.
	assert.Equal(t, "CVE-2", result.Vulnerabilities[0].CVEID)
	assert.Equal(t, "CVE-1", result.Vulnerabilities[1].CVEID)
	assert.Equal(t, "CVE-3", result.Vulnerabilities[2].CVEID)
}

func TestEngine_Filters(t *testing.T) {
	store := seedCatalog(t, []domain.VulnerabilityInput{
		{CVEID: "CVE-2024-1111", Severity: domain.SeverityCritical, CVSSScore: score(9.8), Product: "OpenSSL", Vendor: "openssl", ExploitAvailable: true},
		{CVEID: "CVE-2024-2222", Severity: domain.SeverityHigh, CVSSScore: score(8.1), Product: "nginx", Vendor: "f5"},
		{CVEID: "CVE-2023-3333", Severity: domain.SeverityLow, Product: "openssl-compat", Vendor: "openssl"},
	})
	engine := search.NewEngine(store)

	boolPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name     string
		query    domain.SearchQuery
		expected []string
	}{
		{
			name:     "CVE ID Substring",
			query:    domain.SearchQuery{CVEID: "2024"},
			expected: []string{"CVE-2024-1111", "CVE-2024-2222"},
		},
		{
			name:     "Product Case Insensitive",
			query:    domain.SearchQuery{Product: "openssl"},
			expected: []string{"CVE-2024-1111", "CVE-2023-3333"},
		},
		{
			name:     "Severity Exact",
			query:    domain.SearchQuery{Severity: domain.SeverityHigh},
			expected: []string{"CVE-2024-2222"},
		},
		{
			name: "CVSS Range Excludes Unscored",
			query: domain.SearchQuery{
				CVSSMin: score(8.0),
				CVSSMax: score(10.0),
			},
			expected: []string{"CVE-2024-1111", "CVE-2024-2222"},
		},
		{
			name:     "Exploit Available",
			query:    domain.SearchQuery{HasExploit: boolPtr(true)},
			expected: []string{"CVE-2024-1111"},
		},
		{
			name:     "Conjunctive Filters",
			query:    domain.SearchQuery{Vendor: "openssl", Severity: domain.SeverityCritical},
			expected: []string{"CVE-2024-1111"},
		},
		{
			name:     "No Matches",
			query:    domain.SearchQuery{Vendor: "microsoft"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Search(tt.query)
			require.NoError(t, err)

			got := make([]string, 0, len(result.Vulnerabilities))
			for _, v := range result.Vulnerabilities {
				got = append(got, v.CVEID)
			}
			assert.ElementsMatch(t, tt.expected, got)
			assert.Equal(t, len(tt.expected), result.Total)
		})
	}
}

func TestEngine_PaginationKeepsTotal(t *testing.T) {
	var records []domain.VulnerabilityInput
	for i := 0; i < 25; i++ {
		records = append(records, domain.VulnerabilityInput{
			CVEID:     "CVE-2024-" + string(rune('A'+i)),
			Severity:  domain.SeverityMedium,
			CVSSScore: score(float64(i % 10)),
		})
	}
	store := seedCatalog(t, records)
	engine := search.NewEngine(store)

	page1, err := engine.Search(domain.SearchQuery{Limit: 10, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, page1.Vulnerabilities, 10)
	assert.Equal(t, 25, page1.Total)

	page3, err := engine.Search(domain.SearchQuery{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Len(t, page3.Vulnerabilities, 5)
	assert.Equal(t, 25, page3.Total)

	beyond, err := engine.Search(domain.SearchQuery{Limit: 10, Offset: 100})
	require.NoError(t, err)
	assert.Empty(t, beyond.Vulnerabilities)
	assert.Equal(t, 25, beyond.Total)
}

func TestEngine_RejectsMalformedQuery(t *testing.T) {
	engine := search.NewEngine(catalog.NewStore())

	_, err := engine.Search(domain.SearchQuery{Limit: 500})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = engine.Search(domain.SearchQuery{Offset: -5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEngine_DefaultLimit(t *testing.T) {
	var records []domain.VulnerabilityInput
	for i := 0; i < 30; i++ {
		records = append(records, domain.VulnerabilityInput{
			CVEID:    "CVE-2024-" + string(rune('a'+i)),
			Severity: domain.SeverityLow,
		})
	}
	store := seedCatalog(t, records)
	engine := search.NewEngine(store)

	result, err := engine.Search(domain.SearchQuery{})
	require.NoError(t, err)
	assert.Len(t, result.Vulnerabilities, domain.DefaultSearchLimit)
	assert.Equal(t, 30, result.Total)
}
