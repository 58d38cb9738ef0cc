package cve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nvdFetchPayload = `{
  "totalResults": 1,
  "vulnerabilities": [
    {
      "cve": {
        "id": "CVE-2021-44228",
        "published": "2021-12-10T10:15:09.143",
        "lastModified": "2023-11-07T03:39:43.000",
        "descriptions": [
          {"lang": "es", "value": "descripcion en espanol"},
          {"lang": "en", "value": "Apache Log4j2 JNDI features do not protect against attacker controlled LDAP."}
        ],
        "metrics": {
          "cvssMetricV31": [
            {"cvssData": {"baseScore": 10.0, "baseSeverity": "CRITICAL"}}
          ]
        },
        "references": [
          {"url": "https://logging.apache.org/log4j/2.x/security.html"},
          {"url": "https://nvd.nist.gov/vuln/detail/CVE-2021-44228"}
        ],
        "configurations": [
          {"nodes": [{"cpeMatch": [{"criteria": "cpe:2.3:a:apache:log4j:2.14.1:*:*:*:*:*:*:*"}]}]}
        ]
      }
    }
  ]
}`

const nvdV2OnlyPayload = `{
  "totalResults": 1,
  "vulnerabilities": [
    {
      "cve": {
        "id": "CVE-2010-0001",
        "descriptions": [{"lang": "en", "value": "Old format record."}],
        "metrics": {
          "cvssMetricV2": [
            {"cvssData": {"baseScore": 7.5}}
          ]
        }
      }
    }
  ]
}`

func nvdServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
}

func TestClient_FetchCVE(t *testing.T) {
	srv := nvdServer(t, nvdFetchPayload)
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "")

	details, err := client.FetchCVE(context.Background(), "CVE-2021-44228")
	require.NoError(t, err)

	assert.Equal(t, "CVE-2021-44228", details.CVEID)
	assert.Contains(t, details.Description, "Log4j2")
	assert.Equal(t, domain.SeverityCritical, details.Severity)
	require.NotNil(t, details.CVSSScore)
	assert.Equal(t, 10.0, *details.CVSSScore)
	assert.Equal(t, "apache", details.Vendor)
	assert.Equal(t, "log4j", details.Product)
	assert.Len(t, details.References, 2)
	require.NotNil(t, details.PublishedDate)
	assert.Equal(t, 2021, details.PublishedDate.Year())
	assert.NotEmpty(t, details.RawData)
}

func TestClient_FetchCVENotFound(t *testing.T) {
	srv := nvdServer(t, `{"totalResults": 0, "vulnerabilities": []}`)
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "")

	_, err := client.FetchCVE(context.Background(), "CVE-2099-0000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_FetchCVEServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "")

	_, err := client.FetchCVE(context.Background(), "CVE-2024-1")
	assert.Error(t, err)
}

func TestClient_CVSSv2Fallback(t *testing.T) {
	srv := nvdServer(t, nvdV2OnlyPayload)
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "")

	details, err := client.FetchCVE(context.Background(), "CVE-2010-0001")
	require.NoError(t, err)

	// v2 has no qualitative severity; it is derived from the score.
	assert.Equal(t, domain.SeverityHigh, details.Severity)
	require.NotNil(t, details.CVSSScore)
	assert.Equal(t, 7.5, *details.CVSSScore)
}

func TestClient_SearchCVEs(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(nvdFetchPayload))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "")

	results, total, err := client.SearchCVEs(context.Background(), domain.CVESearchQuery{
		Keyword:  "log4j",
		Severity: domain.SeverityCritical,
	})
	require.NoError(t, err)

	assert.Len(t, results, 1)
	assert.Equal(t, 1, total)
	assert.Contains(t, gotQuery, "keywordSearch=log4j")
	assert.Contains(t, gotQuery, "cvssV3Severity=CRITICAL")
	assert.Contains(t, gotQuery, "resultsPerPage=20")
}

func TestParseMetricsMissing(t *testing.T) {
	srv := nvdServer(t, `{
	  "totalResults": 1,
	  "vulnerabilities": [{"cve": {"id": "CVE-2024-1", "descriptions": [{"lang": "en", "value": "x"}]}}]
	}`)
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "")

	details, err := client.FetchCVE(context.Background(), "CVE-2024-1")
	require.NoError(t, err)
	assert.Nil(t, details.CVSSScore)
	assert.Equal(t, domain.Severity("Unknown"), details.Severity)
}
