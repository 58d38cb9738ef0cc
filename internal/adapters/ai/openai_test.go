package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		})
	}))
}

func newTestClient(t *testing.T, baseURL string) *openAIClient {
	t.Helper()
	client, err := newOpenAIClient(Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gpt-4o",
	})
	require.NoError(t, err)
	return client
}

func TestOpenAIClient_Assess(t *testing.T) {
	srv := chatServer(t, `{"riskScore": 85, "exploitability": 70, "impactSeverity": "High", "recommendation": "Patch immediately", "remediationAvailable": true, "confidenceScore": 0.85}`, http.StatusOK)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	analysis, err := client.Assess(context.Background(), domain.VulnerabilitySummary{
		CVEID:    "CVE-2024-1234",
		Severity: domain.SeverityHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, 85, analysis.RiskScore)
	assert.Equal(t, 70, analysis.Exploitability)
	assert.Equal(t, domain.SeverityHigh, analysis.ImpactSeverity)
	assert.True(t, analysis.RemediationAvailable)
	assert.Equal(t, 0.85, analysis.ConfidenceScore)
}

func TestOpenAIClient_AssessServerError(t *testing.T) {
	srv := chatServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Assess(context.Background(), domain.VulnerabilitySummary{CVEID: "CVE-2024-1"})
	assert.Error(t, err)
}

func TestOpenAIClient_Summarize(t *testing.T) {
	srv := chatServer(t, "## Executive Summary\n\nOne critical finding.", http.StatusOK)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	narrative, err := client.Summarize(context.Background(), []domain.Vulnerability{
		{CVEID: "CVE-2024-1", Severity: domain.SeverityCritical},
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, narrative, "Executive Summary")
}

func TestOpenAIClient_RequiresAPIKey(t *testing.T) {
	_, err := newOpenAIClient(Config{})
	assert.Error(t, err)
}
