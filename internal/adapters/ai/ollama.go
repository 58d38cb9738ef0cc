package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/telemetry"
	"github.com/ollama/ollama/api"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2"
)

// ollamaClient runs the collaborator prompts against a local Ollama server.
type ollamaClient struct {
	client    *api.Client
	modelName string
}

func newOllamaClient(cfg Config) (*ollamaClient, error) {
	ollamaURL := cfg.OllamaURL
	if ollamaURL == "" {
		ollamaURL = defaultOllamaURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultOllamaModel
	}

	u, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_URL: %w", err)
	}

	return &ollamaClient{
		client:    api.NewClient(u, http.DefaultClient),
		modelName: modelName,
	}, nil
}

// Assess asks the local model for a structured risk assessment.
func (c *ollamaClient) Assess(ctx context.Context, summary domain.VulnerabilitySummary) (domain.AIAnalysis, error) {
	start := time.Now()
	raw, err := c.chat(ctx, analystSystemPrompt, assessPrompt(summary), true)
	observeOllama("assess", start, err)
	if err != nil {
		return domain.AIAnalysis{}, err
	}
	return parseAnalysis(raw)
}

// Summarize asks the local model for a markdown report narrative.
func (c *ollamaClient) Summarize(ctx context.Context, vulns []domain.Vulnerability, assessments []domain.Assessment) (string, error) {
	start := time.Now()
	out, err := c.chat(ctx, reporterSystemPrompt, summarizePrompt(vulns, assessments), false)
	observeOllama("summarize", start, err)
	return out, err
}

func (c *ollamaClient) chat(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model: c.modelName,
		Messages: []api.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: &stream,
	}
	if jsonMode {
		req.Format = json.RawMessage(`"json"`)
	}

	var content string
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content += resp.Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat error: %w", err)
	}
	return content, nil
}

func observeOllama(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	telemetry.AIRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}
