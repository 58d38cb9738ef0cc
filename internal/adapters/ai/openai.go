package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/moriartysec/moriarty/internal/core/domain"
	"github.com/moriartysec/moriarty/internal/telemetry"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o"
)

// openAIClient talks to an OpenAI-compatible chat completions endpoint.
type openAIClient struct {
	baseURL   string
	apiKey    string
	modelName string
	client    *http.Client
}

func newOpenAIClient(cfg Config) (*openAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	return &openAIClient{
		baseURL:   baseURL,
		apiKey:    cfg.APIKey,
		modelName: modelName,
		client:    &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Chat completion API types (OpenAI-compatible)
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
	Temperature    float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Assess asks the model for a structured risk assessment of one vulnerability.
func (c *openAIClient) Assess(ctx context.Context, summary domain.VulnerabilitySummary) (domain.AIAnalysis, error) {
	raw, err := c.observe(ctx, "assess", func(ctx context.Context) (string, error) {
		// Low temperature for consistent security analysis.
		return c.complete(ctx, analystSystemPrompt, assessPrompt(summary), &chatFormat{Type: "json_object"}, 0.1)
	})
	if err != nil {
		return domain.AIAnalysis{}, err
	}
	return parseAnalysis(raw)
}

// Summarize asks the model for a markdown report narrative.
func (c *openAIClient) Summarize(ctx context.Context, vulns []domain.Vulnerability, assessments []domain.Assessment) (string, error) {
	return c.observe(ctx, "summarize", func(ctx context.Context) (string, error) {
		return c.complete(ctx, reporterSystemPrompt, summarizePrompt(vulns, assessments), nil, 0.2)
	})
}

func (c *openAIClient) observe(ctx context.Context, operation string, fn func(context.Context) (string, error)) (string, error) {
	start := time.Now()
	out, err := fn(ctx)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	telemetry.AIRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
	return out, err
}

func (c *openAIClient) complete(ctx context.Context, system, user string, format *chatFormat, temperature float64) (string, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model: c.modelName,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: format,
		Temperature:    temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat completion API error (status %d): %s", resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("chat completion error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return chatResp.Choices[0].Message.Content, nil
}
