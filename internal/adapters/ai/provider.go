// Package ai implements the risk-analysis and report-narrative collaborators
// on top of externally hosted language models.
package ai

import (
	"fmt"

	"github.com/moriartysec/moriarty/internal/core/ports"
)

// Client is the combined collaborator surface the core consumes.
type Client interface {
	ports.RiskAnalyzer
	ports.ReportNarrator
}

// Config selects and configures a model provider.
type Config struct {
	Provider  string // "openai" or "ollama"
	Model     string // e.g. "gpt-4o", "llama3.2"
	APIKey    string // for OpenAI-compatible endpoints
	BaseURL   string // override for OpenAI-compatible endpoints
	OllamaURL string // default http://localhost:11434
}

// NewClient creates a collaborator client for the configured provider.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "openai", "":
		return newOpenAIClient(cfg)
	case "ollama":
		return newOllamaClient(cfg)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s (supported: openai, ollama)", cfg.Provider)
	}
}

// Validate checks if the config is usable for the selected provider.
func (c Config) Validate() error {
	switch c.Provider {
	case "openai", "":
		if c.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "ollama":
		// Ollama needs no credentials; the URL has a default.
	default:
		return fmt.Errorf("unknown AI provider: %s", c.Provider)
	}
	return nil
}
