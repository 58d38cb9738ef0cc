package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Addr             string
	CVEDBPath        string
	AuditDBPath      string
	AIProvider       string // "openai" or "ollama"
	AIModel          string
	AIAPIKey         string
	AIBaseURL        string
	OllamaURL        string
	NVDAPIKey        string
	SystemsProtected int
	Debug            bool
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.Addr = getEnv("MORIARTY_ADDR", ":8080")
	cfg.CVEDBPath = getEnv("MORIARTY_CVE_DB", defaultDataPath("cve_cache.db"))
	cfg.AuditDBPath = getEnv("MORIARTY_AUDIT_DB", defaultDataPath("audit.db"))
	cfg.AIProvider = getEnv("MORIARTY_AI_PROVIDER", "openai")
	cfg.AIModel = getEnv("MORIARTY_AI_MODEL", "")
	cfg.AIAPIKey = getEnv("OPENAI_API_KEY", "")
	cfg.AIBaseURL = getEnv("OPENAI_BASE_URL", "")
	cfg.OllamaURL = getEnv("OLLAMA_URL", "http://localhost:11434")
	cfg.NVDAPIKey = getEnv("NVD_API_KEY", "")
	cfg.SystemsProtected = getEnvInt("MORIARTY_SYSTEMS_PROTECTED", 42)
	cfg.Debug = getEnvBool("MORIARTY_DEBUG", false)

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	flag.StringVar(&cfg.CVEDBPath, "cve-db", cfg.CVEDBPath, "Path to the CVE cache database")
	flag.StringVar(&cfg.AuditDBPath, "audit-db", cfg.AuditDBPath, "Path to the audit trail database")
	flag.StringVar(&cfg.AIProvider, "ai-provider", cfg.AIProvider, "AI provider (openai or ollama)")
	flag.StringVar(&cfg.AIModel, "ai-model", cfg.AIModel, "AI model name (provider default when empty)")
	flag.IntVar(&cfg.SystemsProtected, "systems-protected", cfg.SystemsProtected, "Monitored system count reported on the dashboard")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable verbose debug logging")

	flag.Parse()

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// defaultDataPath returns a path inside ~/.moriarty, creating the directory
// if needed. Falls back to the current directory.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory, using current dir: %v", err)
		return name
	}

	dataDir := filepath.Join(home, ".moriarty")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Printf("Warning: Could not create .moriarty directory, using current dir: %v", err)
		return name
	}

	return filepath.Join(dataDir, name)
}
