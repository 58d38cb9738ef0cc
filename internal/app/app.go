// Package app bootstraps and wires the application components.
package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/moriartysec/moriarty/internal/adapters/ai"
	"github.com/moriartysec/moriarty/internal/adapters/cve"
	"github.com/moriartysec/moriarty/internal/adapters/storage"
	webserver "github.com/moriartysec/moriarty/internal/adapters/web/server"
	websocket "github.com/moriartysec/moriarty/internal/adapters/web/websocket"
	"github.com/moriartysec/moriarty/internal/config"
	"github.com/moriartysec/moriarty/internal/core/ports"
	"github.com/moriartysec/moriarty/internal/core/services/assessment"
	"github.com/moriartysec/moriarty/internal/core/services/audit"
	"github.com/moriartysec/moriarty/internal/core/services/catalog"
	"github.com/moriartysec/moriarty/internal/core/services/ingest"
	"github.com/moriartysec/moriarty/internal/core/services/report"
	"github.com/moriartysec/moriarty/internal/core/services/search"
	"github.com/moriartysec/moriarty/internal/core/services/stats"
	"github.com/moriartysec/moriarty/internal/telemetry"
)

// Application is the facade over the whole system: the in-memory catalog,
// the domain services around it, the external collaborators and the web
// server.
type Application struct {
	Config *config.Config

	Catalog      *catalog.Store
	Engine       *search.Engine
	Orchestrator *assessment.Orchestrator
	Assembler    *report.Assembler
	Aggregator   *stats.Aggregator
	Ingestor     *ingest.Ingestor
	AuditService *audit.Service
	WebServer    *webserver.Server

	cveCache  *cve.SQLiteCache
	auditRepo *storage.AuditRepository
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{
		Config: cfg,
	}

	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}

	return app, nil
}

// bootstrap orchestrates the initialization sequence.
func (app *Application) bootstrap() error {
	// 1. Foundation & Infrastructure
	telemetry.InitMetrics()

	if err := app.initStorage(); err != nil {
		return err
	}

	// 2. External Collaborators
	aiClient, err := app.initAI()
	if err != nil {
		return err
	}
	registry := cve.NewClient(app.Config.NVDAPIKey)

	// 3. Domain Services
	store := catalog.NewStore()
	wsManager := websocket.NewWSManager()

	app.Catalog = store
	app.AuditService = app.initAudit()
	app.Engine = search.NewEngine(store)
	app.Orchestrator = assessment.NewOrchestrator(store, aiClient, app.AuditService, wsManager)
	app.Assembler = report.NewAssembler(store, aiClient, app.AuditService)
	app.Aggregator = stats.NewAggregator(store, app.Config.SystemsProtected)

	// A nil *SQLiteCache must stay a nil interface for the ingestor's checks.
	var cache ports.CVECache
	if app.cveCache != nil {
		cache = app.cveCache
	}
	app.Ingestor = ingest.NewIngestor(store, registry, cache, app.AuditService, wsManager)

	// 4. Web Server
	app.WebServer = webserver.NewServer(app.Config.Addr, webserver.Deps{
		Catalog:      store,
		Engine:       app.Engine,
		Orchestrator: app.Orchestrator,
		Assembler:    app.Assembler,
		Aggregator:   app.Aggregator,
		Ingestor:     app.Ingestor,
		Audit:        app.AuditService,
		WSManager:    wsManager,
	})

	return nil
}

func (app *Application) initStorage() error {
	if err := os.MkdirAll(filepath.Dir(app.Config.CVEDBPath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	cache, err := cve.NewSQLiteCache(app.Config.CVEDBPath)
	if err != nil {
		// The cache is an optimization; the registry still works without it.
		log.Printf("Warning: CVE cache unavailable: %v", err)
		return nil
	}
	app.cveCache = cache
	return nil
}

func (app *Application) initAudit() *audit.Service {
	repo, err := storage.NewAuditRepository(app.Config.AuditDBPath)
	if err != nil {
		log.Printf("Warning: audit trail unavailable: %v", err)
		return audit.NewService(nil)
	}
	app.auditRepo = repo
	return audit.NewService(repo)
}

func (app *Application) initAI() (ai.Client, error) {
	aiCfg := ai.Config{
		Provider:  app.Config.AIProvider,
		Model:     app.Config.AIModel,
		APIKey:    app.Config.AIAPIKey,
		BaseURL:   app.Config.AIBaseURL,
		OllamaURL: app.Config.OllamaURL,
	}
	if err := aiCfg.Validate(); err != nil {
		return nil, err
	}
	return ai.NewClient(aiCfg)
}

// Run starts the web server and blocks until ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	slog.Info("Starting Moriarty components...")

	errChan := make(chan error, 1)
	go func() {
		if err := app.WebServer.Run(ctx); err != nil {
			errChan <- fmt.Errorf("web server error: %w", err)
		}
	}()

	slog.Info("Moriarty Ready. Press Ctrl+C to terminate.")

	select {
	case <-ctx.Done():
		slog.Info("Termination signal received")
	case err := <-errChan:
		return err
	}

	return app.cleanup()
}

func (app *Application) cleanup() error {
	slog.Info("Cleaning up resources...")

	if app.cveCache != nil {
		if err := app.cveCache.Close(); err != nil {
			log.Printf("Error closing CVE cache: %v", err)
		}
	}
	return nil
}
