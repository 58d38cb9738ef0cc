package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/moriartysec/moriarty/internal/adapters/reporting"
	"github.com/moriartysec/moriarty/internal/adapters/web/handlers"
	web "github.com/moriartysec/moriarty/internal/adapters/web/websocket"
	"github.com/moriartysec/moriarty/internal/core/ports"
	"github.com/moriartysec/moriarty/internal/core/services/assessment"
	"github.com/moriartysec/moriarty/internal/core/services/audit"
	"github.com/moriartysec/moriarty/internal/core/services/ingest"
	"github.com/moriartysec/moriarty/internal/core/services/report"
	"github.com/moriartysec/moriarty/internal/core/services/search"
	"github.com/moriartysec/moriarty/internal/core/services/stats"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr      string
	WSManager *web.WSManager

	VulnHandler       *handlers.VulnerabilityHandler
	CVEHandler        *handlers.CVEHandler
	AssessmentHandler *handlers.AssessmentHandler
	ReportHandler     *handlers.ReportHandler
	ExploitHandler    *handlers.ExploitHandler
	StatsHandler      *handlers.StatsHandler
	AuditHandler      *handlers.AuditHandler

	srv *http.Server
}

// Deps bundles the services the web layer exposes.
type Deps struct {
	Catalog      ports.Catalog
	Engine       *search.Engine
	Orchestrator *assessment.Orchestrator
	Assembler    *report.Assembler
	Aggregator   *stats.Aggregator
	Ingestor     *ingest.Ingestor
	Audit        *audit.Service
	WSManager    *web.WSManager
}

// NewServer creates a new web server.
func NewServer(addr string, deps Deps) *Server {
	wsManager := deps.WSManager
	if wsManager == nil {
		wsManager = web.NewWSManager()
	}

	return &Server{
		Addr:      addr,
		WSManager: wsManager,

		VulnHandler:       handlers.NewVulnerabilityHandler(deps.Engine, deps.Orchestrator),
		CVEHandler:        handlers.NewCVEHandler(deps.Ingestor),
		AssessmentHandler: handlers.NewAssessmentHandler(deps.Orchestrator),
		ReportHandler:     handlers.NewReportHandler(deps.Assembler, reporting.NewExporter()),
		ExploitHandler:    handlers.NewExploitHandler(deps.Catalog, deps.Audit),
		StatsHandler:      handlers.NewStatsHandler(deps.Aggregator),
		AuditHandler:      handlers.NewAuditHandler(deps.Audit),
	}
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	handler := SetupRoutes(s)

	// Instrument with OpenTelemetry
	instrumentedHandler := otelhttp.NewHandler(handler, "moriarty-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown implementation
	go func() {
		<-ctx.Done()
		log.Println("Web Server shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Web Server shutdown error: %v", err)
		}
	}()

	log.Printf("Web server listening on %s", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
