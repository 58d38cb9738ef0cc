package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/moriartysec/moriarty/internal/adapters/web/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()

	// Registry ingestion shares the NVD budget across clients.
	ingestLimiter := middleware.NewRateLimiter(30, 1*time.Minute)
	rateLimit := middleware.RateLimitMiddleware(ingestLimiter)

	api := r.PathPrefix("/api").Subrouter()

	// Dashboard
	api.HandleFunc("/stats", s.StatsHandler.HandleGet).Methods(http.MethodGet)

	// Catalog
	api.HandleFunc("/vulnerabilities/search", s.VulnHandler.HandleSearch).Methods(http.MethodGet)
	api.HandleFunc("/vulnerabilities/{id}", s.VulnHandler.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/vulnerabilities/{id}/assessments", s.VulnHandler.HandleAssessments).Methods(http.MethodGet)

	// CVE registry ingestion (rate-limited)
	api.Handle("/cves/fetch", rateLimit(http.HandlerFunc(s.CVEHandler.HandleFetch))).Methods(http.MethodPost)
	api.Handle("/cves/search", rateLimit(http.HandlerFunc(s.CVEHandler.HandleSearch))).Methods(http.MethodPost)

	// Assessments
	api.HandleFunc("/assessments", s.AssessmentHandler.HandleCreate).Methods(http.MethodPost)
	api.HandleFunc("/assessments", s.AssessmentHandler.HandleLatest).Methods(http.MethodGet)
	api.HandleFunc("/assessments/{id}", s.AssessmentHandler.HandleGet).Methods(http.MethodGet)

	// Reports
	api.HandleFunc("/reports", s.ReportHandler.HandleCreate).Methods(http.MethodPost)
	api.HandleFunc("/reports", s.ReportHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}", s.ReportHandler.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}/download", s.ReportHandler.HandleDownload).Methods(http.MethodGet)

	// Exploit projects
	api.HandleFunc("/exploit-projects", s.ExploitHandler.HandleCreate).Methods(http.MethodPost)
	api.HandleFunc("/exploit-projects", s.ExploitHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/exploit-projects/{id}", s.ExploitHandler.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/exploit-projects/{id}", s.ExploitHandler.HandleUpdate).Methods(http.MethodPatch, http.MethodPut)

	// Audit Logs
	api.HandleFunc("/audit-logs", s.AuditHandler.HandleGetLogs).Methods(http.MethodGet)

	// WebSocket endpoint
	r.HandleFunc("/ws", s.WSManager.HandleWebSocket)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
