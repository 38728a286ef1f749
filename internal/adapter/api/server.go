// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/simaogato/assetval-backend/internal/usecase/comparison"
	"github.com/simaogato/assetval-backend/internal/usecase/dashboard"
	"github.com/simaogato/assetval-backend/internal/usecase/report"
	"github.com/simaogato/assetval-backend/internal/usecase/valuation"
)

// Server represents the HTTP API server.
type Server struct {
	router     *mux.Router
	handler    http.Handler
	httpServer *http.Server
	logger     *log.Logger
	config     *ServerConfig

	valuationService  *valuation.ValuationService
	comparisonService *comparison.ComparisonService
	reportService     *report.ReportService
	dashboardService  *dashboard.DashboardService
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           string
	APIToken       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestsPerSec float64
	Burst          int
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	valuationService *valuation.ValuationService,
	comparisonService *comparison.ComparisonService,
	reportService *report.ReportService,
	dashboardService *dashboard.DashboardService,
	logger *log.Logger,
) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		router:            mux.NewRouter(),
		logger:            logger,
		config:            config,
		valuationService:  valuationService,
		comparisonService: comparisonService,
		reportService:     reportService,
		dashboardService:  dashboardService,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RequestsPerSec, s.config.Burst)

	s.setupRoutes()

	// CORS wraps the router so preflight requests never reach route matching
	var handler http.Handler = s.router
	handler = RateLimitMiddleware(rateLimiter)(handler)
	handler = CORSMiddleware(handler)
	handler = RecoveryMiddleware(s.logger)(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	s.handler = handler

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort("", s.config.Port),
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(AuthMiddleware(s.config.APIToken))

	// Valuations
	api.HandleFunc("/valuations", s.handleCreateValuation).Methods(http.MethodPost)
	api.HandleFunc("/valuations/preview", s.handlePreviewValuation).Methods(http.MethodPost)
	api.HandleFunc("/valuations", s.handleListValuations).Methods(http.MethodGet)
	api.HandleFunc("/valuations/{id}", s.handleGetValuation).Methods(http.MethodGet)
	api.HandleFunc("/valuations/{id}", s.handleDeleteValuation).Methods(http.MethodDelete)

	// Comparison set
	api.HandleFunc("/comparison", s.handleGetComparison).Methods(http.MethodGet)
	api.HandleFunc("/comparison", s.handleAddToComparison).Methods(http.MethodPost)
	api.HandleFunc("/comparison", s.handleClearComparison).Methods(http.MethodDelete)
	api.HandleFunc("/comparison/{id}", s.handleRemoveFromComparison).Methods(http.MethodDelete)

	// Reports
	api.HandleFunc("/reports/valuation/{id}", s.handleValuationReport).Methods(http.MethodPost)
	api.HandleFunc("/reports/comparison", s.handleComparisonReport).Methods(http.MethodPost)
	api.HandleFunc("/reports", s.handleListReports).Methods(http.MethodGet)

	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "assetval",
	})
}

// Handler returns the root handler including middleware
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Printf("HTTP server listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
