// Package server provides the HTTP API for integrity review sessions.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/integrity/internal/analytics"
	"github.com/hyperjump/integrity/internal/config"
	"github.com/hyperjump/integrity/internal/models"
	"github.com/hyperjump/integrity/internal/monitor"
	"github.com/hyperjump/integrity/internal/report"
	"github.com/hyperjump/integrity/internal/risk"
	"github.com/hyperjump/integrity/internal/session"
	"go.uber.org/zap"
)

// DetectionService is the administrative surface of the detection service.
type DetectionService interface {
	Health(ctx context.Context) (*models.HealthResponse, error)
	Stats(ctx context.Context) (*models.StatsResponse, error)
	RebuildIndex(ctx context.Context) (*models.RebuildIndexResponse, error)
}

// IntakeService manages the drop folders. Optional.
type IntakeService interface {
	Directories() []string
	AddDirectory(path string) error
	RemoveDirectory(path string) error
}

// HealthMonitor keeps the last known detection service status. Optional.
type HealthMonitor interface {
	Probe(ctx context.Context) monitor.Status
	Status() (monitor.Status, bool)
}

// Server is the HTTP server for the integrity API.
type Server struct {
	sessions *session.Manager
	service  DetectionService
	cfg      *config.Config
	logger   *zap.Logger
	server   *http.Server

	intake        IntakeService
	intakeSession string
	monitor       HealthMonitor
	configPath    string
	configMu      sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithIntake exposes the intake folders and the session their submissions land in.
func WithIntake(svc IntakeService, sessionID string) Option {
	return func(s *Server) {
		s.intake = svc
		s.intakeSession = sessionID
	}
}

// WithMonitor routes health checks through m and exposes its cached status.
func WithMonitor(m HealthMonitor) Option {
	return func(s *Server) { s.monitor = m }
}

// WithConfigPath persists intake directory changes to the config file at path.
func WithConfigPath(path string) Option {
	return func(s *Server) { s.configPath = path }
}

// NewServer creates a server with the given dependencies.
func NewServer(sessions *session.Manager, service DetectionService, cfg *config.Config, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		sessions: sessions,
		service:  service,
		cfg:      cfg,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReportOptions builds document view settings from cfg.
func ReportOptions(cfg *config.Config) report.Options {
	return report.Options{
		HighlightThreshold: cfg.Report.HighlightThreshold,
		Risk:               risk.Thresholds{Low: cfg.Risk.Low, Medium: cfg.Risk.Medium},
		PreviewChars:       cfg.Report.PreviewChars,
	}
}

// AnalyticsOptions builds aggregation settings from cfg.
func AnalyticsOptions(cfg *config.Config) analytics.Options {
	return analytics.Options{
		Risk:          risk.Thresholds{Low: cfg.Risk.Low, Medium: cfg.Risk.Medium},
		TrendWindow:   cfg.Analytics.TrendWindow,
		TrendLabelLen: cfg.Analytics.TrendLabelLen,
		RecentLimit:   cfg.Analytics.RecentLimit,
	}
}

// Router returns the API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/service", func(r chi.Router) {
			r.Get("/health", s.handleServiceHealth)
			r.Get("/status", s.handleServiceStatus)
			r.Get("/stats", s.handleServiceStats)
			r.Post("/rebuild-index", s.handleRebuildIndex)
		})

		r.Get("/intake", s.handleIntakeList)
		r.Post("/intake/directories", s.handleIntakeAdd)
		r.Delete("/intake/directories", s.handleIntakeRemove)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Delete("/", s.handleDiscardSession)
			r.Post("/submissions", s.withSession(s.handleSubmit))
			r.Get("/progress", s.withSession(s.handleProgress))
			r.Get("/reports", s.withSession(s.handleListReports))
			r.Delete("/reports", s.withSession(s.handleClearReports))
			r.Get("/reports/{id}", s.withSession(s.handleGetReport))
			r.Get("/reports/{id}/sources/{displayID}", s.withSession(s.handleGetSource))
			r.Get("/current", s.withSession(s.handleCurrent))
			r.Get("/analytics", s.withSession(s.handleAnalytics))
			r.Get("/dashboard", s.withSession(s.handleDashboard))
			r.Get("/search", s.withSession(s.handleSearch))
		})
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
