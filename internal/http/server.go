// Package http exposes the metrics engine over a JSON API.
package http

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"showroom/internal/analytics"
	"showroom/internal/behavior"
	"showroom/internal/config"
	"showroom/internal/reports"
)

// Server wires the engine components behind the HTTP API.
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *gorm.DB
	snapshots *analytics.SnapshotBuilder
	cohorts   *analytics.CohortRetentionAnalyzer
	funnels   *analytics.FunnelAnalyzer
	profiler  *behavior.Profiler
	predictor *behavior.Predictor
	assembler *reports.Assembler

	app *fiber.App
}

func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	db *gorm.DB,
	snapshots *analytics.SnapshotBuilder,
	cohorts *analytics.CohortRetentionAnalyzer,
	funnels *analytics.FunnelAnalyzer,
	profiler *behavior.Profiler,
	predictor *behavior.Predictor,
	assembler *reports.Assembler,
) *Server {
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		snapshots: snapshots,
		cohorts:   cohorts,
		funnels:   funnels,
		profiler:  profiler,
		predictor: predictor,
		assembler: assembler,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: cfg.IsProduction(),
	})
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", s.HealthAction)

	api := s.app.Group("/api/v1")
	api.Get("/metrics/snapshot", s.SnapshotAction)
	api.Get("/metrics/retention", s.RetentionAction)
	api.Post("/metrics/funnel", s.FunnelAction)
	api.Get("/users/:id/insights", s.UserInsightsAction)
	api.Post("/reports/weekly", s.WeeklyReportAction)
}

// Listen blocks serving the API on the configured port.
func (s *Server) Listen() error {
	addr := ":" + s.cfg.AppPort
	s.logger.Info("HTTP server listening", slog.String("addr", addr))
	if err := s.app.Listen(addr); err != nil {
		return fmt.Errorf("error serving http: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// errorResponse is the uniform error payload.
type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: msg})
}
