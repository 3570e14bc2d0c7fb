// Package internal wires the metrics engine components into a runnable
// application.
package internal

import (
	"context"
	"fmt"
	"log/slog"

	"showroom/internal/analytics"
	"showroom/internal/behavior"
	"showroom/internal/config"
	"showroom/internal/database"
	showroomhttp "showroom/internal/http"
	"showroom/internal/jobs"
	"showroom/internal/logging"
	"showroom/internal/reports"
	"showroom/internal/store"
)

// Application holds every wired component of the metrics engine.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	DBManager *database.DBManager
	Store     *store.Store
	Server    *showroomhttp.Server
	Scheduler *jobs.Scheduler
	Assembler *reports.Assembler
}

// NewApp creates a new application instance with default settings.
func NewApp() (*Application, error) {
	return NewAppWithConfig(config.GetConfig())
}

// NewAppWithConfig creates a new application with the provided config.
func NewAppWithConfig(cfg *config.Config) (*Application, error) {
	logger := logging.NewLogger(cfg)

	dbManager := database.NewDBManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	st := store.New(dbManager.GetConnection())

	snapshots := analytics.NewSnapshotBuilder(st, logger,
		analytics.WithSeriesDays(cfg.SnapshotTimeSeriesDays),
		analytics.WithWorkerCount(cfg.MetricsWorkerCount))
	cohorts := analytics.NewCohortRetentionAnalyzer(st)
	funnels := analytics.NewFunnelAnalyzer(st)
	profiler := behavior.NewProfiler(st, cfg.BehaviorActivityLimit)
	predictor := behavior.NewPredictor()

	assembler := reports.NewAssembler(st, snapshots, reports.NewLogDeliverer(logger), st, logger,
		reports.WithRankingLimit(cfg.RankingLimit))

	scheduler, err := jobs.NewScheduler(st, assembler, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jobs: %w", err)
	}

	server := showroomhttp.NewServer(cfg, logger, dbManager.GetConnection(),
		snapshots, cohorts, funnels, profiler, predictor, assembler)

	return &Application{
		Config:    cfg,
		Logger:    logger,
		DBManager: dbManager,
		Store:     st,
		Server:    server,
		Scheduler: scheduler,
		Assembler: assembler,
	}, nil
}

// StartAsync starts the background jobs and the HTTP server without blocking
// the caller.
func (a *Application) StartAsync() error {
	if err := a.Scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start background jobs: %w", err)
	}

	go func() {
		if err := a.Server.Listen(); err != nil {
			a.Logger.Error("HTTP server stopped", slog.Any("error", err))
		}
	}()

	return nil
}

// Shutdown stops the jobs, drains the HTTP server and closes the database.
func (a *Application) Shutdown(ctx context.Context) error {
	a.Scheduler.Stop()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down http server: %w", err)
	}

	if err := a.DBManager.Close(); err != nil {
		return fmt.Errorf("error closing database: %w", err)
	}
	return nil
}
