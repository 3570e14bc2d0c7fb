// Package jobs runs the engine's background work: the scheduled weekly
// report and the activity retention cleanup.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"showroom/internal/config"
	"showroom/internal/reports"
	"showroom/internal/store"
)

// Scheduler is responsible for running background jobs.
type Scheduler struct {
	logger    *slog.Logger
	cfg       *config.Config
	ctx       context.Context
	cancel    context.CancelFunc
	enabled   bool
	isRunning bool

	// Mutex to prevent concurrent job executions
	processingMutex sync.Mutex
	isProcessing    bool

	// Job instances
	reportJob  *WeeklyReportJob
	cleanupJob *CleanupJob

	cron          *cron.Cron
	cleanupTicker *time.Ticker
}

func NewScheduler(st *store.Store, assembler *reports.Assembler, logger *slog.Logger) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := config.GetConfig()

	s := &Scheduler{
		logger:  logger,
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		enabled: true,
	}

	s.reportJob = NewWeeklyReportJob(assembler, logger)
	s.cleanupJob = NewCleanupJob(st, logger, cfg)

	return s, nil
}

// executeJobSafely runs a job only if no other job is currently executing.
func (s *Scheduler) executeJobSafely(jobName string, jobFunc func() error) {
	s.processingMutex.Lock()
	if s.isProcessing {
		s.logger.Debug("Skipping job execution - previous job still running", slog.String("job", jobName))
		s.processingMutex.Unlock()
		return
	}
	s.isProcessing = true
	s.processingMutex.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Panic recovered in background job",
				slog.String("job", jobName),
				slog.Any("panic", r))
		}

		s.processingMutex.Lock()
		s.isProcessing = false
		s.processingMutex.Unlock()
	}()

	if err := jobFunc(); err != nil {
		s.logger.Error("Error executing job", slog.String("job", jobName), slog.Any("error", err))
	}
}

// Start begins all background jobs.
func (s *Scheduler) Start() error {
	if !s.enabled {
		s.logger.Info("Background jobs are disabled.")
		return nil
	}

	if s.isRunning {
		s.logger.Info("Background jobs already running.")
		return nil
	}

	s.logger.Info("Starting background jobs...")
	s.isRunning = true

	if err := s.startWeeklyReportJob(); err != nil {
		s.isRunning = false
		return err
	}
	s.startCleanupJob()

	s.logger.Info("Background jobs started",
		slog.Bool("enabled", s.enabled),
		slog.Bool("isRunning", s.isRunning))

	return nil
}

func (s *Scheduler) startWeeklyReportJob() error {
	s.logger.Info("Scheduling weekly report job", slog.String("cron", s.cfg.WeeklyReportCron))

	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.cfg.WeeklyReportCron, func() {
		s.executeJobSafely("weekly_report", func() error {
			return s.reportJob.Run(s.ctx)
		})
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) startCleanupJob() {
	interval := 24 * time.Hour
	s.logger.Info("Starting cleanup job", slog.Duration("interval", interval))
	s.cleanupTicker = time.NewTicker(interval)

	go func() {
		s.logger.Info("Running initial cleanup...")
		s.executeJobSafely("cleanup", func() error {
			return s.cleanupJob.Run(s.ctx)
		})

		for {
			select {
			case <-s.cleanupTicker.C:
				s.executeJobSafely("cleanup", func() error {
					return s.cleanupJob.Run(s.ctx)
				})
			case <-s.ctx.Done():
				s.logger.Info("Cleanup job stopped")
				return
			}
		}
	}()
}

// Stop halts all background jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background jobs...")
	s.enabled = false

	if s.cron != nil {
		cronCtx := s.cron.Stop()
		<-cronCtx.Done()
	}
	if s.cleanupTicker != nil {
		s.cleanupTicker.Stop()
	}

	s.cancel()
	s.isRunning = false
	s.logger.Info("Background jobs stopped")
}

// IsRunning returns whether jobs are currently running.
func (s *Scheduler) IsRunning() bool {
	return s.isRunning
}

// GenerateReport allows manual triggering of the weekly report.
func (s *Scheduler) GenerateReport(ctx context.Context) (*reports.Report, error) {
	return s.reportJob.Generate(ctx)
}
