package jobs

import (
	"context"
	"log/slog"
	"time"

	"showroom/internal/config"
	"showroom/internal/store"
)

// CleanupJob prunes activity records past the retention window.
type CleanupJob struct {
	store  *store.Store
	logger *slog.Logger
	cfg    *config.Config
}

func NewCleanupJob(st *store.Store, logger *slog.Logger, cfg *config.Config) *CleanupJob {
	return &CleanupJob{
		store:  st,
		logger: logger,
		cfg:    cfg,
	}
}

// Run removes activity records older than the retention period. This keeps
// storage bounded and honors data minimization.
func (j *CleanupJob) Run(ctx context.Context) error {
	retentionDays := j.cfg.ActivityRetentionDays
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	j.logger.Info("Starting cleanup of old activity records",
		slog.Int("retention_days", retentionDays),
		slog.Time("cutoff_date", cutoff))

	deleted, err := j.store.PruneActivityBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("Failed to prune old activity records", slog.Any("error", err))
		return err
	}

	if deleted == 0 {
		j.logger.Debug("No old activity records to clean up")
		return nil
	}

	j.logger.Info("Cleaned up old activity records",
		slog.Int64("deleted_count", deleted),
		slog.Int("retention_days", retentionDays))

	return nil
}
