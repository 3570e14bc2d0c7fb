package jobs

import (
	"context"
	"log/slog"

	"showroom/internal/reports"
)

// WeeklyReportJob generates the scheduled weekly report.
type WeeklyReportJob struct {
	assembler *reports.Assembler
	logger    *slog.Logger
}

func NewWeeklyReportJob(assembler *reports.Assembler, logger *slog.Logger) *WeeklyReportJob {
	return &WeeklyReportJob{
		assembler: assembler,
		logger:    logger,
	}
}

// Run generates and delivers the weekly report.
func (j *WeeklyReportJob) Run(ctx context.Context) error {
	report, err := j.assembler.GenerateWeekly(ctx)
	if err != nil {
		j.logger.Error("Failed to generate weekly report", slog.Any("error", err))
		return err
	}

	j.logger.Info("Weekly report generated",
		slog.String("report_id", report.ID),
		slog.String("period", report.Period.Label()))
	return nil
}

// Generate builds the weekly report on demand and returns it.
func (j *WeeklyReportJob) Generate(ctx context.Context) (*reports.Report, error) {
	return j.assembler.GenerateWeekly(ctx)
}
