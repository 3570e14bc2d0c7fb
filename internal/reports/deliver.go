package reports

import (
	"context"
	"log/slog"
)

// LogDeliverer writes finished reports to the application log. It stands in
// until an email or webhook channel is configured.
type LogDeliverer struct {
	logger *slog.Logger
}

func NewLogDeliverer(logger *slog.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger}
}

func (d *LogDeliverer) Deliver(_ context.Context, report *Report) error {
	d.logger.Info("Report generated",
		slog.String("report_id", report.ID),
		slog.String("type", report.Type),
		slog.String("period", report.Period.Label()),
		slog.Int64("new_users", report.Summary.NewUsers),
		slog.Int64("total_interactions", report.Summary.TotalInteractions),
		slog.Float64("content_growth_rate", report.Summary.ContentGrowthRate),
		slog.Float64("avg_engagement", report.Summary.AvgEngagement))
	return nil
}
