package reports

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"showroom/internal/analytics"
	"showroom/internal/pkg/async"
	"showroom/internal/timeframe"
)

// Report types.
const (
	TypeWeekly = "weekly"
)

// Thresholds for the highlight and issue rules. Rules are independent; any
// subset may fire.
const (
	growthAchievementPercent  = 50
	approvalAchievementFloor  = 90
	engagementIssueFloor      = 20
	approvalRecommendationBar = 50
)

// Assembler builds periodic reports from a metrics snapshot plus ranked
// lists, persists them and hands them to the delivery channel.
type Assembler struct {
	gateway      Gateway
	snapshots    SnapshotSource
	deliverer    Deliverable
	saver        Saver
	logger       *slog.Logger
	rankingLimit int
	now          func() time.Time
}

// AssemblerOption adjusts assembler construction.
type AssemblerOption func(*Assembler)

// WithRankingLimit bounds the top-content and top-users lists.
func WithRankingLimit(limit int) AssemblerOption {
	return func(a *Assembler) { a.rankingLimit = limit }
}

// WithClock overrides the time source; intended for tests.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) { a.now = now }
}

func NewAssembler(gateway Gateway, snapshots SnapshotSource, deliverer Deliverable, saver Saver, logger *slog.Logger, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		gateway:      gateway,
		snapshots:    snapshots,
		deliverer:    deliverer,
		saver:        saver,
		logger:       logger,
		rankingLimit: 10,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GenerateWeekly builds the report for the last seven full days, ending at
// the start of the current day.
func (a *Assembler) GenerateWeekly(ctx context.Context) (*Report, error) {
	to := timeframe.StartOfDay(a.now())
	period, err := timeframe.New(to.AddDate(0, 0, -7), to)
	if err != nil {
		return nil, fmt.Errorf("error building weekly period: %w", err)
	}
	return a.Generate(ctx, TypeWeekly, period)
}

// Generate assembles one report for the period. The snapshot and both
// rankings are computed concurrently; any failed input fails the report.
// Persistence and delivery failures are logged but never fail generation.
func (a *Assembler) Generate(ctx context.Context, reportType string, period timeframe.TimeFrame) (*Report, error) {
	tasks := []async.Task{
		{
			Name: "snapshot",
			Execute: func(ctx context.Context) (interface{}, error) {
				return a.snapshots.Build(ctx, period)
			},
		},
		{
			Name: "topWebsites",
			Execute: func(ctx context.Context) (interface{}, error) {
				return a.gateway.TopWebsites(ctx, period, a.rankingLimit)
			},
		},
		{
			Name: "topUsers",
			Execute: func(ctx context.Context) (interface{}, error) {
				return a.gateway.TopUsers(ctx, period, a.rankingLimit)
			},
		},
	}

	pool := async.NewPool(len(tasks))
	results := pool.Execute(ctx, tasks)

	for _, name := range []string{"snapshot", "topWebsites", "topUsers"} {
		result, ok := results[name]
		if !ok {
			return nil, fmt.Errorf("report input %s did not complete", name)
		}
		if result.Err != nil {
			return nil, fmt.Errorf("error computing report input %s: %w", name, result.Err)
		}
	}

	snapshot := results["snapshot"].Data.(*analytics.Snapshot)
	topWebsites, _ := results["topWebsites"].Data.([]RankedWebsite)
	topUsers, _ := results["topUsers"].Data.([]RankedUser)

	report := &Report{
		ID:          uuid.NewString(),
		Type:        reportType,
		GeneratedAt: a.now(),
		Period:      period,
		Summary: Summary{
			NewUsers:          snapshot.NewUsers,
			TotalInteractions: snapshot.TotalInteractions,
			ContentGrowthRate: snapshot.ContentGrowth.RatePercent,
			AvgEngagement:     snapshot.EngagementRate,
		},
		Snapshot: snapshot,
		Highlights: Highlights{
			TopContent:   topWebsites,
			TopUsers:     topUsers,
			Achievements: achievements(snapshot),
		},
		Issues:          issues(snapshot),
		Recommendations: recommendations(snapshot),
	}

	if a.saver != nil {
		if err := a.saver.Save(ctx, report); err != nil {
			a.logger.Error("Failed to persist report",
				slog.String("report_id", report.ID),
				slog.Any("error", err))
		}
	}

	if err := a.deliverer.Deliver(ctx, report); err != nil {
		a.logger.Error("Failed to deliver report",
			slog.String("report_id", report.ID),
			slog.Any("error", err))
	}

	return report, nil
}

func achievements(s *analytics.Snapshot) []string {
	var out []string
	if s.UserGrowth.RatePercent >= growthAchievementPercent {
		out = append(out, fmt.Sprintf("user signups grew %.1f%% over the previous period", s.UserGrowth.RatePercent))
	}
	if s.ContentGrowth.RatePercent >= growthAchievementPercent {
		out = append(out, fmt.Sprintf("website submissions grew %.1f%% over the previous period", s.ContentGrowth.RatePercent))
	}
	if s.TotalWebsites > 0 && s.ContentApprovalRate >= approvalAchievementFloor {
		out = append(out, fmt.Sprintf("content approval rate reached %.1f%%", s.ContentApprovalRate))
	}
	return out
}

func issues(s *analytics.Snapshot) []string {
	var out []string
	if s.NewUsers == 0 {
		out = append(out, "no new signups this period")
	}
	if s.UserGrowth.RatePercent < 0 {
		out = append(out, fmt.Sprintf("user signups declined %.1f%%", -s.UserGrowth.RatePercent))
	}
	if s.ContentGrowth.RatePercent < 0 {
		out = append(out, fmt.Sprintf("website submissions declined %.1f%%", -s.ContentGrowth.RatePercent))
	}
	if s.TotalUsers > 0 && s.EngagementRate < engagementIssueFloor {
		out = append(out, fmt.Sprintf("engagement rate is at %.1f%%", s.EngagementRate))
	}
	return out
}

func recommendations(s *analytics.Snapshot) []string {
	var out []string
	if s.ContentGrowth.RatePercent < 0 {
		out = append(out, "feature community highlights to encourage new submissions")
	}
	if s.TotalUsers > 0 && s.EngagementRate < engagementIssueFloor {
		out = append(out, "run a re-engagement campaign for inactive users")
	}
	if s.TotalWebsites > 0 && s.ContentApprovalRate < approvalRecommendationBar {
		out = append(out, "review the moderation backlog and submission guidelines")
	}
	return out
}
