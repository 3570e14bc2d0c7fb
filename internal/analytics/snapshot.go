package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"showroom/internal/pkg/async"
	"showroom/internal/timeframe"
)

// StatsGateway is the record-store capability the snapshot builder fans out
// against. All queries are independent reads.
type StatsGateway interface {
	DayCounter
	TotalUsers(ctx context.Context) (int64, error)
	NewUsers(ctx context.Context, tf timeframe.TimeFrame) (int64, error)
	ActiveUsers(ctx context.Context, tf timeframe.TimeFrame) (int64, error)
	// ReturningUsers counts distinct users active in the frame who signed
	// up before it started.
	ReturningUsers(ctx context.Context, tf timeframe.TimeFrame) (int64, error)
	TotalWebsites(ctx context.Context) (int64, error)
	ApprovedWebsites(ctx context.Context) (int64, error)
	WebsitesCreated(ctx context.Context, tf timeframe.TimeFrame) (int64, error)
	TotalInteractions(ctx context.Context, tf timeframe.TimeFrame) (int64, error)
	CategoryCounts(ctx context.Context, tf timeframe.TimeFrame) ([]GroupCount, error)
	StatusCounts(ctx context.Context) ([]GroupCount, error)
}

// Snapshot is one dashboard view of the platform over a period, recomputed
// from scratch on every request.
type Snapshot struct {
	Period      timeframe.TimeFrame `json:"period"`
	GeneratedAt time.Time           `json:"generated_at"`

	TotalUsers    int64      `json:"total_users"`
	ActiveUsers   int64      `json:"active_users"`
	NewUsers      int64      `json:"new_users"`
	UserGrowth    GrowthStat `json:"user_growth"`
	RetentionRate float64    `json:"retention_rate"`

	TotalWebsites       int64      `json:"total_websites"`
	ApprovedWebsites    int64      `json:"approved_websites"`
	WebsitesCreated     int64      `json:"websites_created"`
	ContentGrowth       GrowthStat `json:"content_growth"`
	ContentApprovalRate float64    `json:"content_approval_rate"`

	TotalInteractions int64      `json:"total_interactions"`
	InteractionGrowth GrowthStat `json:"interaction_growth"`
	EngagementRate    float64    `json:"engagement_rate"`

	Series     []TimeSeriesPoint   `json:"series"`
	Categories []DistributionEntry `json:"categories"`
	Statuses   []DistributionEntry `json:"statuses"`
}

// Diagnostic names a sub-metric that was defaulted in best-effort mode.
type Diagnostic struct {
	Metric string `json:"metric"`
	Reason string `json:"reason"`
}

// SnapshotBuilder orchestrates growth math, the daily series and the
// distributions into one snapshot.
type SnapshotBuilder struct {
	gateway     StatsGateway
	logger      *slog.Logger
	seriesDays  int
	workerCount int
	now         func() time.Time
}

// SnapshotOption adjusts builder construction.
type SnapshotOption func(*SnapshotBuilder)

// WithSeriesDays sets the trailing window of the daily series.
func WithSeriesDays(days int) SnapshotOption {
	return func(b *SnapshotBuilder) { b.seriesDays = days }
}

// WithWorkerCount sets the fan-out pool size.
func WithWorkerCount(n int) SnapshotOption {
	return func(b *SnapshotBuilder) { b.workerCount = n }
}

// WithClock overrides the time source; intended for tests.
func WithClock(now func() time.Time) SnapshotOption {
	return func(b *SnapshotBuilder) { b.now = now }
}

func NewSnapshotBuilder(gateway StatsGateway, logger *slog.Logger, opts ...SnapshotOption) *SnapshotBuilder {
	b := &SnapshotBuilder{
		gateway:     gateway,
		logger:      logger,
		seriesDays:  30,
		workerCount: 12,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build computes a snapshot in fail-fast mode: any failed sub-query aborts
// the whole snapshot and nothing partial is returned.
func (b *SnapshotBuilder) Build(ctx context.Context, period timeframe.TimeFrame) (*Snapshot, error) {
	snapshot, diags := b.build(ctx, period)
	if len(diags) > 0 {
		d := diags[0]
		return nil, &UpstreamError{Metric: d.Metric, Err: fmt.Errorf("%s", d.Reason)}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// BuildBestEffort computes a snapshot where failed sub-metrics are replaced
// with zero values and named in the returned diagnostics list. The list is
// empty only when every sub-query succeeded.
func (b *SnapshotBuilder) BuildBestEffort(ctx context.Context, period timeframe.TimeFrame) (*Snapshot, []Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	snapshot, diags := b.build(ctx, period)
	for _, d := range diags {
		b.logger.Warn("snapshot sub-metric defaulted",
			slog.String("metric", d.Metric),
			slog.String("reason", d.Reason))
	}
	return snapshot, diags, nil
}

// build runs the fan-out and assembles the snapshot. Failed sub-metrics are
// zeroed and reported as diagnostics; the caller decides whether that aborts
// the snapshot (fail-fast) or degrades it (best-effort).
func (b *SnapshotBuilder) build(ctx context.Context, period timeframe.TimeFrame) (*Snapshot, []Diagnostic) {
	previous := period.Previous()
	now := b.now()

	tasks := []async.Task{
		{
			Name: "totalUsers",
			Execute: func(ctx context.Context) (interface{}, error) {
				return b.gateway.TotalUsers(ctx)
			},
		},
		{
			Name: "activeUsers",
			Execute: func(ctx context.Context) (interface{}, error) {
				return b.gateway.ActiveUsers(ctx, period)
			},
		},
		{
			Name: "newUsers",
			Execute: func(ctx context.Context) (interface{}, error) {
				return b.gateway.NewUsers(ctx, period)
			},
		},
		{
			Name: "previousNewUsers",
			Execute: func(ctx context.Context) (interface{}, error) {
				return b.gateway.NewUsers(ctx, previous)
			},
		},
		{
			Name: "returningUsers",
			Execute: func(ctx context.Context) (interface{}, error) {
				return b.gateway.ReturningUsers(ctx, period)
			},
		},
		{
			Name: "totalWebsites",
			Execute: func(ctx context.Context) (interface{}, error) {
				return b.gateway.TotalWebsites(ctx)
			},
		},
		{
			Name: "approvedWebsites",
			Execute: func(ctx context.Context) (interface{}, error) {
				return b.gateway.ApprovedWebsites(ctx)
			},
		},
		{
			Name: "websitesCreated",
			Execute: func(ctx context.Context) (interface{}, error) {
				return b.gateway.WebsitesCreated(ctx, period)
			},
		},
		{
			Name: "previousWebsitesCreated",
			Execute: func(ctx context.Context) (interface{}, error) {
				return b.gateway.WebsitesCreated(ctx, previous)
			},
		},
		{
			Name: "totalInteractions",
			Execute: func(ctx context.Context) (interface{}, error) {
				return b.gateway.TotalInteractions(ctx, period)
			},
		},
		{
			Name: "previousInteractions",
			Execute: func(ctx context.Context) (interface{}, error) {
				return b.gateway.TotalInteractions(ctx, previous)
			},
		},
		{
			Name: "series",
			Execute: func(ctx context.Context) (interface{}, error) {
				return GenerateDailySeries(ctx, b.gateway, now, b.seriesDays)
			},
		},
		{
			Name: "categories",
			Execute: func(ctx context.Context) (interface{}, error) {
				return b.gateway.CategoryCounts(ctx, period)
			},
		},
		{
			Name: "statuses",
			Execute: func(ctx context.Context) (interface{}, error) {
				return b.gateway.StatusCounts(ctx)
			},
		},
	}

	pool := async.NewPool(b.workerCount)
	results := pool.Execute(ctx, tasks)

	var diags []Diagnostic
	countOf := func(name string) int64 {
		result, ok := results[name]
		if !ok || result.Err != nil {
			diags = append(diags, diagnosticFor(name, results))
			return 0
		}
		v, ok := result.Data.(int64)
		if !ok {
			diags = append(diags, Diagnostic{Metric: name, Reason: "unexpected result type"})
			return 0
		}
		return v
	}
	groupsOf := func(name string) []GroupCount {
		result, ok := results[name]
		if !ok || result.Err != nil {
			diags = append(diags, diagnosticFor(name, results))
			return nil
		}
		v, _ := result.Data.([]GroupCount)
		return v
	}

	snapshot := &Snapshot{
		Period:      period,
		GeneratedAt: now,
	}

	snapshot.TotalUsers = countOf("totalUsers")
	snapshot.ActiveUsers = countOf("activeUsers")
	snapshot.NewUsers = countOf("newUsers")
	previousNewUsers := countOf("previousNewUsers")
	returningUsers := countOf("returningUsers")
	snapshot.TotalWebsites = countOf("totalWebsites")
	snapshot.ApprovedWebsites = countOf("approvedWebsites")
	snapshot.WebsitesCreated = countOf("websitesCreated")
	previousWebsitesCreated := countOf("previousWebsitesCreated")
	snapshot.TotalInteractions = countOf("totalInteractions")
	previousInteractions := countOf("previousInteractions")

	if result, ok := results["series"]; ok && result.Err == nil {
		if series, ok := result.Data.([]TimeSeriesPoint); ok {
			snapshot.Series = series
		}
	} else {
		diags = append(diags, diagnosticFor("series", results))
		snapshot.Series = []TimeSeriesPoint{}
	}

	snapshot.Categories = BuildDistribution(groupsOf("categories"))
	snapshot.Statuses = BuildDistribution(groupsOf("statuses"))

	snapshot.UserGrowth = NewGrowthStat(previousNewUsers, snapshot.NewUsers)
	snapshot.ContentGrowth = NewGrowthStat(previousWebsitesCreated, snapshot.WebsitesCreated)
	snapshot.InteractionGrowth = NewGrowthStat(previousInteractions, snapshot.TotalInteractions)
	snapshot.ContentApprovalRate = PercentageOf(snapshot.ApprovedWebsites, snapshot.TotalWebsites)
	snapshot.EngagementRate = PercentageOf(snapshot.ActiveUsers, snapshot.TotalUsers)
	// Retention over users who predate the period.
	snapshot.RetentionRate = PercentageOf(returningUsers, snapshot.TotalUsers-snapshot.NewUsers)

	return snapshot, diags
}

func diagnosticFor(name string, results map[string]async.Result) Diagnostic {
	if result, ok := results[name]; ok && result.Err != nil {
		return Diagnostic{Metric: name, Reason: result.Err.Error()}
	}
	return Diagnostic{Metric: name, Reason: "query did not complete"}
}
