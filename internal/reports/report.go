// Package reports assembles periodic summary reports from the metrics engine
// and hands them to a delivery channel.
package reports

import (
	"context"
	"time"

	"showroom/internal/analytics"
	"showroom/internal/timeframe"
)

// RankedWebsite is one entry of a report's top-content list, ranked by
// interactions received during the report period.
type RankedWebsite struct {
	WebsiteID    int64  `json:"website_id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Interactions int64  `json:"interactions"`
}

// RankedUser is one entry of a report's top-users list, ranked by actions
// performed during the report period.
type RankedUser struct {
	UserID       int64  `json:"user_id"`
	Name         string `json:"name"`
	Interactions int64  `json:"interactions"`
}

// Summary is the headline-numbers block of a report.
type Summary struct {
	NewUsers          int64   `json:"new_users"`
	TotalInteractions int64   `json:"total_interactions"`
	ContentGrowthRate float64 `json:"content_growth_rate"`
	AvgEngagement     float64 `json:"avg_engagement"`
}

// Highlights carries the ranked lists and notable achievements of the period.
type Highlights struct {
	TopContent   []RankedWebsite `json:"top_content"`
	TopUsers     []RankedUser    `json:"top_users"`
	Achievements []string        `json:"achievements"`
}

// Report is one generated periodic report. Reports are immutable once
// assembled; regeneration produces a new report with a new ID.
type Report struct {
	ID              string              `json:"report_id"`
	Type            string              `json:"type"`
	GeneratedAt     time.Time           `json:"generated_at"`
	Period          timeframe.TimeFrame `json:"period"`
	Summary         Summary             `json:"summary"`
	Snapshot        *analytics.Snapshot `json:"snapshot"`
	Highlights      Highlights          `json:"highlights"`
	Issues          []string            `json:"issues"`
	Recommendations []string            `json:"recommendations"`
}

// Gateway is the record-store capability the assembler ranks with.
type Gateway interface {
	TopWebsites(ctx context.Context, tf timeframe.TimeFrame, limit int) ([]RankedWebsite, error)
	TopUsers(ctx context.Context, tf timeframe.TimeFrame, limit int) ([]RankedUser, error)
}

// SnapshotSource produces the metrics snapshot a report summarizes.
type SnapshotSource interface {
	Build(ctx context.Context, period timeframe.TimeFrame) (*analytics.Snapshot, error)
}

// Deliverable is a channel a finished report can be handed to.
type Deliverable interface {
	Deliver(ctx context.Context, report *Report) error
}

// Saver persists generated reports for later retrieval. Persistence failures
// never fail report generation.
type Saver interface {
	Save(ctx context.Context, report *Report) error
}
