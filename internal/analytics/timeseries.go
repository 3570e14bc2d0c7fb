package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"showroom/internal/timeframe"
)

// DayCounts are the per-day totals the dashboard charts.
type DayCounts struct {
	Users        int64
	Websites     int64
	Interactions int64
}

// DayCounter answers single-day count queries against the record store.
type DayCounter interface {
	CountsForDay(ctx context.Context, day timeframe.TimeFrame) (DayCounts, error)
}

// TimeSeriesPoint is one day of the dashboard series.
type TimeSeriesPoint struct {
	Date         time.Time `json:"date"`
	Users        int64     `json:"users"`
	Websites     int64     `json:"websites"`
	Interactions int64     `json:"interactions"`
}

// maxConcurrentDayQueries bounds the per-day fan-out so a long series does
// not exhaust the connection pool.
const maxConcurrentDayQueries = 8

// GenerateDailySeries builds a trailing series of exactly days points ending
// on the calendar day containing now, oldest first. Each day is queried as
// the half-open interval [midnight, midnight+24h) in now's location. Queries
// run concurrently; results are written by index so output order is
// chronological regardless of completion order. Any failed day fails the
// whole series and cancels the queries still in flight.
func GenerateDailySeries(ctx context.Context, counter DayCounter, now time.Time, days int) ([]TimeSeriesPoint, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", ErrInvalidRange, days)
	}

	points := make([]TimeSeriesPoint, days)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDayQueries)

	for i := 0; i < days; i++ {
		i := i
		day := timeframe.Day(now.AddDate(0, 0, -(days - 1 - i)))

		g.Go(func() error {
			counts, err := counter.CountsForDay(ctx, day)
			if err != nil {
				return &UpstreamError{Metric: "day " + day.From.Format("2006-01-02"), Err: err}
			}
			points[i] = TimeSeriesPoint{
				Date:         day.From,
				Users:        counts.Users,
				Websites:     counts.Websites,
				Interactions: counts.Interactions,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return points, nil
}
