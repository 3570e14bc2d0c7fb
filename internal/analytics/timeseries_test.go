package analytics_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showroom/internal/analytics"
	"showroom/internal/timeframe"
)

// slowDayCounter returns per-day counts from a map keyed by date, optionally
// delaying earlier days so later days complete first.
type slowDayCounter struct {
	mu      sync.Mutex
	counts  map[string]analytics.DayCounts
	failDay string
	delays  map[string]time.Duration
	calls   int
}

func (c *slowDayCounter) CountsForDay(ctx context.Context, day timeframe.TimeFrame) (analytics.DayCounts, error) {
	key := day.From.Format("2006-01-02")

	c.mu.Lock()
	c.calls++
	delay := c.delays[key]
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return analytics.DayCounts{}, ctx.Err()
		}
	}

	if key == c.failDay {
		return analytics.DayCounts{}, errors.New("query timeout")
	}
	return c.counts[key], nil
}

func TestGenerateDailySeries(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	t.Run("returns exactly one point per day, oldest first", func(t *testing.T) {
		counter := &slowDayCounter{counts: map[string]analytics.DayCounts{
			"2026-03-08": {Users: 1, Websites: 2, Interactions: 3},
			"2026-03-09": {Users: 4, Websites: 5, Interactions: 6},
			"2026-03-10": {Users: 7, Websites: 8, Interactions: 9},
		}}

		points, err := analytics.GenerateDailySeries(context.Background(), counter, now, 3)
		require.NoError(t, err)
		require.Len(t, points, 3)

		assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), points[0].Date)
		assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), points[1].Date)
		assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), points[2].Date)
		assert.Equal(t, int64(1), points[0].Users)
		assert.Equal(t, int64(9), points[2].Interactions)
	})

	t.Run("output stays chronological when early days finish last", func(t *testing.T) {
		counter := &slowDayCounter{
			counts: map[string]analytics.DayCounts{
				"2026-03-09": {Users: 10},
				"2026-03-10": {Users: 20},
			},
			delays: map[string]time.Duration{
				"2026-03-09": 30 * time.Millisecond,
			},
		}

		points, err := analytics.GenerateDailySeries(context.Background(), counter, now, 2)
		require.NoError(t, err)
		require.Len(t, points, 2)
		assert.True(t, points[0].Date.Before(points[1].Date))
		assert.Equal(t, int64(10), points[0].Users)
		assert.Equal(t, int64(20), points[1].Users)
	})

	t.Run("days missing data yield zero-valued points", func(t *testing.T) {
		counter := &slowDayCounter{counts: map[string]analytics.DayCounts{}}

		points, err := analytics.GenerateDailySeries(context.Background(), counter, now, 5)
		require.NoError(t, err)
		require.Len(t, points, 5)
		for _, p := range points {
			assert.Zero(t, p.Users)
			assert.Zero(t, p.Websites)
			assert.Zero(t, p.Interactions)
		}
	})

	t.Run("one failed day fails the whole series", func(t *testing.T) {
		counter := &slowDayCounter{
			counts:  map[string]analytics.DayCounts{},
			failDay: "2026-03-09",
		}

		points, err := analytics.GenerateDailySeries(context.Background(), counter, now, 3)
		assert.Nil(t, points)
		require.Error(t, err)

		var upstream *analytics.UpstreamError
		assert.ErrorAs(t, err, &upstream)
	})

	t.Run("rejects non-positive day counts", func(t *testing.T) {
		counter := &slowDayCounter{}

		_, err := analytics.GenerateDailySeries(context.Background(), counter, now, 0)
		assert.ErrorIs(t, err, analytics.ErrInvalidRange)

		_, err = analytics.GenerateDailySeries(context.Background(), counter, now, -3)
		assert.ErrorIs(t, err, analytics.ErrInvalidRange)
	})
}
