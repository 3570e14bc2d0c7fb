package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showroom/internal/analytics"
)

// fakeDistinctCounter maps event keys to distinct-user counts.
type fakeDistinctCounter struct {
	counts map[string]int64
	err    error
	order  []string
}

func (f *fakeDistinctCounter) DistinctUserCount(ctx context.Context, action string, from, to time.Time) (int64, error) {
	f.order = append(f.order, action)
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[action], nil
}

func TestComputeFunnel(t *testing.T) {
	windowStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	steps := []analytics.FunnelStep{
		{Name: "Visited", EventKey: "visit"},
		{Name: "Signed up", EventKey: "signup"},
		{Name: "Purchased", EventKey: "purchase"},
	}

	t.Run("conversion is relative to the previous step", func(t *testing.T) {
		counter := &fakeDistinctCounter{counts: map[string]int64{
			"visit":    100,
			"signup":   40,
			"purchase": 10,
		}}
		analyzer := analytics.NewFunnelAnalyzer(counter)

		summary, err := analyzer.ComputeFunnel(context.Background(), steps, windowStart, windowEnd)
		require.NoError(t, err)
		require.Len(t, summary.Results, 3)

		assert.InDelta(t, 100.0, summary.Results[0].ConversionPercent, 0.0001)
		assert.Zero(t, summary.Results[0].DropoffPercent)

		assert.Equal(t, int64(40), summary.Results[1].UserCount)
		assert.InDelta(t, 40.0, summary.Results[1].ConversionPercent, 0.0001)
		assert.InDelta(t, 60.0, summary.Results[1].DropoffPercent, 0.0001)

		assert.InDelta(t, 25.0, summary.Results[2].ConversionPercent, 0.0001)
		assert.InDelta(t, 75.0, summary.Results[2].DropoffPercent, 0.0001)

		assert.InDelta(t, 10.0, summary.TotalConversionPercent, 0.0001)
	})

	t.Run("steps are measured strictly in order", func(t *testing.T) {
		counter := &fakeDistinctCounter{counts: map[string]int64{}}
		analyzer := analytics.NewFunnelAnalyzer(counter)

		_, err := analyzer.ComputeFunnel(context.Background(), steps, windowStart, windowEnd)
		require.NoError(t, err)
		assert.Equal(t, []string{"visit", "signup", "purchase"}, counter.order)
	})

	t.Run("an empty step guards the next conversion to zero", func(t *testing.T) {
		counter := &fakeDistinctCounter{counts: map[string]int64{
			"visit":    100,
			"signup":   0,
			"purchase": 5,
		}}
		analyzer := analytics.NewFunnelAnalyzer(counter)

		summary, err := analyzer.ComputeFunnel(context.Background(), steps, windowStart, windowEnd)
		require.NoError(t, err)

		assert.Zero(t, summary.Results[1].ConversionPercent)
		assert.Zero(t, summary.Results[2].ConversionPercent)
	})

	t.Run("empty first step keeps the total at zero", func(t *testing.T) {
		counter := &fakeDistinctCounter{counts: map[string]int64{}}
		analyzer := analytics.NewFunnelAnalyzer(counter)

		summary, err := analyzer.ComputeFunnel(context.Background(), steps, windowStart, windowEnd)
		require.NoError(t, err)
		assert.Zero(t, summary.TotalConversionPercent)
	})

	t.Run("single step funnel converts fully", func(t *testing.T) {
		counter := &fakeDistinctCounter{counts: map[string]int64{"visit": 12}}
		analyzer := analytics.NewFunnelAnalyzer(counter)

		summary, err := analyzer.ComputeFunnel(context.Background(), steps[:1], windowStart, windowEnd)
		require.NoError(t, err)
		require.Len(t, summary.Results, 1)
		assert.InDelta(t, 100.0, summary.TotalConversionPercent, 0.0001)
	})

	t.Run("rejects an empty step list", func(t *testing.T) {
		analyzer := analytics.NewFunnelAnalyzer(&fakeDistinctCounter{})

		_, err := analyzer.ComputeFunnel(context.Background(), nil, windowStart, windowEnd)
		assert.ErrorIs(t, err, analytics.ErrInvalidRange)
	})

	t.Run("wraps counter failures with the step name", func(t *testing.T) {
		counter := &fakeDistinctCounter{err: errors.New("disk I/O error")}
		analyzer := analytics.NewFunnelAnalyzer(counter)

		_, err := analyzer.ComputeFunnel(context.Background(), steps, windowStart, windowEnd)
		require.Error(t, err)

		var upstream *analytics.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, "funnel step Visited", upstream.Metric)
	})
}
