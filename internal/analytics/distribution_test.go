package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showroom/internal/analytics"
)

func TestBuildDistribution(t *testing.T) {
	t.Run("percentages cover the whole", func(t *testing.T) {
		entries := analytics.BuildDistribution([]analytics.GroupCount{
			{Label: "portfolio", Count: 50},
			{Label: "blog", Count: 30},
			{Label: "shop", Count: 20},
		})

		require.Len(t, entries, 3)
		assert.InDelta(t, 50.0, entries[0].Percentage, 0.0001)
		assert.InDelta(t, 30.0, entries[1].Percentage, 0.0001)
		assert.InDelta(t, 20.0, entries[2].Percentage, 0.0001)

		var sum float64
		for _, e := range entries {
			sum += e.Percentage
		}
		assert.InDelta(t, 100.0, sum, 0.0001)
	})

	t.Run("preserves input order and counts", func(t *testing.T) {
		entries := analytics.BuildDistribution([]analytics.GroupCount{
			{Label: "approved", Count: 3},
			{Label: "pending", Count: 1},
		})

		require.Len(t, entries, 2)
		assert.Equal(t, "approved", entries[0].Label)
		assert.Equal(t, int64(3), entries[0].Count)
		assert.Equal(t, "pending", entries[1].Label)
	})

	t.Run("empty input yields empty distribution", func(t *testing.T) {
		entries := analytics.BuildDistribution(nil)
		assert.Empty(t, entries)
	})

	t.Run("all-zero counts yield empty distribution", func(t *testing.T) {
		entries := analytics.BuildDistribution([]analytics.GroupCount{
			{Label: "portfolio", Count: 0},
			{Label: "blog", Count: 0},
		})
		assert.Empty(t, entries)
	})
}
