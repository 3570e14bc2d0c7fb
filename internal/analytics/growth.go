package analytics

// GrowthStat holds a period-over-period comparison for one metric.
type GrowthStat struct {
	Previous    int64   `json:"previous"`
	Current     int64   `json:"current"`
	RatePercent float64 `json:"rate_percent"`
}

// NewGrowthStat computes the growth rate between two counts.
func NewGrowthStat(previous, current int64) GrowthStat {
	return GrowthStat{
		Previous:    previous,
		Current:     current,
		RatePercent: GrowthRate(previous, current),
	}
}

// GrowthRate returns the signed percentage change from previous to current.
// A zero baseline returns 100 regardless of current, including 0 to 0.
// This mirrors the dashboard's established convention of showing a fresh
// metric as fully grown rather than dividing by zero; see DESIGN.md before
// changing it.
func GrowthRate(previous, current int64) float64 {
	if previous == 0 {
		return 100
	}
	return float64(current-previous) / float64(previous) * 100
}

// PercentageOf returns part as a percentage of total, 0 when total is 0.
func PercentageOf(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// ClampPercent bounds v to [0, 100].
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
