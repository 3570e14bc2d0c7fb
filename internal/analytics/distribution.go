package analytics

// GroupCount is a labeled count coming out of a grouping query.
type GroupCount struct {
	Label string
	Count int64
}

// DistributionEntry is one slice of a percentage distribution.
type DistributionEntry struct {
	Label      string  `json:"label"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// BuildDistribution converts grouped counts into a percentage distribution.
// An empty or all-zero grouping yields an empty distribution, never NaN.
func BuildDistribution(groups []GroupCount) []DistributionEntry {
	if len(groups) == 0 {
		return []DistributionEntry{}
	}

	var total int64
	for _, g := range groups {
		total += g.Count
	}
	if total == 0 {
		return []DistributionEntry{}
	}

	entries := make([]DistributionEntry, len(groups))
	for i, g := range groups {
		entries[i] = DistributionEntry{
			Label:      g.Label,
			Count:      g.Count,
			Percentage: PercentageOf(g.Count, total),
		}
	}

	return entries
}
