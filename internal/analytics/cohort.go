package analytics

import (
	"context"
	"fmt"
	"time"

	"showroom/internal/timeframe"
)

// CohortSource answers the membership and activity queries retention needs.
type CohortSource interface {
	// SignupsBetween returns the IDs of users whose signup timestamp falls
	// in the closed window [from, to].
	SignupsBetween(ctx context.Context, from, to time.Time) ([]int64, error)
	// ActiveMemberCount returns how many of the given users had any
	// activity in [from, to), counted distinct by user.
	ActiveMemberCount(ctx context.Context, memberIDs []int64, from, to time.Time) (int64, error)
}

// Cohort is a fixed set of users grouped by signup window, frozen at
// creation and never re-evaluated.
type Cohort struct {
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	MemberIDs   []int64   `json:"-"`
	Size        int       `json:"size"`
}

// RetentionPoint is the retained share of a cohort at one period offset.
type RetentionPoint struct {
	PeriodIndex     int     `json:"period_index"`
	RetainedCount   int64   `json:"retained_count"`
	RetainedPercent float64 `json:"retained_percent"`
}

// RetentionResult is the full retention curve for one cohort.
type RetentionResult struct {
	CohortLabel string           `json:"cohort_label"`
	Size        int              `json:"size"`
	Retention   []RetentionPoint `json:"retention"`
}

// CohortRetentionAnalyzer computes per-period retained-user percentages for
// signup cohorts.
type CohortRetentionAnalyzer struct {
	source CohortSource
}

func NewCohortRetentionAnalyzer(source CohortSource) *CohortRetentionAnalyzer {
	return &CohortRetentionAnalyzer{source: source}
}

// ComputeRetention resolves the cohort for the closed signup window
// [windowStart, windowEnd], then measures activity in daily observation
// windows offset from windowEnd: period p covers
// [windowEnd+p days, windowEnd+p+1 days). It returns periods+1 points.
// An empty cohort yields all-zero percentages rather than an error.
func (a *CohortRetentionAnalyzer) ComputeRetention(ctx context.Context, windowStart, windowEnd time.Time, periods int) (*RetentionResult, error) {
	if periods < 0 {
		return nil, fmt.Errorf("%w: periods must be >= 0, got %d", ErrInvalidRange, periods)
	}
	window, err := timeframe.New(windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	memberIDs, err := a.source.SignupsBetween(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, &UpstreamError{Metric: "cohort membership", Err: err}
	}

	cohort := Cohort{
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		MemberIDs:   memberIDs,
		Size:        len(memberIDs),
	}

	retention := make([]RetentionPoint, 0, periods+1)
	for period := 0; period <= periods; period++ {
		point := RetentionPoint{PeriodIndex: period}

		if cohort.Size > 0 {
			from := windowEnd.AddDate(0, 0, period)
			to := windowEnd.AddDate(0, 0, period+1)

			count, err := a.source.ActiveMemberCount(ctx, cohort.MemberIDs, from, to)
			if err != nil {
				return nil, &UpstreamError{Metric: fmt.Sprintf("retention period %d", period), Err: err}
			}

			point.RetainedCount = count
			point.RetainedPercent = PercentageOf(count, int64(cohort.Size))
		}

		retention = append(retention, point)
	}

	return &RetentionResult{
		CohortLabel: window.Label(),
		Size:        cohort.Size,
		Retention:   retention,
	}, nil
}
