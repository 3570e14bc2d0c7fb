package analytics

import (
	"context"
	"fmt"
	"time"
)

// DistinctUserCounter answers distinct-user event counts against the record
// store.
type DistinctUserCounter interface {
	DistinctUserCount(ctx context.Context, action string, from, to time.Time) (int64, error)
}

// FunnelStep defines one stage of an acquisition funnel.
type FunnelStep struct {
	Name     string `json:"name"`
	EventKey string `json:"event_key"`
}

// FunnelResult is the measured conversion of one step relative to the step
// before it.
type FunnelResult struct {
	Step              FunnelStep `json:"step"`
	UserCount         int64      `json:"user_count"`
	ConversionPercent float64    `json:"conversion_percent"`
	DropoffPercent    float64    `json:"dropoff_percent"`
}

// FunnelSummary is the full funnel evaluation.
type FunnelSummary struct {
	Results                []FunnelResult `json:"results"`
	TotalConversionPercent float64        `json:"total_conversion_percent"`
}

// FunnelAnalyzer computes step-by-step conversion over an ordered list of
// funnel steps.
type FunnelAnalyzer struct {
	counter DistinctUserCounter
}

func NewFunnelAnalyzer(counter DistinctUserCounter) *FunnelAnalyzer {
	return &FunnelAnalyzer{counter: counter}
}

// ComputeFunnel evaluates the steps strictly in order: each step's conversion
// denominator is the previous step's user count, so steps cannot run
// concurrently. Step 0 is always 100% conversion. A zero previous count
// guards the next step's conversion to 0 instead of dividing by zero.
func (a *FunnelAnalyzer) ComputeFunnel(ctx context.Context, steps []FunnelStep, windowStart, windowEnd time.Time) (*FunnelSummary, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: funnel requires at least one step", ErrInvalidRange)
	}
	if windowStart.After(windowEnd) {
		return nil, fmt.Errorf("%w: funnel window start is after its end", ErrInvalidRange)
	}

	results := make([]FunnelResult, 0, len(steps))
	var previousCount int64

	for i, step := range steps {
		count, err := a.counter.DistinctUserCount(ctx, step.EventKey, windowStart, windowEnd)
		if err != nil {
			return nil, &UpstreamError{Metric: "funnel step " + step.Name, Err: err}
		}

		result := FunnelResult{Step: step, UserCount: count}
		if i == 0 {
			result.ConversionPercent = 100
			result.DropoffPercent = 0
		} else {
			result.ConversionPercent = PercentageOf(count, previousCount)
			result.DropoffPercent = 100 - result.ConversionPercent
		}

		results = append(results, result)
		previousCount = count
	}

	summary := &FunnelSummary{Results: results}
	first := results[0].UserCount
	last := results[len(results)-1].UserCount
	summary.TotalConversionPercent = PercentageOf(last, first)

	return summary, nil
}
