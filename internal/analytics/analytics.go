// Package analytics turns raw counts and activity records from the record
// store into dashboard snapshots, cohort retention curves and acquisition
// funnels.
//
// The package is organized into focused modules:
//   - growth.go: growth-rate and percentage math with divide-by-zero guards
//   - timeseries.go: day-bucketed trailing count series
//   - distribution.go: grouped counts as percentage distributions
//   - cohort.go: signup-cohort retention over daily periods
//   - funnel.go: ordered step conversion/drop-off
//   - snapshot.go: concurrent fan-out building one dashboard snapshot
//
// Every computation is a pure function of gateway query results; the package
// holds no state between calls.
package analytics

import "errors"

// ErrInvalidRange is returned when a request is malformed (negative period
// count, empty funnel, inverted window) and is rejected before any query is
// issued.
var ErrInvalidRange = errors.New("invalid range")

// UpstreamError wraps a failed record-store sub-query with the metric that
// needed it.
type UpstreamError struct {
	Metric string
	Err    error
}

func (e *UpstreamError) Error() string {
	return "upstream query for " + e.Metric + " failed: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
