// Package timeframe provides day-granularity time windows for metric queries.
package timeframe

import (
	"fmt"
	"time"
)

// TimeFrame represents a period between two points in time. Queries treat it
// as the half-open interval [From, To).
type TimeFrame struct {
	From time.Time
	To   time.Time
}

// New validates and builds a time frame.
func New(from, to time.Time) (TimeFrame, error) {
	if from.After(to) {
		return TimeFrame{}, fmt.Errorf("fromTime must be before toTime")
	}
	return TimeFrame{From: from, To: to}, nil
}

// Day returns the time frame covering the calendar day that contains t,
// in t's location.
func Day(t time.Time) TimeFrame {
	start := StartOfDay(t)
	return TimeFrame{From: start, To: start.AddDate(0, 0, 1)}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Duration returns the span of the time frame.
func (tf TimeFrame) Duration() time.Duration {
	return tf.To.Sub(tf.From)
}

// Previous returns the time frame of the same duration ending where this one
// starts. Used for period-over-period comparisons.
func (tf TimeFrame) Previous() TimeFrame {
	return TimeFrame{From: tf.From.Add(-tf.Duration()), To: tf.From}
}

// Shift returns the time frame moved forward by the given number of days.
func (tf TimeFrame) Shift(days int) TimeFrame {
	return TimeFrame{From: tf.From.AddDate(0, 0, days), To: tf.To.AddDate(0, 0, days)}
}

// Label formats the frame as "YYYY-MM-DD..YYYY-MM-DD".
func (tf TimeFrame) Label() string {
	return fmt.Sprintf("%s..%s", tf.From.Format("2006-01-02"), tf.To.Format("2006-01-02"))
}

// CalculateTrend returns the least-squares slope of the given series. A
// positive slope means the values are growing over time.
func CalculateTrend(points []float64) float64 {
	if len(points) < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	n := float64(len(points))

	for i, y := range points {
		x := float64(i)

		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return 0
	}

	return (n*sumXY - sumX*sumY) / denominator
}
