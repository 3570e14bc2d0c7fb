// Package behavior builds per-user profiles, behavior summaries, performance
// scores and churn predictions from bounded activity history.
package behavior

import (
	"context"
	"fmt"
	"time"

	"showroom/internal/activity"
	"showroom/internal/users"
)

// Source is the record-store capability the profiler reads from.
type Source interface {
	// UserByID returns the user or users.ErrUserNotFound.
	UserByID(ctx context.Context, id int64) (*users.User, error)
	// RecentActivity returns up to limit records for the user, most recent
	// first.
	RecentActivity(ctx context.Context, userID int64, limit int) ([]activity.Record, error)
	OwnedWebsiteCount(ctx context.Context, userID int64) (int64, error)
	EngagementReceived(ctx context.Context, userID int64) (EngagementTotals, error)
	ContributionTotals(ctx context.Context, userID int64) (ContributionTotals, error)
	TopWebsitesByUser(ctx context.Context, userID int64, limit int) ([]ContentStat, error)
	WeeklyActivityCounts(ctx context.Context, userID int64, weeks int) ([]int64, error)
}

// EngagementTotals are the aggregate reactions a user's content received.
type EngagementTotals struct {
	Likes    int64
	Views    int64
	Comments int64
}

// ContributionTotals are the actions a user gave to others' content.
type ContributionTotals struct {
	LikesGiven    int64
	CommentsGiven int64
	FollowsGiven  int64
}

// ContentStat is one ranked piece of a user's content.
type ContentStat struct {
	WebsiteID int64  `json:"website_id"`
	Title     string `json:"title"`
	Likes     int64  `json:"likes"`
	Views     int64  `json:"views"`
}

// ActionFrequency is one row of the per-action frequency table. Actions
// outside the known set keep their raw name under KindOther. LastSeen is the
// most recent occurrence of the action.
type ActionFrequency struct {
	Action   string        `json:"action"`
	Kind     activity.Kind `json:"kind"`
	Count    int           `json:"count"`
	LastSeen time.Time     `json:"last_seen"`
}

// UserBehavior summarizes a bounded window of a user's most recent activity.
// Session-level metrics (duration, pages per session, bounce rate) cannot be
// derived from activity counts alone; they stay nil until a session tracker
// is wired in, and SessionDataAvailable reflects that.
type UserBehavior struct {
	UserID               int64             `json:"user_id"`
	MostActiveHours      []int             `json:"most_active_hours"`
	HourCounts           [24]int           `json:"hour_counts"`
	Frequencies          []ActionFrequency `json:"frequencies"`
	LastActivity         time.Time         `json:"last_activity"`
	SessionDataAvailable bool              `json:"session_data_available"`
	AvgSessionSeconds    *float64          `json:"avg_session_seconds,omitempty"`
	PagesPerSession      *float64          `json:"pages_per_session,omitempty"`
	BounceRate           *float64          `json:"bounce_rate,omitempty"`
}

// activeHourPlateau includes every hour bucket whose count reaches this share
// of the busiest bucket, so ties and near-ties all count as "most active".
const activeHourPlateau = 0.8

// BuildBehavior summarizes the user's capped recent activity window.
func (p *Profiler) BuildBehavior(ctx context.Context, userID int64) (*UserBehavior, error) {
	records, err := p.source.RecentActivity(ctx, userID, p.activityLimit)
	if err != nil {
		return nil, fmt.Errorf("error fetching recent activity for user %d: %w", userID, err)
	}

	b := &UserBehavior{UserID: userID}

	if len(records) > 0 {
		b.LastActivity = records[0].OccurredAt
	}

	// Hour-of-day buckets.
	for _, r := range records {
		b.HourCounts[r.OccurredAt.Hour()]++
	}
	maxCount := 0
	for _, c := range b.HourCounts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount > 0 {
		threshold := activeHourPlateau * float64(maxCount)
		for hour, c := range b.HourCounts {
			if float64(c) >= threshold {
				b.MostActiveHours = append(b.MostActiveHours, hour)
			}
		}
	}

	// Frequency table in first-seen order, keyed by decoded action. Records
	// arrive most recent first, so the first occurrence of an action carries
	// its most recent timestamp.
	index := make(map[string]int)
	for _, r := range records {
		a := activity.Decode(r)
		if i, seen := index[a.Name]; seen {
			b.Frequencies[i].Count++
			continue
		}
		index[a.Name] = len(b.Frequencies)
		b.Frequencies = append(b.Frequencies, ActionFrequency{
			Action:   a.Name,
			Kind:     a.Kind,
			Count:    1,
			LastSeen: r.OccurredAt,
		})
	}

	return b, nil
}
