package behavior

import (
	"context"
	"fmt"
	"time"

	"showroom/internal/analytics"
)

// UserProfile is the aggregate view of one user's presence on the platform.
type UserProfile struct {
	UserID           int64     `json:"user_id"`
	RegisteredAt     time.Time `json:"registered_at"`
	LastActiveAt     time.Time `json:"last_active_at"`
	OwnedWebsites    int64     `json:"owned_websites"`
	LikesReceived    int64     `json:"likes_received"`
	ViewsReceived    int64     `json:"views_received"`
	CommentsReceived int64     `json:"comments_received"`
	Followers        int64     `json:"followers"`
	Following        int64     `json:"following"`
	EngagementScore  float64   `json:"engagement_score"`
}

// Profiler builds profiles, behavior summaries and performance scores for
// individual users. Every call recomputes from the record store.
type Profiler struct {
	source        Source
	activityLimit int
}

// NewProfiler creates a profiler. activityLimit caps how many recent records
// the behavior summary scans.
func NewProfiler(source Source, activityLimit int) *Profiler {
	if activityLimit <= 0 {
		activityLimit = 100
	}
	return &Profiler{source: source, activityLimit: activityLimit}
}

// Engagement score weights. A handful of comments or likes moves the score
// noticeably; views alone move it slowly.
const (
	likeWeight    = 0.5
	commentWeight = 1.5
	viewWeight    = 0.05
)

// BuildProfile assembles a user's profile. Returns users.ErrUserNotFound for
// unknown users.
func (p *Profiler) BuildProfile(ctx context.Context, userID int64) (*UserProfile, error) {
	user, err := p.source.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	owned, err := p.source.OwnedWebsiteCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting websites for user %d: %w", userID, err)
	}

	received, err := p.source.EngagementReceived(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching engagement for user %d: %w", userID, err)
	}

	return &UserProfile{
		UserID:           user.ID,
		RegisteredAt:     user.CreatedAt,
		LastActiveAt:     user.LastActiveAt,
		OwnedWebsites:    owned,
		LikesReceived:    received.Likes,
		ViewsReceived:    received.Views,
		CommentsReceived: received.Comments,
		Followers:        user.FollowersCount,
		Following:        user.FollowingCount,
		EngagementScore:  engagementScore(received),
	}, nil
}

// engagementScore combines likes, views and comments into one bounded,
// comparable number.
func engagementScore(totals EngagementTotals) float64 {
	raw := float64(totals.Likes)*likeWeight +
		float64(totals.Comments)*commentWeight +
		float64(totals.Views)*viewWeight
	return analytics.ClampPercent(raw)
}
