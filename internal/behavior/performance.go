package behavior

import (
	"context"
	"fmt"

	"showroom/internal/analytics"
	"showroom/internal/timeframe"
)

// Growth trend tags.
const (
	TrendRising    = "rising"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// trendSlopeThreshold separates a flat weekly activity curve from a real
// movement; slopes within the band count as stable.
const trendSlopeThreshold = 0.5

// trendWeeks is how many trailing weeks of activity feed the trend slope.
const trendWeeks = 8

// UserPerformance scores a user's content and community footprint.
type UserPerformance struct {
	UserID                int64         `json:"user_id"`
	ContentQualityScore   float64       `json:"content_quality_score"`
	CommunityContribution float64       `json:"community_contribution"`
	GrowthTrend           string        `json:"growth_trend"`
	TopContent            []ContentStat `json:"top_content"`
}

// Content quality weights, applied to per-site averages.
const (
	qualityLikeWeight    = 2.0
	qualityCommentWeight = 4.0
	qualityViewWeight    = 0.02
)

// topContentLimit bounds the ranked content list in a performance summary.
const topContentLimit = 5

// BuildPerformance scores the user's content quality, community contribution
// and growth trend.
func (p *Profiler) BuildPerformance(ctx context.Context, userID int64) (*UserPerformance, error) {
	owned, err := p.source.OwnedWebsiteCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting websites for user %d: %w", userID, err)
	}

	received, err := p.source.EngagementReceived(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching engagement for user %d: %w", userID, err)
	}

	given, err := p.source.ContributionTotals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching contributions for user %d: %w", userID, err)
	}

	topContent, err := p.source.TopWebsitesByUser(ctx, userID, topContentLimit)
	if err != nil {
		return nil, fmt.Errorf("error ranking content for user %d: %w", userID, err)
	}

	weekly, err := p.source.WeeklyActivityCounts(ctx, userID, trendWeeks)
	if err != nil {
		return nil, fmt.Errorf("error fetching weekly activity for user %d: %w", userID, err)
	}

	return &UserPerformance{
		UserID:                userID,
		ContentQualityScore:   contentQualityScore(owned, received),
		CommunityContribution: communityContribution(given),
		GrowthTrend:           growthTrend(weekly),
		TopContent:            topContent,
	}, nil
}

// contentQualityScore rates the average reception of the user's sites,
// bounded to [0, 100]. No content means no quality signal.
func contentQualityScore(owned int64, received EngagementTotals) float64 {
	if owned == 0 {
		return 0
	}
	sites := float64(owned)
	raw := float64(received.Likes)/sites*qualityLikeWeight +
		float64(received.Comments)/sites*qualityCommentWeight +
		float64(received.Views)/sites*qualityViewWeight
	return analytics.ClampPercent(raw)
}

// communityContribution weighs the actions a user gives to others. Comments
// carry double weight; the score is unbounded by design so prolific
// contributors keep separating.
func communityContribution(given ContributionTotals) float64 {
	return float64(given.LikesGiven) +
		float64(given.CommentsGiven)*2 +
		float64(given.FollowsGiven)
}

// growthTrend tags the slope of the user's weekly activity counts.
func growthTrend(weekly []int64) string {
	points := make([]float64, len(weekly))
	for i, c := range weekly {
		points[i] = float64(c)
	}

	slope := timeframe.CalculateTrend(points)
	switch {
	case slope > trendSlopeThreshold:
		return TrendRising
	case slope < -trendSlopeThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}
