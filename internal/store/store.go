// Package store implements the record-store gateway the metrics engine
// queries: counting, filtering and ranking over users, websites and activity
// records. The engine packages consume it through their own narrow
// interfaces; every method here is an independent read, except report
// persistence and activity pruning.
package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"showroom/internal/activity"
	"showroom/internal/analytics"
	"showroom/internal/behavior"
	"showroom/internal/timeframe"
	"showroom/internal/users"
	"showroom/internal/websites"
)

// Store is the gorm-backed gateway.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// TotalUsers counts every registered user.
func (s *Store) TotalUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&users.User{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return count, nil
}

// NewUsers counts users who signed up inside the time frame.
func (s *Store) NewUsers(ctx context.Context, tf timeframe.TimeFrame) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&users.User{}).
		Where("created_at >= ? AND created_at < ?", tf.From, tf.To).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting new users: %w", err)
	}
	return count, nil
}

// ActiveUsers counts distinct users with any activity inside the time frame.
func (s *Store) ActiveUsers(ctx context.Context, tf timeframe.TimeFrame) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(DISTINCT user_id)
		FROM activity_records
		WHERE occurred_at >= ? AND occurred_at < ?
	`
	err := s.db.WithContext(ctx).Raw(query, tf.From, tf.To).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting active users: %w", err)
	}
	return count, nil
}

// ReturningUsers counts distinct users active inside the time frame who
// signed up before it started.
func (s *Store) ReturningUsers(ctx context.Context, tf timeframe.TimeFrame) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(DISTINCT ar.user_id)
		FROM activity_records ar
		JOIN users u ON u.id = ar.user_id
		WHERE ar.occurred_at >= ? AND ar.occurred_at < ?
		  AND u.created_at < ?
	`
	err := s.db.WithContext(ctx).Raw(query, tf.From, tf.To, tf.From).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting returning users: %w", err)
	}
	return count, nil
}

// TotalWebsites counts every submitted website regardless of status.
func (s *Store) TotalWebsites(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&websites.Website{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting websites: %w", err)
	}
	return count, nil
}

// ApprovedWebsites counts websites that passed moderation.
func (s *Store) ApprovedWebsites(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&websites.Website{}).
		Where("status = ?", websites.StatusApproved).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting approved websites: %w", err)
	}
	return count, nil
}

// WebsitesCreated counts websites submitted inside the time frame.
func (s *Store) WebsitesCreated(ctx context.Context, tf timeframe.TimeFrame) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&websites.Website{}).
		Where("created_at >= ? AND created_at < ?", tf.From, tf.To).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting created websites: %w", err)
	}
	return count, nil
}

// TotalInteractions counts activity records inside the time frame.
func (s *Store) TotalInteractions(ctx context.Context, tf timeframe.TimeFrame) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&activity.Record{}).
		Where("occurred_at >= ? AND occurred_at < ?", tf.From, tf.To).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting interactions: %w", err)
	}
	return count, nil
}

// CountsForDay answers the three per-day series counts in one round trip.
func (s *Store) CountsForDay(ctx context.Context, day timeframe.TimeFrame) (analytics.DayCounts, error) {
	var counts analytics.DayCounts
	query := `
		SELECT
			(SELECT COUNT(*) FROM users
			 WHERE created_at >= ? AND created_at < ?) AS users,
			(SELECT COUNT(*) FROM websites
			 WHERE created_at >= ? AND created_at < ?) AS websites,
			(SELECT COUNT(*) FROM activity_records
			 WHERE occurred_at >= ? AND occurred_at < ?) AS interactions
	`
	err := s.db.WithContext(ctx).
		Raw(query, day.From, day.To, day.From, day.To, day.From, day.To).
		Scan(&counts).Error
	if err != nil {
		return analytics.DayCounts{}, fmt.Errorf("error counting day %s: %w", day.From.Format("2006-01-02"), err)
	}
	return counts, nil
}

// CategoryCounts groups websites submitted inside the time frame by category,
// busiest first.
func (s *Store) CategoryCounts(ctx context.Context, tf timeframe.TimeFrame) ([]analytics.GroupCount, error) {
	var groups []analytics.GroupCount
	query := `
		SELECT category AS label, COUNT(*) AS count
		FROM websites
		WHERE created_at >= ? AND created_at < ?
		GROUP BY category
		ORDER BY count DESC, category ASC
	`
	err := s.db.WithContext(ctx).Raw(query, tf.From, tf.To).Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("error grouping websites by category: %w", err)
	}
	return groups, nil
}

// StatusCounts groups all websites by moderation status.
func (s *Store) StatusCounts(ctx context.Context) ([]analytics.GroupCount, error) {
	var groups []analytics.GroupCount
	query := `
		SELECT status AS label, COUNT(*) AS count
		FROM websites
		GROUP BY status
		ORDER BY count DESC, status ASC
	`
	err := s.db.WithContext(ctx).Raw(query).Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("error grouping websites by status: %w", err)
	}
	return groups, nil
}

// SignupsBetween returns the IDs of users who signed up in the closed window
// [from, to], ordered by ID for stable cohort membership.
func (s *Store) SignupsBetween(ctx context.Context, from, to time.Time) ([]int64, error) {
	var ids []int64
	query := `
		SELECT id FROM users
		WHERE created_at >= ? AND created_at <= ?
		ORDER BY id ASC
	`
	err := s.db.WithContext(ctx).Raw(query, from, to).Scan(&ids).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching signups: %w", err)
	}
	return ids, nil
}

// ActiveMemberCount counts how many of the given users had any activity in
// [from, to), distinct by user.
func (s *Store) ActiveMemberCount(ctx context.Context, memberIDs []int64, from, to time.Time) (int64, error) {
	if len(memberIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&activity.Record{}).
		Distinct("user_id").
		Where("user_id IN ?", memberIDs).
		Where("occurred_at >= ? AND occurred_at < ?", from, to).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting active cohort members: %w", err)
	}
	return count, nil
}

// DistinctUserCount counts distinct users who performed the action in
// [from, to).
func (s *Store) DistinctUserCount(ctx context.Context, action string, from, to time.Time) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(DISTINCT user_id)
		FROM activity_records
		WHERE action = ? AND occurred_at >= ? AND occurred_at < ?
	`
	err := s.db.WithContext(ctx).Raw(query, action, from, to).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting users for action %s: %w", action, err)
	}
	return count, nil
}

// UserByID fetches a user or returns users.ErrUserNotFound.
func (s *Store) UserByID(ctx context.Context, id int64) (*users.User, error) {
	return users.GetUserByID(s.db.WithContext(ctx), id)
}

// RecentActivity returns up to limit of the user's records, most recent
// first.
func (s *Store) RecentActivity(ctx context.Context, userID int64, limit int) ([]activity.Record, error) {
	var records []activity.Record
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching recent activity: %w", err)
	}
	return records, nil
}

// OwnedWebsiteCount counts the websites a user has submitted.
func (s *Store) OwnedWebsiteCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&websites.Website{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("error counting owned websites: %w", err)
	}
	return count, nil
}

// EngagementReceived totals the reactions a user's websites collected: the
// denormalized like and view counters, plus comment records targeting their
// sites.
func (s *Store) EngagementReceived(ctx context.Context, userID int64) (behavior.EngagementTotals, error) {
	var totals behavior.EngagementTotals
	query := `
		SELECT
			COALESCE(SUM(likes_count), 0) AS likes,
			COALESCE(SUM(views_count), 0) AS views,
			(SELECT COUNT(*)
			 FROM activity_records ar
			 JOIN websites w ON w.id = ar.website_id
			 WHERE w.user_id = ? AND ar.action = ?) AS comments
		FROM websites
		WHERE user_id = ?
	`
	err := s.db.WithContext(ctx).
		Raw(query, userID, string(activity.KindComment), userID).
		Scan(&totals).Error
	if err != nil {
		return behavior.EngagementTotals{}, fmt.Errorf("error totaling engagement received: %w", err)
	}
	return totals, nil
}

// ContributionTotals counts the likes, comments and follows a user gave.
func (s *Store) ContributionTotals(ctx context.Context, userID int64) (behavior.ContributionTotals, error) {
	var totals behavior.ContributionTotals
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN action = ? THEN 1 ELSE 0 END), 0) AS likes_given,
			COALESCE(SUM(CASE WHEN action = ? THEN 1 ELSE 0 END), 0) AS comments_given,
			COALESCE(SUM(CASE WHEN action = ? THEN 1 ELSE 0 END), 0) AS follows_given
		FROM activity_records
		WHERE user_id = ?
	`
	err := s.db.WithContext(ctx).
		Raw(query, string(activity.KindLike), string(activity.KindComment), string(activity.KindFollow), userID).
		Scan(&totals).Error
	if err != nil {
		return behavior.ContributionTotals{}, fmt.Errorf("error totaling contributions: %w", err)
	}
	return totals, nil
}

// TopWebsitesByUser ranks a user's own websites by reception.
func (s *Store) TopWebsitesByUser(ctx context.Context, userID int64, limit int) ([]behavior.ContentStat, error) {
	var stats []behavior.ContentStat
	query := `
		SELECT id AS website_id, title, likes_count AS likes, views_count AS views
		FROM websites
		WHERE user_id = ?
		ORDER BY likes_count * 2 + views_count DESC, id ASC
		LIMIT ?
	`
	err := s.db.WithContext(ctx).Raw(query, userID, limit).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("error ranking websites for user %d: %w", userID, err)
	}
	return stats, nil
}

// WeeklyActivityCounts buckets the user's activity into trailing weekly
// counts, oldest week first. The newest bucket ends now.
func (s *Store) WeeklyActivityCounts(ctx context.Context, userID int64, weeks int) ([]int64, error) {
	if weeks <= 0 {
		return []int64{}, nil
	}

	start := time.Now().UTC().AddDate(0, 0, -weeks*7)

	type weekCount struct {
		Week  int
		Count int64
	}
	var rows []weekCount
	query := `
		SELECT CAST((JULIANDAY(occurred_at) - JULIANDAY(?)) / 7 AS INTEGER) AS week,
		       COUNT(*) AS count
		FROM activity_records
		WHERE user_id = ? AND occurred_at >= ?
		GROUP BY week
	`
	err := s.db.WithContext(ctx).Raw(query, start, userID, start).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error bucketing weekly activity for user %d: %w", userID, err)
	}

	counts := make([]int64, weeks)
	for _, row := range rows {
		if row.Week >= 0 && row.Week < weeks {
			counts[row.Week] = row.Count
		}
	}
	return counts, nil
}

// PruneActivityBefore deletes activity records older than the cutoff and
// returns how many rows were removed.
func (s *Store) PruneActivityBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("occurred_at < ?", cutoff).
		Delete(&activity.Record{})
	if result.Error != nil {
		return 0, fmt.Errorf("error pruning activity records: %w", result.Error)
	}
	return result.RowsAffected, nil
}
