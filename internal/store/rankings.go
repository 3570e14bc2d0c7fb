package store

import (
	"context"
	"fmt"

	"showroom/internal/reports"
	"showroom/internal/timeframe"
)

// TopWebsites ranks websites by interactions received inside the time frame.
func (s *Store) TopWebsites(ctx context.Context, tf timeframe.TimeFrame, limit int) ([]reports.RankedWebsite, error) {
	var ranked []reports.RankedWebsite
	query := `
		SELECT w.id AS website_id, w.title, w.url, COUNT(ar.id) AS interactions
		FROM websites w
		JOIN activity_records ar ON ar.website_id = w.id
		WHERE ar.occurred_at >= ? AND ar.occurred_at < ?
		GROUP BY w.id
		ORDER BY interactions DESC, w.id ASC
		LIMIT ?
	`
	err := s.db.WithContext(ctx).Raw(query, tf.From, tf.To, limit).Scan(&ranked).Error
	if err != nil {
		return nil, fmt.Errorf("error ranking websites: %w", err)
	}
	return ranked, nil
}

// TopUsers ranks users by actions performed inside the time frame.
func (s *Store) TopUsers(ctx context.Context, tf timeframe.TimeFrame, limit int) ([]reports.RankedUser, error) {
	var ranked []reports.RankedUser
	query := `
		SELECT u.id AS user_id, u.name, COUNT(ar.id) AS interactions
		FROM users u
		JOIN activity_records ar ON ar.user_id = u.id
		WHERE ar.occurred_at >= ? AND ar.occurred_at < ?
		GROUP BY u.id
		ORDER BY interactions DESC, u.id ASC
		LIMIT ?
	`
	err := s.db.WithContext(ctx).Raw(query, tf.From, tf.To, limit).Scan(&ranked).Error
	if err != nil {
		return nil, fmt.Errorf("error ranking users: %w", err)
	}
	return ranked, nil
}
