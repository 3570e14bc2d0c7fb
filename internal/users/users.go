// Package users defines the platform user model.
package users

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// User represents a registered member of the showcase platform. Follower and
// following counters are maintained by the platform's social workflow; the
// metrics engine only reads them.
type User struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Email          string `gorm:"uniqueIndex;not null"`
	Name           string `gorm:"not null"`
	FollowersCount int64  `gorm:"not null;default:0"`
	FollowingCount int64  `gorm:"not null;default:0"`
	CreatedAt      time.Time
	LastActiveAt   time.Time
}

// ErrUserNotFound is returned when a user lookup misses.
var ErrUserNotFound = errors.New("user not found")

// GetUserByID fetches a user or returns ErrUserNotFound.
func GetUserByID(db *gorm.DB, id int64) (*User, error) {
	var user User
	err := db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching user %d: %w", id, err)
	}
	return &user, nil
}
