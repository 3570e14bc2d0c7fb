// Package websites defines the submitted-website model.
package websites

import (
	"time"
)

// Website moderation statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Website is a site submitted to the showcase. Like and view counters are
// denormalized by the interaction workflow; the metrics engine reads them for
// rankings and quality scoring.
type Website struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	UserID     int64  `gorm:"index;not null"`
	Title      string `gorm:"not null"`
	URL        string `gorm:"not null"`
	Category   string `gorm:"index;not null"`
	Status     string `gorm:"index;not null;default:pending"`
	LikesCount int64  `gorm:"not null;default:0"`
	ViewsCount int64  `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
