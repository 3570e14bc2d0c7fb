package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"showroom/internal/reports"
)

// ReportRecord is a persisted generated report. The payload is the full
// report serialized as JSON; reports are immutable once saved.
type ReportRecord struct {
	ID          string `gorm:"primaryKey"`
	Type        string `gorm:"index;not null"`
	Payload     string `gorm:"not null"`
	GeneratedAt time.Time
	CreatedAt   time.Time
}

// Save persists a generated report.
func (s *Store) Save(ctx context.Context, report *reports.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("error serializing report %s: %w", report.ID, err)
	}

	record := ReportRecord{
		ID:          report.ID,
		Type:        report.Type,
		Payload:     string(payload),
		GeneratedAt: report.GeneratedAt,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("error saving report %s: %w", report.ID, err)
	}
	return nil
}
