package http

import (
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	DBStatus  string    `json:"db_status"`
}

// HealthAction handles the health check endpoint
func (s *Server) HealthAction(c *fiber.Ctx) error {
	dbStatus := "ok"

	if s.db == nil {
		dbStatus = "error"
		s.logger.Error("Database connection unavailable")
	} else {
		sqlDB, err := s.db.DB()
		if err != nil {
			dbStatus = "error"
			s.logger.Error("Database connection error", slog.Any("error", err))
		} else if err := sqlDB.Ping(); err != nil {
			dbStatus = "error"
			s.logger.Error("Database ping failed", slog.Any("error", err))
		}
	}

	health := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		DBStatus:  dbStatus,
	}

	if dbStatus != "ok" {
		health.Status = "degraded"
	}

	return c.JSON(health)
}
