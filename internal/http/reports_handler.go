package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// WeeklyReportAction generates the weekly report on demand and returns it.
func (s *Server) WeeklyReportAction(c *fiber.Ctx) error {
	report, err := s.assembler.GenerateWeekly(c.Context())
	if err != nil {
		s.logger.Error("Error generating weekly report", slog.Any("error", err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to generate report"})
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}
