package http

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"showroom/internal/analytics"
	"showroom/internal/timeframe"
)

const dateLayout = "2006-01-02"

// defaultPeriodDays is the trailing window used when no period is given.
const defaultPeriodDays = 7

// parsePeriod reads the from/to query parameters as calendar dates. The
// period is half-open: "to" names the first excluded day. With neither set it
// falls back to the trailing week ending today.
func parsePeriod(c *fiber.Ctx, now time.Time) (timeframe.TimeFrame, error) {
	fromParam := c.Query("from")
	toParam := c.Query("to")

	if fromParam == "" && toParam == "" {
		to := timeframe.StartOfDay(now).AddDate(0, 0, 1)
		return timeframe.New(to.AddDate(0, 0, -defaultPeriodDays), to)
	}

	from, err := time.Parse(dateLayout, fromParam)
	if err != nil {
		return timeframe.TimeFrame{}, errors.New("invalid from date, expected YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, toParam)
	if err != nil {
		return timeframe.TimeFrame{}, errors.New("invalid to date, expected YYYY-MM-DD")
	}
	return timeframe.New(from, to)
}

// SnapshotAction serves the dashboard metrics snapshot. With
// ?mode=best_effort failed sub-metrics are zeroed and listed in diagnostics
// instead of failing the request.
func (s *Server) SnapshotAction(c *fiber.Ctx) error {
	period, err := parsePeriod(c, time.Now())
	if err != nil {
		return badRequest(c, err.Error())
	}

	if c.Query("mode") == "best_effort" {
		snapshot, diags, err := s.snapshots.BuildBestEffort(c.Context(), period)
		if err != nil {
			s.logger.Error("Error building snapshot", slog.Any("error", err))
			return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to build snapshot"})
		}
		return c.JSON(fiber.Map{
			"snapshot":    snapshot,
			"diagnostics": diags,
		})
	}

	snapshot, err := s.snapshots.Build(c.Context(), period)
	if err != nil {
		s.logger.Error("Error building snapshot", slog.Any("error", err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to build snapshot"})
	}
	return c.JSON(fiber.Map{"snapshot": snapshot})
}

// RetentionAction serves the cohort retention curve for a signup window.
func (s *Server) RetentionAction(c *fiber.Ctx) error {
	windowStart, err := time.Parse(dateLayout, c.Query("window_start"))
	if err != nil {
		return badRequest(c, "invalid window_start date, expected YYYY-MM-DD")
	}
	windowEnd, err := time.Parse(dateLayout, c.Query("window_end"))
	if err != nil {
		return badRequest(c, "invalid window_end date, expected YYYY-MM-DD")
	}
	periods := c.QueryInt("periods", 7)

	result, err := s.cohorts.ComputeRetention(c.Context(), windowStart, windowEnd, periods)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidRange) {
			return badRequest(c, err.Error())
		}
		s.logger.Error("Error computing retention", slog.Any("error", err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to compute retention"})
	}
	return c.JSON(result)
}

// funnelRequest is the POST body of the funnel endpoint.
type funnelRequest struct {
	Steps       []analytics.FunnelStep `json:"steps"`
	WindowStart string                 `json:"window_start"`
	WindowEnd   string                 `json:"window_end"`
}

// FunnelAction evaluates a caller-defined funnel over a window.
func (s *Server) FunnelAction(c *fiber.Ctx) error {
	var req funnelRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	windowStart, err := time.Parse(dateLayout, req.WindowStart)
	if err != nil {
		return badRequest(c, "invalid window_start date, expected YYYY-MM-DD")
	}
	windowEnd, err := time.Parse(dateLayout, req.WindowEnd)
	if err != nil {
		return badRequest(c, "invalid window_end date, expected YYYY-MM-DD")
	}

	summary, err := s.funnels.ComputeFunnel(c.Context(), req.Steps, windowStart, windowEnd)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidRange) {
			return badRequest(c, err.Error())
		}
		s.logger.Error("Error computing funnel", slog.Any("error", err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to compute funnel"})
	}
	return c.JSON(summary)
}
