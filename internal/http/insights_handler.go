package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"showroom/internal/behavior"
	"showroom/internal/users"
)

// userInsights bundles everything the engine derives for one user.
type userInsights struct {
	Profile     *behavior.UserProfile     `json:"profile"`
	Behavior    *behavior.UserBehavior    `json:"behavior"`
	Performance *behavior.UserPerformance `json:"performance"`
	Prediction  *behavior.UserPrediction  `json:"prediction"`
}

// UserInsightsAction serves the full derived view of one user: profile,
// behavior summary, performance scores and predictions.
func (s *Server) UserInsightsAction(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return badRequest(c, "invalid user id")
	}
	id := int64(userID)

	profile, err := s.profiler.BuildProfile(c.Context(), id)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "user not found"})
		}
		s.logger.Error("Error building user profile", slog.Int64("user_id", id), slog.Any("error", err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to build user insights"})
	}

	userBehavior, err := s.profiler.BuildBehavior(c.Context(), id)
	if err != nil {
		s.logger.Error("Error building user behavior", slog.Int64("user_id", id), slog.Any("error", err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to build user insights"})
	}

	performance, err := s.profiler.BuildPerformance(c.Context(), id)
	if err != nil {
		s.logger.Error("Error building user performance", slog.Int64("user_id", id), slog.Any("error", err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to build user insights"})
	}

	return c.JSON(userInsights{
		Profile:     profile,
		Behavior:    userBehavior,
		Performance: performance,
		Prediction:  s.predictor.Predict(id, userBehavior, performance),
	})
}
