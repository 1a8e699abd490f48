package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/service"
	"github.com/mindlift/mindlift-api/internal/utils"
)

// WorkoutHandler exposes the workout generation endpoint.
type WorkoutHandler struct {
	service service.WorkoutService
	logger  zerolog.Logger
}

// NewWorkoutHandler creates a workout handler instance.
func NewWorkoutHandler(service service.WorkoutService, logger zerolog.Logger) *WorkoutHandler {
	return &WorkoutHandler{
		service: service,
		logger:  logger.With().Str("component", "workout_handler").Logger(),
	}
}

// Register binds the workout routes under the provided router group.
func (h *WorkoutHandler) Register(router fiber.Router) {
	router.Post("/generate", h.generate)
	router.Post("/chat", h.chat)
}

func (h *WorkoutHandler) generate(c *fiber.Ctx) error {
	var payload dto.WorkoutGenerateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	section, err := h.service.GenerateSection(requestContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to generate workout section")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "workout section", section)
}

func (h *WorkoutHandler) chat(c *fiber.Ctx) error {
	var payload dto.FitnessChatRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	reply, err := h.service.Chat(requestContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to answer fitness question")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "coaching reply", reply)
}
