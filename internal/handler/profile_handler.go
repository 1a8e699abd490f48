package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/service"
	"github.com/mindlift/mindlift-api/internal/utils"
)

// ProfileHandler exposes member profile and dashboard endpoints.
type ProfileHandler struct {
	profiles  service.ProfileService
	dashboard service.DashboardService
	logger    zerolog.Logger
}

// NewProfileHandler creates a profile handler instance.
func NewProfileHandler(profiles service.ProfileService, dashboard service.DashboardService, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:  profiles,
		dashboard: dashboard,
		logger:    logger.With().Str("component", "profile_handler").Logger(),
	}
}

// Register binds the profile routes under the provided router group.
func (h *ProfileHandler) Register(router fiber.Router) {
	router.Get("/:username", h.get)
	router.Patch("/:username", h.update)
}

// RegisterDashboard binds the dashboard route under the provided router group.
func (h *ProfileHandler) RegisterDashboard(router fiber.Router) {
	router.Get("/:username", h.overview)
}

func (h *ProfileHandler) get(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))
	if username == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "username required")
	}

	profile, err := h.profiles.Get(requestContext(c), username)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Str("username", username).Msg("failed to load profile")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "profile", profile)
}

func (h *ProfileHandler) update(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))
	if username == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "username required")
	}

	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.profiles.Update(requestContext(c), username, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "profile not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("username", username).Msg("failed to update profile")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "profile updated", profile)
}

func (h *ProfileHandler) overview(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))
	if username == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "username required")
	}

	overview, err := h.dashboard.Overview(requestContext(c), username)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Str("username", username).Msg("failed to build dashboard overview")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "dashboard", overview)
}
