package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/service"
	"github.com/mindlift/mindlift-api/internal/utils"
)

// PostHandler exposes the community feed endpoints.
type PostHandler struct {
	service service.PostService
	logger  zerolog.Logger
}

// NewPostHandler creates a post handler instance.
func NewPostHandler(service service.PostService, logger zerolog.Logger) *PostHandler {
	return &PostHandler{
		service: service,
		logger:  logger.With().Str("component", "post_handler").Logger(),
	}
}

// Register binds the feed routes under the provided router group.
func (h *PostHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/", h.create)
	router.Get("/:id", h.get)
	router.Post("/:id/like", h.like)
	router.Post("/:id/share", h.share)
	router.Post("/:id/bookmark", h.toggleBookmark)
	router.Post("/:id/comments", h.addComment)
}

func (h *PostHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	posts, err := h.service.List(requestContext(c), limit, offset)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list posts")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "posts", posts)
}

func (h *PostHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid post id")
	}

	post, err := h.service.Get(requestContext(c), id)
	if err != nil {
		return h.sendPostError(c, err, "failed to load post")
	}

	return utils.SendSuccess(c, "post", post)
}

func (h *PostHandler) create(c *fiber.Ctx) error {
	var payload dto.PostCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	post, err := h.service.Create(requestContext(c), payload)
	if err != nil {
		return h.sendPostError(c, err, "failed to create post")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "post created", post)
}

func (h *PostHandler) like(c *fiber.Ctx) error {
	return h.mutate(c, h.service.Like, "post liked", "failed to like post")
}

func (h *PostHandler) share(c *fiber.Ctx) error {
	return h.mutate(c, h.service.Share, "post shared", "failed to share post")
}

func (h *PostHandler) toggleBookmark(c *fiber.Ctx) error {
	return h.mutate(c, h.service.ToggleBookmark, "bookmark updated", "failed to toggle bookmark")
}

func (h *PostHandler) mutate(c *fiber.Ctx, op func(context.Context, uint) (dto.PostResponse, error), message, logMessage string) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid post id")
	}

	post, err := op(requestContext(c), id)
	if err != nil {
		return h.sendPostError(c, err, logMessage)
	}

	return utils.SendSuccess(c, message, post)
}

func (h *PostHandler) addComment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid post id")
	}

	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	payload.PostID = id

	comment, err := h.service.AddComment(requestContext(c), payload)
	if err != nil {
		return h.sendPostError(c, err, "failed to add comment")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment added", comment)
}

func (h *PostHandler) sendPostError(c *fiber.Ctx, err error, logMessage string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "post not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(logMessage)
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}
}
