package handler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/middleware"
	"github.com/mindlift/mindlift-api/internal/observability"
	"github.com/mindlift/mindlift-api/internal/service"
	"github.com/mindlift/mindlift-api/internal/utils"
)

// ChatHandler wires the community chat endpoints including the
// websocket upgrade used for live snapshots.
type ChatHandler struct {
	session *service.ChatSession
	logger  zerolog.Logger
}

// NewChatHandler creates a chat handler instance.
func NewChatHandler(session *service.ChatSession, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		session: session,
		logger:  logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Register binds chat routes under the provided router group.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws", websocket.New(h.handleConnection))
	router.Get("/session", h.currentUser)
	router.Post("/session", h.initialize)
	router.Delete("/session", h.cleanup)
	router.Get("/messages", h.history)
	router.Post("/messages", h.sendMessage)
	router.Post("/reactions", h.addReaction)
}

type wsInbound struct {
	Type      string `json:"type"`
	Content   string `json:"content,omitempty"`
	MessageID uint   `json:"message_id,omitempty"`
	Reaction  string `json:"reaction,omitempty"`
}

type wsOutbound struct {
	Type     string            `json:"type"`
	Snapshot *dto.FeedSnapshot `json:"snapshot,omitempty"`
	Message  string            `json:"message,omitempty"`
}

func (h *ChatHandler) handleConnection(conn *websocket.Conn) {
	baseCtx, _ := conn.Locals("request_ctx").(context.Context)
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	if _, err := h.session.Initialize(ctx); err != nil {
		h.logger.Error().Err(err).Msg("failed to initialize chat session for websocket")
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusInternalServerError, "session unavailable"))
		_ = conn.Close()
		return
	}

	observability.RegisterMetrics()
	observability.ChatConnections().Inc()
	defer observability.ChatConnections().Dec()

	// Snapshots are pushed from the feed goroutine while error frames
	// come from the read loop, so every write goes through one mutex.
	var writeMu sync.Mutex
	writeFrame := func(frame wsOutbound) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(frame)
	}

	unsubscribe, err := h.session.SubscribeToMessages(ctx, func(snapshot dto.FeedSnapshot) {
		if writeErr := writeFrame(wsOutbound{Type: "snapshot", Snapshot: &snapshot}); writeErr != nil {
			h.logger.Debug().Err(writeErr).Msg("failed to write chat snapshot, closing connection")
			cancel()
		}
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to subscribe websocket to chat feed")
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusInternalServerError, "subscription unavailable"))
		_ = conn.Close()
		return
	}
	defer unsubscribe()

	h.logger.Info().Msg("chat websocket connected")
	defer h.logger.Info().Msg("chat websocket disconnected")

	for {
		_, data, readErr := conn.ReadMessage()
		if readErr != nil {
			return
		}

		var frame wsInbound
		if decodeErr := json.Unmarshal(data, &frame); decodeErr != nil {
			_ = writeFrame(wsOutbound{Type: "error", Message: "malformed frame"})
			continue
		}

		switch frame.Type {
		case "message":
			if _, sendErr := h.session.SaveMessage(ctx, frame.Content); sendErr != nil {
				_ = writeFrame(wsOutbound{Type: "error", Message: sendErr.Error()})
			}
		case "reaction":
			if reactErr := h.session.AddReaction(ctx, frame.MessageID, frame.Reaction); reactErr != nil {
				_ = writeFrame(wsOutbound{Type: "error", Message: reactErr.Error()})
			}
		default:
			_ = writeFrame(wsOutbound{Type: "error", Message: "unknown frame type"})
		}
	}
}

func (h *ChatHandler) initialize(c *fiber.Ctx) error {
	user, err := h.session.Initialize(requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to initialize chat session")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "chat session ready", user)
}

func (h *ChatHandler) currentUser(c *fiber.Ctx) error {
	user, ok := h.session.CurrentUser()
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, "chat session not initialized")
	}

	return utils.SendSuccess(c, "chat session", user)
}

func (h *ChatHandler) cleanup(c *fiber.Ctx) error {
	if err := h.session.Cleanup(requestContext(c)); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to clean up chat session")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SendSuccess(c, "chat session closed", nil)
}

// messageView decorates a message with a human friendly timestamp for
// clients that render history without their own relative formatting.
type messageView struct {
	dto.MessageResponse
	FormattedTime string `json:"formatted_time"`
}

func (h *ChatHandler) history(c *fiber.Ctx) error {
	messages, err := h.session.History(requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load chat history")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}

	now := time.Now()
	views := make([]messageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, messageView{
			MessageResponse: message,
			FormattedTime:   utils.FormatMessageTime(message.CreatedAt, now),
		})
	}

	return utils.SendSuccess(c, "chat history", views)
}

func (h *ChatHandler) sendMessage(c *fiber.Ctx) error {
	var payload dto.ChatSendRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	message, err := h.session.SaveMessage(requestContext(c), payload.Content)
	if err != nil {
		return h.sendChatError(c, err, "failed to save chat message")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "message sent", message)
}

func (h *ChatHandler) addReaction(c *fiber.Ctx) error {
	var payload dto.ReactionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.session.AddReaction(requestContext(c), payload.MessageID, payload.Reaction); err != nil {
		return h.sendChatError(c, err, "failed to add reaction")
	}

	return utils.SendSuccess(c, "reaction added", nil)
}

func (h *ChatHandler) sendChatError(c *fiber.Ctx, err error, logMessage string) error {
	switch {
	case errors.Is(err, service.ErrNotInitialized):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEmptyMessage), errors.Is(err, service.ErrUnknownReaction), isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return utils.SendError(c, fiber.StatusNotFound, "message not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(logMessage)
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}
}
