package handler_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/config"
	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/handler"
	"github.com/mindlift/mindlift-api/internal/models"
	"github.com/mindlift/mindlift-api/internal/repository"
	"github.com/mindlift/mindlift-api/internal/router"
	"github.com/mindlift/mindlift-api/internal/service"
)

func setupChatApp(t *testing.T, dsn string) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ChatUser{}, &models.Message{}, &models.MessageReaction{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	chatUserRepo := repository.NewChatUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	feed := service.NewChatFeed(messageRepo, nil, "", nil, logger)
	session := service.NewChatSession(chatUserRepo, messageRepo, feed, "Default User", "https://example.com/avatar.png", validate, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		ChatHandler: handler.NewChatHandler(session, logger),
	})

	return app
}

func TestChatHandlerRequiresSession(t *testing.T) {
	app := setupChatApp(t, "file:chatuninit?mode=memory&cache=shared")

	resp := postJSON(t, app, "/api/v1/chat/messages", dto.ChatSendRequest{Content: "hello"})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	getReq := httptest.NewRequest("GET", "/api/v1/chat/session", nil)
	getResp, err := app.Test(getReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, getResp.StatusCode)
}

func TestChatHandlerMessageFlow(t *testing.T) {
	app := setupChatApp(t, "file:chatflow?mode=memory&cache=shared")

	initResp := postJSON(t, app, "/api/v1/chat/session", nil)
	require.Equal(t, fiber.StatusOK, initResp.StatusCode)

	var initBody struct {
		Data dto.ChatUserResponse `json:"data"`
	}
	decodeResponse(t, initResp, &initBody)
	require.Equal(t, "Default User", initBody.Data.Name)
	require.True(t, initBody.Data.IsOnline)

	sendResp := postJSON(t, app, "/api/v1/chat/messages", dto.ChatSendRequest{Content: "Morning meditation done"})
	require.Equal(t, fiber.StatusCreated, sendResp.StatusCode)

	var sendBody struct {
		Data dto.MessageResponse `json:"data"`
	}
	decodeResponse(t, sendResp, &sendBody)
	require.Equal(t, "Morning meditation done", sendBody.Data.Content)
	require.Equal(t, initBody.Data.ID, sendBody.Data.UserID)

	reactResp := postJSON(t, app, "/api/v1/chat/reactions", dto.ReactionRequest{
		MessageID: sendBody.Data.ID,
		Reaction:  "🎉",
	})
	require.Equal(t, fiber.StatusOK, reactResp.StatusCode)

	// A repeated reaction is absorbed without error.
	repeatResp := postJSON(t, app, "/api/v1/chat/reactions", dto.ReactionRequest{
		MessageID: sendBody.Data.ID,
		Reaction:  "🎉",
	})
	require.Equal(t, fiber.StatusOK, repeatResp.StatusCode)

	badResp := postJSON(t, app, "/api/v1/chat/reactions", dto.ReactionRequest{
		MessageID: sendBody.Data.ID,
		Reaction:  "🔥",
	})
	require.Equal(t, fiber.StatusBadRequest, badResp.StatusCode)

	missingResp := postJSON(t, app, "/api/v1/chat/reactions", dto.ReactionRequest{
		MessageID: 999999,
		Reaction:  "👍",
	})
	require.Equal(t, fiber.StatusNotFound, missingResp.StatusCode)

	historyReq := httptest.NewRequest("GET", "/api/v1/chat/messages", nil)
	historyResp, err := app.Test(historyReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, historyResp.StatusCode)

	var historyBody struct {
		Data []struct {
			dto.MessageResponse
			FormattedTime string `json:"formatted_time"`
		} `json:"data"`
	}
	decodeResponse(t, historyResp, &historyBody)
	require.Len(t, historyBody.Data, 1)
	require.Len(t, historyBody.Data[0].Reactions, 1)
	require.Equal(t, "Just now", historyBody.Data[0].FormattedTime)

	cleanupReq := httptest.NewRequest("DELETE", "/api/v1/chat/session", nil)
	cleanupResp, err := app.Test(cleanupReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, cleanupResp.StatusCode)

	afterReq := httptest.NewRequest("GET", "/api/v1/chat/session", nil)
	afterResp, err := app.Test(afterReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, afterResp.StatusCode)
}
