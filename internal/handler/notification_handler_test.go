package handler_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

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

func setupNotificationApp(t *testing.T, userID string) (*fiber.App, service.NotificationService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:notificationhandler?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Notification{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	notificationService := service.NewNotificationService(repository.NewNotificationRepository(db), nil, "", nil, validate, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger, 30*time.Second),
		JWTMiddleware: func(c *fiber.Ctx) error {
			if userID != "" {
				c.Locals("user_id", userID)
			}
			return c.Next()
		},
	})

	return app, notificationService
}

func TestNotificationHandlerRequiresUser(t *testing.T) {
	app, _ := setupNotificationApp(t, "")

	req := httptest.NewRequest("GET", "/api/v1/notifications/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestNotificationHandlerListAndMarkRead(t *testing.T) {
	app, svc := setupNotificationApp(t, "handler-user")

	published, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  "handler-user",
		Type:    "job_application",
		Message: "New application received",
	})
	require.NoError(t, err)

	listReq := httptest.NewRequest("GET", "/api/v1/notifications/", nil)
	listResp, err := app.Test(listReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, listResp.StatusCode)

	var listBody struct {
		Data []dto.NotificationResponse `json:"data"`
	}
	decodeResponse(t, listResp, &listBody)
	require.Len(t, listBody.Data, 1)
	require.False(t, listBody.Data[0].Read)

	countReq := httptest.NewRequest("GET", "/api/v1/notifications/unread-count", nil)
	countResp, err := app.Test(countReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, countResp.StatusCode)

	var countBody struct {
		Data struct {
			Count int64 `json:"count"`
		} `json:"data"`
	}
	decodeResponse(t, countResp, &countBody)
	require.Equal(t, int64(1), countBody.Data.Count)

	markReq := httptest.NewRequest("PATCH", "/api/v1/notifications/"+itoa(published.ID)+"/read", nil)
	markResp, err := app.Test(markReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, markResp.StatusCode)

	var markBody struct {
		Data dto.NotificationResponse `json:"data"`
	}
	decodeResponse(t, markResp, &markBody)
	require.True(t, markBody.Data.Read)
}
