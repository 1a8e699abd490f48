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

func setupJobApp(t *testing.T, role string) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:jobhandler?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Job{}, &models.JobApplication{}, &models.Notification{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	notificationService := service.NewNotificationService(repository.NewNotificationRepository(db), nil, "", nil, validate, logger)
	jobService := service.NewJobService(repository.NewJobRepository(db), notificationService, validate, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		JobHandler: handler.NewJobHandler(jobService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", "member-1")
			c.Locals("user_role", role)
			return c.Next()
		},
	})

	return app
}

func TestJobHandlerCreateRequiresAdmin(t *testing.T) {
	app := setupJobApp(t, "member")

	resp := postJSON(t, app, "/api/v1/jobs/", dto.JobCreateRequest{
		Title:       "Yoga Instructor",
		Company:     "MindLift",
		Location:    "Remote",
		Type:        "Part-time",
		Description: "Teach restorative yoga classes.",
	})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestJobHandlerCreateListAndApply(t *testing.T) {
	app := setupJobApp(t, "admin")

	resp := postJSON(t, app, "/api/v1/jobs/", dto.JobCreateRequest{
		Title:       "Mindfulness Coach",
		Company:     "MindLift",
		Location:    "Remote",
		Type:        "Full-time",
		Description: "Lead guided meditation programs.",
		Skills:      []string{"meditation", "coaching"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var createBody struct {
		Data dto.JobResponse `json:"data"`
	}
	decodeResponse(t, resp, &createBody)
	require.NotZero(t, createBody.Data.ID)

	listReq := httptest.NewRequest("GET", "/api/v1/jobs/?search=Mindfulness", nil)
	listResp, err := app.Test(listReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, listResp.StatusCode)

	var listBody struct {
		Data struct {
			Jobs  []dto.JobResponse `json:"jobs"`
			Total int64             `json:"total"`
		} `json:"data"`
	}
	decodeResponse(t, listResp, &listBody)
	require.NotEmpty(t, listBody.Data.Jobs)

	applyResp := postJSON(t, app, "/api/v1/jobs/"+itoa(createBody.Data.ID)+"/apply", dto.JobApplicationRequest{
		Name:  "Alex Rivera",
		Email: "alex@example.com",
	})
	require.Equal(t, fiber.StatusCreated, applyResp.StatusCode)

	var applyBody struct {
		Data dto.JobApplicationResponse `json:"data"`
	}
	decodeResponse(t, applyResp, &applyBody)
	require.Equal(t, createBody.Data.ID, applyBody.Data.JobID)
}

func TestJobHandlerApplyUnknownJob(t *testing.T) {
	app := setupJobApp(t, "member")

	resp := postJSON(t, app, "/api/v1/jobs/999999/apply", dto.JobApplicationRequest{
		Name:  "Alex Rivera",
		Email: "alex@example.com",
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
