package handler_test

import (
	"io"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mindlift/mindlift-api/internal/config"
	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/handler"
	"github.com/mindlift/mindlift-api/internal/router"
	"github.com/mindlift/mindlift-api/internal/service"
)

func setupWorkoutApp(t *testing.T) *fiber.App {
	t.Helper()

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	workoutService := service.NewWorkoutService(nil, validate, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		WorkoutHandler: handler.NewWorkoutHandler(workoutService, logger),
	})

	return app
}

func workoutGenerateRequest(section string) dto.WorkoutGenerateRequest {
	return dto.WorkoutGenerateRequest{
		Section: section,
		Preferences: dto.WorkoutPreferences{
			FitnessLevel: "beginner",
			WorkoutType:  "cardio",
			Duration:     "30min",
			Equipment:    "none",
		},
	}
}

func TestWorkoutHandlerGenerateFallback(t *testing.T) {
	app := setupWorkoutApp(t)

	resp := postJSON(t, app, "/api/v1/workouts/generate", workoutGenerateRequest("warm-up"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.WorkoutSectionResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "warm-up", body.Data.Section)
	require.True(t, body.Data.Fallback)
	require.NotEmpty(t, body.Data.Exercises)
}

func TestWorkoutHandlerGenerateValidatesSection(t *testing.T) {
	app := setupWorkoutApp(t)

	resp := postJSON(t, app, "/api/v1/workouts/generate", workoutGenerateRequest("stretching"))
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestWorkoutHandlerChatFallback(t *testing.T) {
	app := setupWorkoutApp(t)

	resp := postJSON(t, app, "/api/v1/workouts/chat", dto.FitnessChatRequest{Message: "How often should I stretch?"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.FitnessChatResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Data.Fallback)
	require.NotEmpty(t, body.Data.Reply)
}

func TestWorkoutHandlerChatValidatesMessage(t *testing.T) {
	app := setupWorkoutApp(t)

	resp := postJSON(t, app, "/api/v1/workouts/chat", dto.FitnessChatRequest{})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
