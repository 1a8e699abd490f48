package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/pkg/ai"
)

type stubGenerator struct {
	exercises []ai.Exercise
	err       error
	lastInput ai.GenerationInput
}

func (s *stubGenerator) Generate(ctx context.Context, input ai.GenerationInput) ([]ai.Exercise, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.exercises, nil
}

func workoutRequest(section string) dto.WorkoutGenerateRequest {
	return dto.WorkoutGenerateRequest{
		Preferences: dto.WorkoutPreferences{
			FitnessLevel: "beginner",
			WorkoutType:  "cardio",
			Duration:     "30min",
			Equipment:    "none",
		},
		Section: section,
	}
}

func TestWorkoutServiceGenerates(t *testing.T) {
	generator := &stubGenerator{exercises: []ai.Exercise{
		{Name: "Jumping Jacks", Sets: 3, Reps: "20", Description: "Full-body warm up"},
	}}
	svc := NewWorkoutService(generator, newTestValidator(), zerolog.Nop())

	resp, err := svc.GenerateSection(context.Background(), workoutRequest("warm-up"))
	require.NoError(t, err)
	require.False(t, resp.Fallback)
	require.Len(t, resp.Exercises, 1)
	require.Equal(t, "Jumping Jacks", resp.Exercises[0].Name)
	require.NotNil(t, resp.Exercises[0].Modifications)
	require.NotNil(t, resp.Exercises[0].Tips)
	require.Equal(t, "cardio", generator.lastInput.WorkoutType)
}

func TestWorkoutServiceFallbackOnError(t *testing.T) {
	generator := &stubGenerator{err: errors.New("model unavailable")}
	svc := NewWorkoutService(generator, newTestValidator(), zerolog.Nop())

	resp, err := svc.GenerateSection(context.Background(), workoutRequest("cool-down"))
	require.NoError(t, err)
	require.True(t, resp.Fallback)
	require.Len(t, resp.Exercises, 1)
	require.Equal(t, "Static Stretching", resp.Exercises[0].Name)
}

func TestWorkoutServiceFallbackWithoutGenerator(t *testing.T) {
	svc := NewWorkoutService(nil, newTestValidator(), zerolog.Nop())

	resp, err := svc.GenerateSection(context.Background(), workoutRequest("main-workout"))
	require.NoError(t, err)
	require.True(t, resp.Fallback)
	require.Equal(t, "Cardio Intervals", resp.Exercises[0].Name)
}

func TestWorkoutServiceValidatesSection(t *testing.T) {
	svc := NewWorkoutService(nil, newTestValidator(), zerolog.Nop())

	_, err := svc.GenerateSection(context.Background(), workoutRequest("stretching"))
	require.Error(t, err)
}

type stubCoach struct {
	stubGenerator
	reply      string
	replyErr   error
	lastPrompt string
}

func (s *stubCoach) Respond(ctx context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.replyErr != nil {
		return "", s.replyErr
	}
	return s.reply, nil
}

func TestWorkoutServiceChatRelaysQuestion(t *testing.T) {
	coach := &stubCoach{reply: "Start with bodyweight squats three times a week."}
	svc := NewWorkoutService(coach, newTestValidator(), zerolog.Nop())

	resp, err := svc.Chat(context.Background(), dto.FitnessChatRequest{Message: "How do I build leg strength at home?"})
	require.NoError(t, err)
	require.False(t, resp.Fallback)
	require.Equal(t, coach.reply, resp.Reply)
	require.Equal(t, "How do I build leg strength at home?", coach.lastPrompt)
}

func TestWorkoutServiceChatFallsBack(t *testing.T) {
	// No coaching model configured.
	svc := NewWorkoutService(nil, newTestValidator(), zerolog.Nop())
	resp, err := svc.Chat(context.Background(), dto.FitnessChatRequest{Message: "Is daily cardio okay?"})
	require.NoError(t, err)
	require.True(t, resp.Fallback)
	require.NotEmpty(t, resp.Reply)

	// Model configured but failing.
	coach := &stubCoach{replyErr: errors.New("model unavailable")}
	svc = NewWorkoutService(coach, newTestValidator(), zerolog.Nop())
	resp, err = svc.Chat(context.Background(), dto.FitnessChatRequest{Message: "Is daily cardio okay?"})
	require.NoError(t, err)
	require.True(t, resp.Fallback)
}

func TestWorkoutServiceChatValidatesMessage(t *testing.T) {
	svc := NewWorkoutService(nil, newTestValidator(), zerolog.Nop())

	_, err := svc.Chat(context.Background(), dto.FitnessChatRequest{})
	require.Error(t, err)
}
