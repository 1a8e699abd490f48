package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/pkg/ai"
)

// Fallback routines served when the generator is unavailable or its
// response cannot be parsed.
var fallbackExercises = map[string][]dto.Exercise{
	"warm-up": {
		{
			Name:          "Dynamic Stretching",
			Sets:          1,
			Reps:          "30 seconds each",
			Description:   "Perform dynamic stretches targeting major muscle groups",
			Modifications: []string{"Reduce range of motion", "Increase range of motion"},
			Tips:          []string{"Keep movements controlled", "Breathe steadily"},
		},
	},
	"main-workout": {
		{
			Name:          "Cardio Intervals",
			Sets:          3,
			Reps:          "1 minute each",
			Description:   "High-intensity cardio intervals with rest periods",
			Modifications: []string{"Lower intensity", "Increase duration"},
			Tips:          []string{"Maintain proper form", "Stay hydrated"},
		},
	},
	"cool-down": {
		{
			Name:          "Static Stretching",
			Sets:          1,
			Reps:          "30 seconds each",
			Description:   "Hold each stretch to release muscle tension",
			Modifications: []string{"Gentle stretching", "Deeper stretches"},
			Tips:          []string{"Don't bounce", "Breathe deeply"},
		},
	},
}

// Served when the coaching model is unavailable.
const fallbackCoachReply = "The coaching assistant is offline right now. As a general guideline, pair two or three strength sessions a week with daily walks, prioritize sleep, and increase load gradually. Ask again later for advice tailored to your question."

// WorkoutService generates personalized workout routines and answers
// freeform fitness questions.
type WorkoutService interface {
	GenerateSection(ctx context.Context, payload dto.WorkoutGenerateRequest) (dto.WorkoutSectionResponse, error)
	Chat(ctx context.Context, payload dto.FitnessChatRequest) (dto.FitnessChatResponse, error)
}

type workoutService struct {
	generator ai.WorkoutGenerator
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewWorkoutService constructs a workout generation service. The
// generator may be nil, in which case the fallback routines are served.
func NewWorkoutService(generator ai.WorkoutGenerator, validate *validator.Validate, logger zerolog.Logger) WorkoutService {
	return &workoutService{
		generator: generator,
		validator: validate,
		logger:    logger.With().Str("component", "workout_service").Logger(),
		tracer:    otel.Tracer("github.com/mindlift/mindlift-api/internal/service/workout"),
	}
}

func (s *workoutService) GenerateSection(ctx context.Context, payload dto.WorkoutGenerateRequest) (dto.WorkoutSectionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.WorkoutSectionResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "workouts.generate_section", trace.WithAttributes(
		attribute.String("workouts.section", payload.Section),
		attribute.String("workouts.type", payload.Preferences.WorkoutType),
	))
	defer span.End()

	if s.generator == nil {
		return s.fallback(payload.Section), nil
	}

	generated, err := s.generator.Generate(spanCtx, ai.GenerationInput{
		Section:      payload.Section,
		FitnessLevel: payload.Preferences.FitnessLevel,
		WorkoutType:  payload.Preferences.WorkoutType,
		Duration:     payload.Preferences.Duration,
		Equipment:    payload.Preferences.Equipment,
	})
	if err != nil {
		span.RecordError(err)
		s.logger.Warn().Err(err).Str("section", payload.Section).Msg("workout generation failed, serving fallback")
		return s.fallback(payload.Section), nil
	}

	exercises := make([]dto.Exercise, 0, len(generated))
	for _, exercise := range generated {
		sets := exercise.Sets
		if sets <= 0 {
			sets = 1
		}
		modifications := exercise.Modifications
		if modifications == nil {
			modifications = []string{}
		}
		tips := exercise.Tips
		if tips == nil {
			tips = []string{}
		}
		exercises = append(exercises, dto.Exercise{
			Name:          exercise.Name,
			Sets:          sets,
			Reps:          exercise.Reps,
			Description:   exercise.Description,
			Modifications: modifications,
			Tips:          tips,
		})
	}

	return dto.WorkoutSectionResponse{
		Section:   payload.Section,
		Exercises: exercises,
		Fallback:  false,
	}, nil
}

// Chat relays a freeform question to the coaching model. Like section
// generation, model trouble degrades to a canned reply rather than an
// error.
func (s *workoutService) Chat(ctx context.Context, payload dto.FitnessChatRequest) (dto.FitnessChatResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FitnessChatResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "workouts.fitness_chat")
	defer span.End()

	coach, ok := s.generator.(ai.FitnessCoach)
	if !ok {
		return dto.FitnessChatResponse{Reply: fallbackCoachReply, Fallback: true}, nil
	}

	reply, err := coach.Respond(spanCtx, payload.Message)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn().Err(err).Msg("fitness chat failed, serving fallback reply")
		return dto.FitnessChatResponse{Reply: fallbackCoachReply, Fallback: true}, nil
	}

	return dto.FitnessChatResponse{Reply: reply, Fallback: false}, nil
}

func (s *workoutService) fallback(section string) dto.WorkoutSectionResponse {
	exercises := fallbackExercises[section]
	return dto.WorkoutSectionResponse{
		Section:   section,
		Exercises: exercises,
		Fallback:  true,
	}
}
