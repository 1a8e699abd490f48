package ai

import "context"

// GenerationInput carries the user's preferences for a single workout section.
type GenerationInput struct {
	Section       string
	FitnessLevel  string
	WorkoutType   string
	Duration      string
	Equipment     string
	ExerciseCount int
}

// Exercise is a single generated exercise with coaching guidance.
type Exercise struct {
	Name          string   `json:"name"`
	Sets          int      `json:"sets"`
	Reps          string   `json:"reps"`
	Description   string   `json:"description"`
	Modifications []string `json:"modifications"`
	Tips          []string `json:"tips"`
}

// WorkoutGenerator describes an AI model capable of producing workout exercises.
type WorkoutGenerator interface {
	Generate(ctx context.Context, input GenerationInput) ([]Exercise, error)
}

// FitnessCoach describes a model that answers freeform fitness and
// wellness questions in prose.
type FitnessCoach interface {
	Respond(ctx context.Context, prompt string) (string, error)
}
