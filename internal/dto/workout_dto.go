package dto

// WorkoutPreferences captures the member's fitness context used to
// steer generated routines.
type WorkoutPreferences struct {
	FitnessLevel string `json:"fitness_level" validate:"required,oneof=beginner intermediate advanced"`
	WorkoutType  string `json:"workout_type" validate:"required,oneof=strength cardio flexibility hiit bodyweight"`
	Duration     string `json:"duration" validate:"required,oneof=15min 30min 45min 60min"`
	Equipment    string `json:"equipment" validate:"required,oneof=none basic full-gym"`
}

// WorkoutGenerateRequest asks for one section of a workout routine.
type WorkoutGenerateRequest struct {
	Preferences WorkoutPreferences `json:"preferences" validate:"required"`
	Section     string             `json:"section" validate:"required,oneof=warm-up main-workout cool-down"`
}

// Exercise is a single generated exercise entry.
type Exercise struct {
	Name          string   `json:"name"`
	Sets          int      `json:"sets"`
	Reps          string   `json:"reps"`
	Description   string   `json:"description"`
	Modifications []string `json:"modifications"`
	Tips          []string `json:"tips"`
}

// WorkoutSectionResponse is the generated routine for one section.
type WorkoutSectionResponse struct {
	Section   string     `json:"section"`
	Exercises []Exercise `json:"exercises"`
	Fallback  bool       `json:"fallback"`
}

// FitnessChatRequest is a freeform question for the coaching assistant.
type FitnessChatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// FitnessChatResponse carries the coaching reply.
type FitnessChatResponse struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
}
