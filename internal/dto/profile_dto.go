package dto

import (
	"time"

	"github.com/mindlift/mindlift-api/internal/models"
)

// ProfileUpdateRequest updates a member profile. All fields optional.
type ProfileUpdateRequest struct {
	FullName          *string  `json:"full_name" validate:"omitempty,max=255"`
	AvatarURL         *string  `json:"avatar_url" validate:"omitempty,url"`
	Bio               *string  `json:"bio" validate:"omitempty,max=4000"`
	Location          *string  `json:"location" validate:"omitempty,max=128"`
	Age               *int     `json:"age" validate:"omitempty,min=13,max=120"`
	WellnessGoals     []string `json:"wellness_goals" validate:"omitempty,dive,max=128"`
	FitnessLevel      *string  `json:"fitness_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	MeditationMinutes *int     `json:"meditation_minutes" validate:"omitempty,min=0"`
	ExerciseMinutes   *int     `json:"exercise_minutes" validate:"omitempty,min=0"`
	SkillPoints       *int     `json:"skill_points" validate:"omitempty,min=0"`
}

// ProfileResponse is the serialized member profile.
type ProfileResponse struct {
	ID                uint      `json:"id"`
	Username          string    `json:"username"`
	FullName          string    `json:"full_name"`
	AvatarURL         string    `json:"avatar_url"`
	Bio               string    `json:"bio"`
	Location          string    `json:"location"`
	Age               int       `json:"age"`
	WellnessGoals     []string  `json:"wellness_goals"`
	FitnessLevel      string    `json:"fitness_level"`
	MeditationMinutes int       `json:"meditation_minutes"`
	ExerciseMinutes   int       `json:"exercise_minutes"`
	SkillPoints       int       `json:"skill_points"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DashboardResponse aggregates the member's wellness stats for the
// dashboard page.
type DashboardResponse struct {
	Profile             ProfileResponse `json:"profile"`
	RecentPosts         []PostResponse  `json:"recent_posts"`
	UnreadNotifications int64           `json:"unread_notifications"`
	TotalActiveMinutes  int             `json:"total_active_minutes"`
}

// NewProfileResponse converts a profile model into a DTO.
func NewProfileResponse(profile models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:                profile.ID,
		Username:          profile.Username,
		FullName:          profile.FullName,
		AvatarURL:         profile.AvatarURL,
		Bio:               profile.Bio,
		Location:          profile.Location,
		Age:               profile.Age,
		WellnessGoals:     profile.WellnessGoals,
		FitnessLevel:      profile.FitnessLevel,
		MeditationMinutes: profile.MeditationMinutes,
		ExerciseMinutes:   profile.ExerciseMinutes,
		SkillPoints:       profile.SkillPoints,
		CreatedAt:         profile.CreatedAt,
		UpdatedAt:         profile.UpdatedAt,
	}
}
