package models

import (
	"time"

	"gorm.io/datatypes"
)

// Profile holds a member's wellness profile and progress counters.
type Profile struct {
	ID                uint                        `gorm:"primaryKey" json:"id"`
	Username          string                      `gorm:"size:128;uniqueIndex;not null" json:"username"`
	FullName          string                      `gorm:"size:255" json:"full_name"`
	AvatarURL         string                      `gorm:"size:512" json:"avatar_url"`
	Bio               string                      `gorm:"type:text" json:"bio"`
	Location          string                      `gorm:"size:128" json:"location"`
	Age               int                         `json:"age"`
	WellnessGoals     datatypes.JSONSlice[string] `json:"wellness_goals"`
	FitnessLevel      string                      `gorm:"size:32" json:"fitness_level"`
	MeditationMinutes int                         `gorm:"not null;default:0" json:"meditation_minutes"`
	ExerciseMinutes   int                         `gorm:"not null;default:0" json:"exercise_minutes"`
	SkillPoints       int                         `gorm:"not null;default:0" json:"skill_points"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}
