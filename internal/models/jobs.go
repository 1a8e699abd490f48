package models

import (
	"time"

	"gorm.io/datatypes"
)

// Job is a listing on the jobs board.
type Job struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Title       string                      `gorm:"size:255;not null" json:"title"`
	Company     string                      `gorm:"size:255;not null" json:"company"`
	Location    string                      `gorm:"size:128;index" json:"location"`
	Type        string                      `gorm:"size:64;index" json:"type"`
	Salary      string                      `gorm:"size:128" json:"salary"`
	Description string                      `gorm:"type:text" json:"description"`
	Skills      datatypes.JSONSlice[string] `json:"skills"`
	ImageURL    string                      `gorm:"size:512" json:"image_url"`
	CreatedAt   time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// JobApplication is a submitted application for a job listing.
type JobApplication struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	JobID       uint      `gorm:"index;not null" json:"job_id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Email       string    `gorm:"size:160;not null" json:"email"`
	Phone       string    `gorm:"size:64" json:"phone"`
	CoverLetter string    `gorm:"type:text" json:"cover_letter"`
	ResumeURL   string    `gorm:"size:512" json:"resume_url"`
	CreatedAt   time.Time `json:"created_at"`
}
