package dto

import (
	"time"

	"github.com/mindlift/mindlift-api/internal/models"
)

// JobCreateRequest is the payload to publish a job listing.
type JobCreateRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=255"`
	Company     string   `json:"company" validate:"required,max=255"`
	Location    string   `json:"location" validate:"required,max=128"`
	Type        string   `json:"type" validate:"required,oneof=Full-time Part-time Contract Freelance Internship"`
	Salary      string   `json:"salary" validate:"omitempty,max=128"`
	Description string   `json:"description" validate:"required,min=1"`
	Skills      []string `json:"skills" validate:"omitempty,dive,max=64"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
}

// JobListQuery filters job listings.
type JobListQuery struct {
	Search   string `query:"search" validate:"omitempty,max=255"`
	Location string `query:"location" validate:"omitempty,max=128"`
	Type     string `query:"type" validate:"omitempty,max=64"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

// JobApplicationRequest submits an application for a listing.
type JobApplicationRequest struct {
	JobID       uint   `json:"job_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=128"`
	Email       string `json:"email" validate:"required,email,max=160"`
	Phone       string `json:"phone" validate:"omitempty,max=64"`
	CoverLetter string `json:"cover_letter" validate:"omitempty,max=8000"`
	ResumeURL   string `json:"resume_url" validate:"omitempty,url"`
}

// JobResponse is the serialized job listing.
type JobResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Type        string    `json:"type"`
	Salary      string    `json:"salary"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobApplicationResponse is the serialized application receipt.
type JobApplicationResponse struct {
	ID        uint      `json:"id"`
	JobID     uint      `json:"job_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewJobResponse converts a job model into a DTO.
func NewJobResponse(job models.Job) JobResponse {
	return JobResponse{
		ID:          job.ID,
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Type:        job.Type,
		Salary:      job.Salary,
		Description: job.Description,
		Skills:      job.Skills,
		ImageURL:    job.ImageURL,
		CreatedAt:   job.CreatedAt,
	}
}

// NewJobResponseSlice converts a slice of jobs into DTOs.
func NewJobResponseSlice(jobs []models.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, NewJobResponse(job))
	}
	return out
}

// NewJobApplicationResponse converts an application model into a DTO.
func NewJobApplicationResponse(application models.JobApplication) JobApplicationResponse {
	return JobApplicationResponse{
		ID:        application.ID,
		JobID:     application.JobID,
		Name:      application.Name,
		Email:     application.Email,
		CreatedAt: application.CreatedAt,
	}
}
