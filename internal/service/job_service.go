package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/models"
	"github.com/mindlift/mindlift-api/internal/repository"
)

// ErrJobForbidden indicates the actor may not manage job listings.
var ErrJobForbidden = errors.New("insufficient permissions for job operation")

// NotificationPublisher exposes the subset of the notification service
// needed by other modules.
type NotificationPublisher interface {
	Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error)
}

// JobService exposes job board use-cases.
type JobService interface {
	List(ctx context.Context, query dto.JobListQuery) ([]dto.JobResponse, int64, error)
	Get(ctx context.Context, id uint) (dto.JobResponse, error)
	Create(ctx context.Context, role string, payload dto.JobCreateRequest) (dto.JobResponse, error)
	Apply(ctx context.Context, payload dto.JobApplicationRequest) (dto.JobApplicationResponse, error)
}

type jobService struct {
	repo          repository.JobRepository
	notifications NotificationPublisher
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
	sanitizer     *bluemonday.Policy
}

// NewJobService constructs a job board service.
func NewJobService(repo repository.JobRepository, notifications NotificationPublisher, validate *validator.Validate, logger zerolog.Logger) JobService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &jobService{
		repo:          repo,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "job_service").Logger(),
		tracer:        otel.Tracer("github.com/mindlift/mindlift-api/internal/service/job"),
		sanitizer:     policy,
	}
}

func (s *jobService) List(ctx context.Context, query dto.JobListQuery) ([]dto.JobResponse, int64, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, 0, err
	}

	jobs, total, err := s.repo.List(ctx, repository.JobFilter{
		Search:   query.Search,
		Location: query.Location,
		Type:     query.Type,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		return nil, 0, err
	}

	return dto.NewJobResponseSlice(jobs), total, nil
}

func (s *jobService) Get(ctx context.Context, id uint) (dto.JobResponse, error) {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return dto.JobResponse{}, err
	}
	return dto.NewJobResponse(job), nil
}

func (s *jobService) Create(ctx context.Context, role string, payload dto.JobCreateRequest) (dto.JobResponse, error) {
	if strings.ToLower(strings.TrimSpace(role)) != "admin" {
		return dto.JobResponse{}, ErrJobForbidden
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.JobResponse{}, err
	}

	description := strings.TrimSpace(s.sanitizer.Sanitize(payload.Description))
	if description == "" {
		return dto.JobResponse{}, errors.New("job description empty after sanitization")
	}

	spanCtx, span := s.tracer.Start(ctx, "jobs.create", trace.WithAttributes(
		attribute.String("jobs.company", payload.Company),
	))
	defer span.End()

	job := models.Job{
		Title:       strings.TrimSpace(payload.Title),
		Company:     strings.TrimSpace(payload.Company),
		Location:    strings.TrimSpace(payload.Location),
		Type:        payload.Type,
		Salary:      payload.Salary,
		Description: description,
		Skills:      datatypes.JSONSlice[string](payload.Skills),
		ImageURL:    payload.ImageURL,
	}

	if err := s.repo.Create(spanCtx, &job); err != nil {
		span.RecordError(err)
		return dto.JobResponse{}, err
	}

	s.logger.Info().Uint("job_id", job.ID).Str("company", job.Company).Msg("job listing created")

	return dto.NewJobResponse(job), nil
}

func (s *jobService) Apply(ctx context.Context, payload dto.JobApplicationRequest) (dto.JobApplicationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.JobApplicationResponse{}, err
	}

	job, err := s.repo.Get(ctx, payload.JobID)
	if err != nil {
		return dto.JobApplicationResponse{}, err
	}

	coverLetter := strings.TrimSpace(s.sanitizer.Sanitize(payload.CoverLetter))

	application := models.JobApplication{
		JobID:       job.ID,
		Name:        strings.TrimSpace(payload.Name),
		Email:       strings.TrimSpace(payload.Email),
		Phone:       strings.TrimSpace(payload.Phone),
		CoverLetter: coverLetter,
		ResumeURL:   payload.ResumeURL,
	}

	if err := s.repo.CreateApplication(ctx, &application); err != nil {
		return dto.JobApplicationResponse{}, err
	}

	if s.notifications != nil {
		message := fmt.Sprintf("New application for '%s' from %s", job.Title, application.Name)
		notification := dto.NotificationCreateRequest{
			UserID:  "admin",
			Type:    "job_application",
			Message: message,
		}
		if _, err := s.notifications.Publish(ctx, notification); err != nil {
			s.logger.Warn().Err(err).Uint("job_id", job.ID).Msg("failed to publish application notification")
		}
	}

	s.logger.Info().Uint("job_id", job.ID).Uint("application_id", application.ID).Msg("job application received")

	return dto.NewJobApplicationResponse(application), nil
}
