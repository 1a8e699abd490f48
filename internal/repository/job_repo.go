package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/models"
)

// JobFilter narrows job listing queries.
type JobFilter struct {
	Search   string
	Location string
	Type     string
	Limit    int
	Offset   int
}

// JobRepository persists job listings and applications.
type JobRepository interface {
	List(ctx context.Context, filter JobFilter) ([]models.Job, int64, error)
	Get(ctx context.Context, id uint) (models.Job, error)
	Create(ctx context.Context, job *models.Job) error
	CreateApplication(ctx context.Context, application *models.JobApplication) error
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository constructs a job repository backed by GORM.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]models.Job, int64, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := r.db.WithContext(ctx).Model(&models.Job{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(company) LIKE ? OR LOWER(skills) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		query = query.Where("location = ?", location)
	}
	if jobType := strings.TrimSpace(filter.Type); jobType != "" {
		query = query.Where("type = ?", jobType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *jobRepository) Get(ctx context.Context, id uint) (models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return models.Job{}, err
	}
	return job, nil
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) CreateApplication(ctx context.Context, application *models.JobApplication) error {
	return r.db.WithContext(ctx).Create(application).Error
}
