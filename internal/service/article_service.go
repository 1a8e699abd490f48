package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/models"
	"github.com/mindlift/mindlift-api/internal/repository"
)

// ArticleService exposes wellness article use-cases.
type ArticleService interface {
	List(ctx context.Context, limit, offset int) ([]dto.ArticleResponse, error)
	Get(ctx context.Context, id uint) (dto.ArticleResponse, error)
	Create(ctx context.Context, payload dto.ArticleCreateRequest) (dto.ArticleResponse, error)
}

type articleService struct {
	repo      repository.ArticleRepository
	validator *validator.Validate
	logger    zerolog.Logger
	sanitizer *bluemonday.Policy
}

// NewArticleService constructs an article service.
func NewArticleService(repo repository.ArticleRepository, validate *validator.Validate, logger zerolog.Logger) ArticleService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &articleService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "article_service").Logger(),
		sanitizer: policy,
	}
}

func (s *articleService) List(ctx context.Context, limit, offset int) ([]dto.ArticleResponse, error) {
	articles, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewArticleResponseSlice(articles), nil
}

func (s *articleService) Get(ctx context.Context, id uint) (dto.ArticleResponse, error) {
	article, err := s.repo.Get(ctx, id)
	if err != nil {
		return dto.ArticleResponse{}, err
	}
	return dto.NewArticleResponse(article), nil
}

func (s *articleService) Create(ctx context.Context, payload dto.ArticleCreateRequest) (dto.ArticleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ArticleResponse{}, err
	}

	title := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if title == "" || content == "" {
		return dto.ArticleResponse{}, errors.New("article empty after sanitization")
	}

	article := models.Article{
		Title:     title,
		Content:   content,
		ImageURL:  payload.ImageURL,
		Author:    strings.TrimSpace(payload.Author),
		AvatarURL: payload.Avatar,
		ReadTime:  payload.ReadTime,
	}

	if err := s.repo.Create(ctx, &article); err != nil {
		return dto.ArticleResponse{}, err
	}

	s.logger.Info().Uint("article_id", article.ID).Msg("article published")

	return dto.NewArticleResponse(article), nil
}
