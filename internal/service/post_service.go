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

// PostService exposes community feed post use-cases.
type PostService interface {
	List(ctx context.Context, limit, offset int) ([]dto.PostResponse, error)
	Get(ctx context.Context, id uint) (dto.PostResponse, error)
	Create(ctx context.Context, payload dto.PostCreateRequest) (dto.PostResponse, error)
	Like(ctx context.Context, id uint) (dto.PostResponse, error)
	Share(ctx context.Context, id uint) (dto.PostResponse, error)
	ToggleBookmark(ctx context.Context, id uint) (dto.PostResponse, error)
	AddComment(ctx context.Context, payload dto.CommentCreateRequest) (dto.CommentResponse, error)
}

type postService struct {
	repo          repository.PostRepository
	notifications NotificationPublisher
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
	sanitizer     *bluemonday.Policy
	authorName    string
	avatarURL     string
}

// NewPostService constructs a post service. Posts are attributed to the
// shared community identity.
func NewPostService(repo repository.PostRepository, notifications NotificationPublisher, authorName, avatarURL string, validate *validator.Validate, logger zerolog.Logger) PostService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &postService{
		repo:          repo,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "post_service").Logger(),
		tracer:        otel.Tracer("github.com/mindlift/mindlift-api/internal/service/post"),
		sanitizer:     policy,
		authorName:    authorName,
		avatarURL:     avatarURL,
	}
}

func (s *postService) List(ctx context.Context, limit, offset int) ([]dto.PostResponse, error) {
	posts, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewPostResponseSlice(posts), nil
}

func (s *postService) Get(ctx context.Context, id uint) (dto.PostResponse, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return dto.PostResponse{}, err
	}
	return dto.NewPostResponse(post), nil
}

func (s *postService) Create(ctx context.Context, payload dto.PostCreateRequest) (dto.PostResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PostResponse{}, err
	}

	sanitized := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if sanitized == "" {
		return dto.PostResponse{}, errors.New("post content empty after sanitization")
	}

	spanCtx, span := s.tracer.Start(ctx, "posts.create", trace.WithAttributes(
		attribute.Int("posts.tag_count", len(payload.Tags)),
	))
	defer span.End()

	post := models.Post{
		Author:    s.authorName,
		AvatarURL: s.avatarURL,
		Content:   sanitized,
		Tags:      datatypes.JSONSlice[string](payload.Tags),
		Images:    datatypes.JSONSlice[string](payload.Images),
	}

	if err := s.repo.Create(spanCtx, &post); err != nil {
		span.RecordError(err)
		return dto.PostResponse{}, err
	}

	s.logger.Info().Uint("post_id", post.ID).Msg("community post created")

	return dto.NewPostResponse(post), nil
}

func (s *postService) Like(ctx context.Context, id uint) (dto.PostResponse, error) {
	if err := s.repo.IncrementLikes(ctx, id); err != nil {
		return dto.PostResponse{}, err
	}
	return s.Get(ctx, id)
}

func (s *postService) Share(ctx context.Context, id uint) (dto.PostResponse, error) {
	if err := s.repo.IncrementShares(ctx, id); err != nil {
		return dto.PostResponse{}, err
	}
	return s.Get(ctx, id)
}

func (s *postService) ToggleBookmark(ctx context.Context, id uint) (dto.PostResponse, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return dto.PostResponse{}, err
	}

	if err := s.repo.SetBookmarked(ctx, id, !post.Bookmarked); err != nil {
		return dto.PostResponse{}, err
	}

	post.Bookmarked = !post.Bookmarked
	return dto.NewPostResponse(post), nil
}

func (s *postService) AddComment(ctx context.Context, payload dto.CommentCreateRequest) (dto.CommentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CommentResponse{}, err
	}

	sanitized := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if sanitized == "" {
		return dto.CommentResponse{}, errors.New("comment content empty after sanitization")
	}

	// Confirm the post exists before attaching a comment.
	post, err := s.repo.Get(ctx, payload.PostID)
	if err != nil {
		return dto.CommentResponse{}, err
	}

	comment := models.PostComment{
		PostID:    payload.PostID,
		Author:    s.authorName,
		AvatarURL: s.avatarURL,
		Content:   sanitized,
	}

	if err := s.repo.CreateComment(ctx, &comment); err != nil {
		return dto.CommentResponse{}, err
	}

	if s.notifications != nil {
		notification := dto.NotificationCreateRequest{
			UserID:  post.Author,
			Type:    "post_comment",
			Message: fmt.Sprintf("New comment on your post from %s", comment.Author),
		}
		if _, notifyErr := s.notifications.Publish(ctx, notification); notifyErr != nil {
			s.logger.Warn().Err(notifyErr).Uint("post_id", post.ID).Msg("failed to publish comment notification")
		}
	}

	return dto.NewCommentResponse(comment), nil
}
