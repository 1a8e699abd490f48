package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/models"
)

// PostRepository persists community feed posts and their comments.
type PostRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.Post, error)
	Get(ctx context.Context, id uint) (models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	CreateComment(ctx context.Context, comment *models.PostComment) error
	IncrementLikes(ctx context.Context, id uint) error
	IncrementShares(ctx context.Context, id uint) error
	SetBookmarked(ctx context.Context, id uint, bookmarked bool) error
	Count(ctx context.Context) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository constructs a post repository backed by GORM.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Comments").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Get(ctx context.Context, id uint) (models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Comments").First(&post, id).Error
	if err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) CreateComment(ctx context.Context, comment *models.PostComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *postRepository) IncrementLikes(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
}

func (r *postRepository) IncrementShares(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("shares", gorm.Expr("shares + 1")).Error
}

func (r *postRepository) SetBookmarked(ctx context.Context, id uint, bookmarked bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("bookmarked", bookmarked).Error
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error
	return count, err
}
