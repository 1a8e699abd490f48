package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/models"
)

// ArticleRepository persists wellness articles.
type ArticleRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.Article, error)
	Get(ctx context.Context, id uint) (models.Article, error)
	Create(ctx context.Context, article *models.Article) error
	Count(ctx context.Context) (int64, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository constructs an article repository backed by GORM.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) List(ctx context.Context, limit, offset int) ([]models.Article, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var articles []models.Article
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) Get(ctx context.Context, id uint) (models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).First(&article, id).Error; err != nil {
		return models.Article{}, err
	}
	return article, nil
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Article{}).Count(&count).Error
	return count, err
}
