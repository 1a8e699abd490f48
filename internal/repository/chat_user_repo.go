package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/models"
)

// ChatUserRepository persists chat participants.
type ChatUserRepository interface {
	FindByName(ctx context.Context, name string) (models.ChatUser, error)
	Create(ctx context.Context, user *models.ChatUser) error
	SetPresence(ctx context.Context, id uint, online bool, lastSeen time.Time) error
}

type chatUserRepository struct {
	db *gorm.DB
}

// NewChatUserRepository constructs a chat user repository backed by GORM.
func NewChatUserRepository(db *gorm.DB) ChatUserRepository {
	return &chatUserRepository{db: db}
}

func (r *chatUserRepository) FindByName(ctx context.Context, name string) (models.ChatUser, error) {
	var user models.ChatUser
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&user).Error
	if err != nil {
		return models.ChatUser{}, err
	}
	return user, nil
}

func (r *chatUserRepository) Create(ctx context.Context, user *models.ChatUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *chatUserRepository) SetPresence(ctx context.Context, id uint, online bool, lastSeen time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ChatUser{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_online": online, "last_seen": lastSeen}).Error
}
