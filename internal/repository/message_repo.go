package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/models"
)

// ErrDuplicateReaction indicates the (message, user, reaction) triple
// already exists. Callers treat it as success.
var ErrDuplicateReaction = errors.New("reaction already recorded")

// MessageRepository persists chat messages and their reactions.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	Get(ctx context.Context, id uint) (models.Message, error)
	ListAscending(ctx context.Context) ([]models.Message, error)
	CreateReaction(ctx context.Context, reaction *models.MessageReaction) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository constructs a message repository backed by GORM.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return err
	}
	// Hydrate the author join so callers get the full shape back.
	return r.db.WithContext(ctx).First(&message.User, message.UserID).Error
}

func (r *messageRepository) Get(ctx context.Context, id uint) (models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Reactions").
		First(&message, id).Error
	if err != nil {
		return models.Message{}, err
	}
	return message, nil
}

func (r *messageRepository) ListAscending(ctx context.Context) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Reactions").
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) CreateReaction(ctx context.Context, reaction *models.MessageReaction) error {
	err := r.db.WithContext(ctx).Create(reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReaction
		}
		return err
	}
	return nil
}
