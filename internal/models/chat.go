package models

import "time"

// ChatUser is a community chat participant. The deployment runs with a
// single shared identity row, created lazily on first session init.
type ChatUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	IsOnline  bool      `gorm:"not null;default:false" json:"is_online"`
	LastSeen  time.Time `json:"last_seen"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a community chat message. Messages are immutable once
// written and are never pruned.
type Message struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Content   string            `gorm:"type:text;not null" json:"content"`
	UserID    uint              `gorm:"index;not null" json:"user_id"`
	User      ChatUser          `json:"user"`
	Reactions []MessageReaction `json:"reactions"`
	CreatedAt time.Time         `gorm:"index" json:"created_at"`
}

// MessageReaction records a single emoji reaction on a message. The
// composite unique index makes duplicate reactions a conflict the
// store layer treats as a no-op.
type MessageReaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"uniqueIndex:idx_message_user_reaction;not null" json:"message_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_message_user_reaction;not null" json:"user_id"`
	Reaction  string    `gorm:"size:16;uniqueIndex:idx_message_user_reaction;not null" json:"reaction"`
	CreatedAt time.Time `json:"created_at"`
}
