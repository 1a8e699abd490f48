package dto

import (
	"time"

	"github.com/mindlift/mindlift-api/internal/models"
)

// ChatSendRequest is the payload used to post a message to the community feed.
type ChatSendRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

// ReactionRequest adds an emoji reaction to an existing message.
type ReactionRequest struct {
	MessageID uint   `json:"message_id" validate:"required"`
	Reaction  string `json:"reaction" validate:"required,max=16"`
}

// ChatUserResponse is the serialized chat participant.
type ChatUserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	IsOnline  bool      `json:"is_online"`
	LastSeen  time.Time `json:"last_seen"`
}

// ReactionResponse is the serialized emoji reaction.
type ReactionResponse struct {
	ID        uint      `json:"id"`
	MessageID uint      `json:"message_id"`
	UserID    uint      `json:"user_id"`
	Reaction  string    `json:"reaction"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageResponse is a chat message joined with its author and reactions.
type MessageResponse struct {
	ID        uint               `json:"id"`
	Content   string             `json:"content"`
	UserID    uint               `json:"user_id"`
	User      ChatUserResponse   `json:"user"`
	Reactions []ReactionResponse `json:"reactions"`
	CreatedAt time.Time          `json:"created_at"`
}

// FeedSnapshot is one consistent view of the full message history. The
// version increases monotonically with every applied change, so
// consumers can discard anything older than what they already hold.
type FeedSnapshot struct {
	Version  uint64            `json:"version"`
	Messages []MessageResponse `json:"messages"`
}

// NewChatUserResponse converts a chat user model into a DTO.
func NewChatUserResponse(user models.ChatUser) ChatUserResponse {
	return ChatUserResponse{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		IsOnline:  user.IsOnline,
		LastSeen:  user.LastSeen,
	}
}

// NewReactionResponse converts a reaction model into a DTO.
func NewReactionResponse(reaction models.MessageReaction) ReactionResponse {
	return ReactionResponse{
		ID:        reaction.ID,
		MessageID: reaction.MessageID,
		UserID:    reaction.UserID,
		Reaction:  reaction.Reaction,
		CreatedAt: reaction.CreatedAt,
	}
}

// NewMessageResponse converts a message model, including any preloaded
// author and reactions, into a DTO.
func NewMessageResponse(message models.Message) MessageResponse {
	reactions := make([]ReactionResponse, 0, len(message.Reactions))
	for _, reaction := range message.Reactions {
		reactions = append(reactions, NewReactionResponse(reaction))
	}

	return MessageResponse{
		ID:        message.ID,
		Content:   message.Content,
		UserID:    message.UserID,
		User:      NewChatUserResponse(message.User),
		Reactions: reactions,
		CreatedAt: message.CreatedAt,
	}
}

// NewMessageResponseSlice converts a slice of message models into DTOs.
func NewMessageResponseSlice(messages []models.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		out = append(out, NewMessageResponse(message))
	}
	return out
}
