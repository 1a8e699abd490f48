package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/models"
	"github.com/mindlift/mindlift-api/internal/observability"
	"github.com/mindlift/mindlift-api/internal/repository"
)

// Reactions users may attach to a message.
var allowedReactions = map[string]struct{}{
	"👍": {},
	"❤️": {},
	"😂": {},
	"🎉": {},
	"🙏": {},
}

var (
	// ErrNotInitialized indicates an operation requiring a session user ran before Initialize.
	ErrNotInitialized = errors.New("chat session not initialized")
	// ErrEmptyMessage indicates the message content was empty after sanitization.
	ErrEmptyMessage = errors.New("message content empty")
	// ErrUnknownReaction indicates the emoji is outside the supported set.
	ErrUnknownReaction = errors.New("unsupported reaction")
)

type initCall struct {
	done chan struct{}
	user dto.ChatUserResponse
	err  error
}

// ChatSession binds one community identity to the message store and the
// change feed. The composition root builds a single instance and hands
// it to the chat handler.
type ChatSession struct {
	users     repository.ChatUserRepository
	messages  repository.MessageRepository
	feed      *ChatFeed
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer

	userName  string
	avatarURL string

	mu      sync.Mutex
	current *dto.ChatUserResponse
	call    *initCall
}

// NewChatSession constructs the session registry for the community chat.
func NewChatSession(users repository.ChatUserRepository, messages repository.MessageRepository, feed *ChatFeed, userName, avatarURL string, validate *validator.Validate, logger zerolog.Logger) *ChatSession {
	sanitizer := bluemonday.UGCPolicy()
	sanitizer.AllowElements("br")

	return &ChatSession{
		users:     users,
		messages:  messages,
		feed:      feed,
		validator: validate,
		sanitizer: sanitizer,
		logger:    logger.With().Str("component", "chat_session").Logger(),
		tracer:    otel.Tracer("github.com/mindlift/mindlift-api/internal/service/chat"),
		userName:  userName,
		avatarURL: avatarURL,
	}
}

// Initialize resolves the shared community identity and marks it
// online. Concurrent callers share a single in-flight attempt; a failed
// attempt is not memoized, so a later call retries from scratch.
func (s *ChatSession) Initialize(ctx context.Context) (dto.ChatUserResponse, error) {
	s.mu.Lock()
	if s.current != nil {
		user := *s.current
		s.mu.Unlock()
		return user, nil
	}
	if s.call != nil {
		call := s.call
		s.mu.Unlock()
		select {
		case <-call.done:
			return call.user, call.err
		case <-ctx.Done():
			return dto.ChatUserResponse{}, ctx.Err()
		}
	}
	call := &initCall{done: make(chan struct{})}
	s.call = call
	s.mu.Unlock()

	user, err := s.establish(ctx)

	s.mu.Lock()
	call.user = user
	call.err = err
	if err == nil {
		s.current = &user
	}
	s.call = nil
	s.mu.Unlock()
	close(call.done)

	return user, err
}

func (s *ChatSession) establish(ctx context.Context) (dto.ChatUserResponse, error) {
	user, err := s.users.FindByName(ctx, s.userName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.ChatUser{
			Name:      s.userName,
			AvatarURL: s.avatarURL,
		}
		if createErr := s.users.Create(ctx, &user); createErr != nil {
			// Another node may have won the insert race on the unique name.
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				user, err = s.users.FindByName(ctx, s.userName)
				if err != nil {
					return dto.ChatUserResponse{}, err
				}
			} else {
				return dto.ChatUserResponse{}, createErr
			}
		}
	} else if err != nil {
		return dto.ChatUserResponse{}, err
	}

	now := time.Now().UTC()
	if err := s.users.SetPresence(ctx, user.ID, true, now); err != nil {
		return dto.ChatUserResponse{}, err
	}
	user.IsOnline = true
	user.LastSeen = now

	s.logger.Info().Uint("user_id", user.ID).Str("name", user.Name).Msg("chat session initialized")
	return dto.NewChatUserResponse(user), nil
}

// CurrentUser returns the session identity, or false before Initialize.
func (s *ChatSession) CurrentUser() (dto.ChatUserResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return dto.ChatUserResponse{}, false
	}
	return *s.current, true
}

// Cleanup marks the session user offline, tears down the active feed
// subscription, and resets the session so a later Initialize starts
// fresh. The offline write is best-effort: its error is returned but
// the reset happens regardless.
func (s *ChatSession) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	current := s.current
	s.current = nil
	s.mu.Unlock()

	s.feed.Close()

	if current == nil {
		return nil
	}

	if err := s.users.SetPresence(ctx, current.ID, false, time.Now().UTC()); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", current.ID).Msg("failed to mark chat user offline")
		return err
	}

	s.logger.Info().Uint("user_id", current.ID).Msg("chat session cleaned up")
	return nil
}

// SaveMessage persists a message attributed to the session user and
// publishes it on the change feed.
func (s *ChatSession) SaveMessage(ctx context.Context, content string) (dto.MessageResponse, error) {
	user, ok := s.CurrentUser()
	if !ok {
		return dto.MessageResponse{}, ErrNotInitialized
	}

	payload := dto.ChatSendRequest{Content: strings.TrimSpace(content)}
	if err := s.validator.Struct(payload); err != nil {
		return dto.MessageResponse{}, err
	}

	clean := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if clean == "" {
		return dto.MessageResponse{}, ErrEmptyMessage
	}

	spanCtx, span := s.tracer.Start(ctx, "chat.save_message", trace.WithAttributes(
		attribute.Int("chat.user_id", int(user.ID)),
	))
	defer span.End()

	model := models.Message{
		Content: clean,
		UserID:  user.ID,
	}
	if err := s.messages.Create(spanCtx, &model); err != nil {
		span.RecordError(err)
		return dto.MessageResponse{}, err
	}

	response := dto.NewMessageResponse(model)
	if response.Reactions == nil {
		response.Reactions = []dto.ReactionResponse{}
	}

	if err := s.feed.PublishMessage(spanCtx, response); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish message event")
	}

	observability.ChatMessages().WithLabelValues("message").Inc()
	return response, nil
}

// AddReaction records an emoji reaction on a message. Recording the
// same reaction twice is a no-op, not an error.
func (s *ChatSession) AddReaction(ctx context.Context, messageID uint, emoji string) error {
	user, ok := s.CurrentUser()
	if !ok {
		return ErrNotInitialized
	}

	if _, allowed := allowedReactions[emoji]; !allowed {
		return ErrUnknownReaction
	}

	spanCtx, span := s.tracer.Start(ctx, "chat.add_reaction", trace.WithAttributes(
		attribute.Int("chat.message_id", int(messageID)),
	))
	defer span.End()

	if _, err := s.messages.Get(spanCtx, messageID); err != nil {
		span.RecordError(err)
		return err
	}

	reaction := models.MessageReaction{
		MessageID: messageID,
		UserID:    user.ID,
		Reaction:  emoji,
	}
	if err := s.messages.CreateReaction(spanCtx, &reaction); err != nil {
		if errors.Is(err, repository.ErrDuplicateReaction) {
			return nil
		}
		span.RecordError(err)
		return err
	}

	if err := s.feed.PublishReaction(spanCtx, dto.NewReactionResponse(reaction)); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish reaction event")
	}

	observability.ChatMessages().WithLabelValues("reaction").Inc()
	return nil
}

// SubscribeToMessages requires an initialized session and delegates to
// the change feed.
func (s *ChatSession) SubscribeToMessages(ctx context.Context, cb SnapshotFunc) (func(), error) {
	if _, ok := s.CurrentUser(); !ok {
		return nil, ErrNotInitialized
	}
	return s.feed.Subscribe(ctx, cb)
}

// History returns the full joined message history in ascending order.
func (s *ChatSession) History(ctx context.Context) ([]dto.MessageResponse, error) {
	messages, err := s.messages.ListAscending(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewMessageResponseSlice(messages), nil
}
