package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/observability"
	"github.com/mindlift/mindlift-api/internal/repository"
)

const feedEventBufferSize = 256

const (
	feedEventMessage  = "message"
	feedEventReaction = "reaction"
)

// SnapshotFunc receives each consistent view of the message history.
type SnapshotFunc func(dto.FeedSnapshot)

type feedEvent struct {
	Source   string                `json:"source"`
	Kind     string                `json:"kind"`
	Message  *dto.MessageResponse  `json:"message,omitempty"`
	Reaction *dto.ReactionResponse `json:"reaction,omitempty"`
	SentAt   time.Time             `json:"sent_at"`
}

// ChatFeed maintains a versioned in-memory view of the community
// message history and streams incremental updates to a subscriber.
// Events are applied as deltas to the held snapshot rather than
// refetching the full history on every change. Whenever an event
// cannot be applied, the view is marked stale and rebuilt from the
// store before the next delivery, so snapshots always converge to
// what the store holds.
type ChatFeed struct {
	repo         repository.MessageRepository
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	nodeID       string

	mu       sync.Mutex
	sub      *feedSubscription
	eventSeq uint64
}

type feedSubscription struct {
	repo     repository.MessageRepository
	ctx      context.Context
	cb       SnapshotFunc
	events   chan feedEvent
	refresh  chan struct{}
	done     chan struct{}
	finished chan struct{}
	stopOnce sync.Once
	logger   zerolog.Logger

	version  uint64
	messages []dto.MessageResponse
	index    map[uint]int
}

// NewChatFeed constructs the change feed for the community chat.
func NewChatFeed(repo repository.MessageRepository, redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) *ChatFeed {
	redisChannel := ""
	natsSubject := ""
	if channelBase != "" {
		redisChannel = channelBase + ":chat:feed"
		natsSubject = strings.ReplaceAll(channelBase, ":", ".") + ".chat.feed"
	}

	return &ChatFeed{
		repo:         repo,
		redis:        redisClient,
		redisChannel: redisChannel,
		nats:         natsConn,
		natsSubject:  natsSubject,
		logger:       logger.With().Str("component", "chat_feed").Logger(),
		nodeID:       uuid.NewString(),
	}
}

// Start begins consuming cross-node feed events until ctx is cancelled.
func (f *ChatFeed) Start(ctx context.Context) {
	if f.redis != nil && f.redisChannel != "" {
		go f.consumeRedis(ctx)
	}
	if f.nats != nil && f.natsSubject != "" {
		go f.consumeNATS(ctx)
	}
}

// Subscribe fetches the full history once, delivers it to cb as
// snapshot version 1, then streams a new snapshot after every applied
// delta. A second Subscribe tears down the previous subscription. The
// returned unsubscribe is idempotent; once it returns no further
// deliveries occur.
func (f *ChatFeed) Subscribe(ctx context.Context, cb SnapshotFunc) (func(), error) {
	f.mu.Lock()
	seq := f.eventSeq
	f.mu.Unlock()

	history, err := f.repo.ListAscending(ctx)
	if err != nil {
		return nil, err
	}

	messages := dto.NewMessageResponseSlice(history)
	index := make(map[uint]int, len(messages))
	for i, message := range messages {
		index[message.ID] = i
	}

	sub := &feedSubscription{
		repo:     f.repo,
		ctx:      ctx,
		cb:       cb,
		events:   make(chan feedEvent, feedEventBufferSize),
		refresh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		logger:   f.logger,
		version:  1,
		messages: messages,
		index:    index,
	}

	f.mu.Lock()
	previous := f.sub
	f.sub = sub
	raced := f.eventSeq != seq
	f.mu.Unlock()

	if previous != nil {
		previous.stop()
	}

	// Events dispatched between the history fetch and the registration
	// above went to the previous subscription or nowhere. Rebuild from
	// the store so this view does not start out missing them.
	if raced {
		sub.markStale()
	}

	go sub.run()

	unsubscribe := func() {
		sub.stop()
		f.mu.Lock()
		if f.sub == sub {
			f.sub = nil
		}
		f.mu.Unlock()
	}

	return unsubscribe, nil
}

// Close tears down the active subscription, if any.
func (f *ChatFeed) Close() {
	f.mu.Lock()
	sub := f.sub
	f.sub = nil
	f.mu.Unlock()

	if sub != nil {
		sub.stop()
	}
}

// PublishMessage applies a newly created message locally and fans it
// out to the other nodes.
func (f *ChatFeed) PublishMessage(ctx context.Context, message dto.MessageResponse) error {
	event := feedEvent{
		Source:  f.nodeID,
		Kind:    feedEventMessage,
		Message: &message,
		SentAt:  time.Now().UTC(),
	}
	f.dispatch(event)
	return f.publish(ctx, event)
}

// PublishReaction applies a newly recorded reaction locally and fans
// it out to the other nodes.
func (f *ChatFeed) PublishReaction(ctx context.Context, reaction dto.ReactionResponse) error {
	event := feedEvent{
		Source:   f.nodeID,
		Kind:     feedEventReaction,
		Reaction: &reaction,
		SentAt:   time.Now().UTC(),
	}
	f.dispatch(event)
	return f.publish(ctx, event)
}

func (f *ChatFeed) dispatch(event feedEvent) {
	f.mu.Lock()
	f.eventSeq++
	sub := f.sub
	f.mu.Unlock()

	if sub == nil {
		observability.FeedEventsDropped().WithLabelValues("no_subscriber").Inc()
		return
	}

	select {
	case sub.events <- event:
	case <-sub.done:
	default:
		observability.FeedEventsDropped().WithLabelValues("backpressure").Inc()
		f.logger.Warn().Str("kind", event.Kind).Msg("dropping feed event for slow subscriber, view marked stale")
		sub.markStale()
	}
}

func (f *ChatFeed) publish(ctx context.Context, event feedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if f.redis != nil && f.redisChannel != "" {
		if err := f.redis.Publish(ctx, f.redisChannel, payload).Err(); err != nil {
			return err
		}
	}

	if f.nats != nil && f.natsSubject != "" {
		if err := f.nats.Publish(f.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (f *ChatFeed) consumeRedis(ctx context.Context) {
	pubsub := f.redis.Subscribe(ctx, f.redisChannel)
	defer func() {
		_ = pubsub.Close()
	}()
	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			f.logger.Error().Err(err).Msg("feed redis subscription closed")
			return
		}
		f.handleRemote([]byte(msg.Payload))
	}
}

func (f *ChatFeed) consumeNATS(ctx context.Context) {
	sub, err := f.nats.QueueSubscribe(f.natsSubject, "mindlift-chat-feed", func(msg *nats.Msg) {
		f.handleRemote(msg.Data)
	})
	if err != nil {
		f.logger.Error().Err(err).Msg("failed to subscribe to nats feed subject")
		return
	}
	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			f.logger.Warn().Err(err).Msg("failed to drain feed nats subscription")
		}
	}()
}

func (f *ChatFeed) handleRemote(data []byte) {
	var event feedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		observability.FeedEventsDropped().WithLabelValues("decode").Inc()
		f.logger.Warn().Err(err).Msg("invalid feed event")
		return
	}

	// Events originating here were already applied before publish.
	if event.Source == f.nodeID {
		return
	}

	f.dispatch(event)
}

func (s *feedSubscription) run() {
	defer close(s.finished)

	select {
	case <-s.done:
		return
	default:
	}
	s.cb(s.snapshot())
	observability.FeedDeliveries().Inc()

	for {
		select {
		case <-s.done:
			return
		case <-s.refresh:
			if !s.reload() {
				time.AfterFunc(time.Second, s.markStale)
				continue
			}
		case event := <-s.events:
			if !s.apply(event) {
				continue
			}
		}
		select {
		case <-s.done:
			return
		default:
		}
		s.cb(s.snapshot())
		observability.FeedDeliveries().Inc()
	}
}

// markStale schedules a full rebuild of the held view from the store.
// Safe to call from any goroutine; repeated calls coalesce.
func (s *feedSubscription) markStale() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// reload refetches the full history so the view converges back to the
// store after dropped events. Reports whether the rebuild succeeded.
func (s *feedSubscription) reload() bool {
	history, err := s.repo.ListAscending(s.ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to rebuild chat view after dropped events")
		return false
	}

	messages := dto.NewMessageResponseSlice(history)
	index := make(map[uint]int, len(messages))
	for i, message := range messages {
		index[message.ID] = i
	}

	s.messages = messages
	s.index = index
	s.version++
	observability.FeedReloads().Inc()
	return true
}

// apply mutates the held view and reports whether anything changed.
func (s *feedSubscription) apply(event feedEvent) bool {
	switch event.Kind {
	case feedEventMessage:
		if event.Message == nil {
			observability.FeedEventsDropped().WithLabelValues("malformed").Inc()
			return false
		}
		if _, exists := s.index[event.Message.ID]; exists {
			return false
		}
		message := *event.Message
		if message.Reactions == nil {
			message.Reactions = []dto.ReactionResponse{}
		}
		s.index[message.ID] = len(s.messages)
		s.messages = append(s.messages, message)
	case feedEventReaction:
		if event.Reaction == nil {
			observability.FeedEventsDropped().WithLabelValues("malformed").Inc()
			return false
		}
		position, exists := s.index[event.Reaction.MessageID]
		if !exists {
			// The message this reaction targets may itself have been a
			// dropped event, so rebuild rather than silently skip.
			observability.FeedEventsDropped().WithLabelValues("unknown_message").Inc()
			s.logger.Warn().Uint("message_id", event.Reaction.MessageID).Msg("reaction for unknown message, view marked stale")
			s.markStale()
			return false
		}
		for _, existing := range s.messages[position].Reactions {
			if existing.UserID == event.Reaction.UserID && existing.Reaction == event.Reaction.Reaction {
				return false
			}
		}
		s.messages[position].Reactions = append(s.messages[position].Reactions, *event.Reaction)
	default:
		observability.FeedEventsDropped().WithLabelValues("unknown_kind").Inc()
		s.logger.Warn().Str("kind", event.Kind).Msg("unknown feed event kind skipped")
		return false
	}

	s.version++
	return true
}

// snapshot clones the held view so callers can retain it safely.
func (s *feedSubscription) snapshot() dto.FeedSnapshot {
	messages := make([]dto.MessageResponse, len(s.messages))
	copy(messages, s.messages)
	for i := range messages {
		reactions := make([]dto.ReactionResponse, len(messages[i].Reactions))
		copy(reactions, messages[i].Reactions)
		messages[i].Reactions = reactions
	}
	return dto.FeedSnapshot{Version: s.version, Messages: messages}
}

func (s *feedSubscription) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		<-s.finished
	})
}
