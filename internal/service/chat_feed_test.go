package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/models"
)

func collectSnapshots() (SnapshotFunc, chan dto.FeedSnapshot) {
	ch := make(chan dto.FeedSnapshot, 64)
	return func(snapshot dto.FeedSnapshot) {
		ch <- snapshot
	}, ch
}

func waitSnapshot(t *testing.T, ch chan dto.FeedSnapshot) dto.FeedSnapshot {
	t.Helper()
	select {
	case snapshot := <-ch:
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return dto.FeedSnapshot{}
	}
}

func TestChatFeedInitialSnapshotAscending(t *testing.T) {
	author := models.ChatUser{ID: 1, Name: "Default User"}
	messages := newStubMessageRepo(author)
	for _, content := range []string{"first", "second", "third"} {
		msg := models.Message{Content: content, UserID: author.ID}
		require.NoError(t, messages.Create(context.Background(), &msg))
	}

	feed := NewChatFeed(messages, nil, "", nil, zerolog.Nop())
	cb, snapshots := collectSnapshots()

	unsubscribe, err := feed.Subscribe(context.Background(), cb)
	require.NoError(t, err)
	defer unsubscribe()

	initial := waitSnapshot(t, snapshots)
	require.Equal(t, uint64(1), initial.Version)
	require.Len(t, initial.Messages, 3)
	require.Equal(t, "first", initial.Messages[0].Content)
	require.Equal(t, "third", initial.Messages[2].Content)
	for i := 1; i < len(initial.Messages); i++ {
		require.False(t, initial.Messages[i].CreatedAt.Before(initial.Messages[i-1].CreatedAt))
	}
}

func TestChatFeedAppliesMessageDelta(t *testing.T) {
	author := models.ChatUser{ID: 1, Name: "Default User"}
	messages := newStubMessageRepo(author)
	feed := NewChatFeed(messages, nil, "", nil, zerolog.Nop())
	cb, snapshots := collectSnapshots()

	unsubscribe, err := feed.Subscribe(context.Background(), cb)
	require.NoError(t, err)
	defer unsubscribe()

	initial := waitSnapshot(t, snapshots)
	require.Equal(t, uint64(1), initial.Version)
	require.Empty(t, initial.Messages)

	require.NoError(t, feed.PublishMessage(context.Background(), dto.MessageResponse{
		ID:      10,
		Content: "hello",
		UserID:  author.ID,
		User:    dto.ChatUserResponse{ID: author.ID, Name: author.Name},
	}))

	next := waitSnapshot(t, snapshots)
	require.Equal(t, uint64(2), next.Version)
	require.Len(t, next.Messages, 1)
	require.Equal(t, "hello", next.Messages[0].Content)
	require.Equal(t, author.ID, next.Messages[0].UserID)
	require.Equal(t, "Default User", next.Messages[0].User.Name)
}

func TestChatFeedReactionDeltaAndDedup(t *testing.T) {
	author := models.ChatUser{ID: 1, Name: "Default User"}
	messages := newStubMessageRepo(author)
	msg := models.Message{Content: "celebrate", UserID: author.ID}
	require.NoError(t, messages.Create(context.Background(), &msg))

	feed := NewChatFeed(messages, nil, "", nil, zerolog.Nop())
	cb, snapshots := collectSnapshots()

	unsubscribe, err := feed.Subscribe(context.Background(), cb)
	require.NoError(t, err)
	defer unsubscribe()

	waitSnapshot(t, snapshots)

	reaction := dto.ReactionResponse{ID: 5, MessageID: msg.ID, UserID: author.ID, Reaction: "🎉"}
	require.NoError(t, feed.PublishReaction(context.Background(), reaction))

	next := waitSnapshot(t, snapshots)
	require.Equal(t, uint64(2), next.Version)
	require.Len(t, next.Messages[0].Reactions, 1)
	require.Equal(t, "🎉", next.Messages[0].Reactions[0].Reaction)

	// Replaying the same reaction does not grow the snapshot or bump
	// the version.
	require.NoError(t, feed.PublishReaction(context.Background(), reaction))
	require.NoError(t, feed.PublishMessage(context.Background(), dto.MessageResponse{ID: 99, Content: "ping", UserID: author.ID}))

	final := waitSnapshot(t, snapshots)
	require.Equal(t, uint64(3), final.Version)
	require.Len(t, final.Messages[0].Reactions, 1)
}

func TestChatFeedRebuildsOnUnknownMessageReaction(t *testing.T) {
	author := models.ChatUser{ID: 1, Name: "Default User"}
	messages := newStubMessageRepo(author)
	feed := NewChatFeed(messages, nil, "", nil, zerolog.Nop())
	cb, snapshots := collectSnapshots()

	unsubscribe, err := feed.Subscribe(context.Background(), cb)
	require.NoError(t, err)
	defer unsubscribe()

	waitSnapshot(t, snapshots)

	// Persist a message and reaction behind the feed's back, then
	// publish only the reaction. It targets a message the view has
	// never seen, which forces a rebuild from the store.
	msg := models.Message{Content: "posted elsewhere", UserID: author.ID}
	require.NoError(t, messages.Create(context.Background(), &msg))
	reaction := models.MessageReaction{MessageID: msg.ID, UserID: author.ID, Reaction: "👍"}
	require.NoError(t, messages.CreateReaction(context.Background(), &reaction))
	require.NoError(t, feed.PublishReaction(context.Background(), dto.NewReactionResponse(reaction)))

	deadline := time.After(2 * time.Second)
	var last dto.FeedSnapshot
	for {
		select {
		case last = <-snapshots:
			if len(last.Messages) == 1 && len(last.Messages[0].Reactions) == 1 {
				require.Greater(t, last.Version, uint64(1))
				require.Equal(t, "posted elsewhere", last.Messages[0].Content)
				return
			}
		case <-deadline:
			t.Fatalf("view never converged to the stored message, last version %d", last.Version)
		}
	}
}

// A subscriber slower than the event buffer must not lose history:
// every saved message still shows up once the view rebuilds.
func TestChatFeedConvergesAfterBackpressureDrops(t *testing.T) {
	author := models.ChatUser{ID: 1, Name: "Default User"}
	messages := newStubMessageRepo(author)
	feed := NewChatFeed(messages, nil, "", nil, zerolog.Nop())

	release := make(chan struct{})
	var gate sync.Once
	snapshots := make(chan dto.FeedSnapshot, 1024)
	cb := func(snapshot dto.FeedSnapshot) {
		// Stall the first delivery so published events overflow the
		// subscription buffer.
		gate.Do(func() { <-release })
		snapshots <- snapshot
	}

	unsubscribe, err := feed.Subscribe(context.Background(), cb)
	require.NoError(t, err)
	defer unsubscribe()

	const total = feedEventBufferSize + 50
	for i := 0; i < total; i++ {
		msg := models.Message{Content: fmt.Sprintf("entry %d", i), UserID: author.ID}
		require.NoError(t, messages.Create(context.Background(), &msg))
		require.NoError(t, feed.PublishMessage(context.Background(), dto.NewMessageResponse(msg)))
	}
	close(release)

	deadline := time.After(5 * time.Second)
	seen := 0
	for {
		select {
		case snapshot := <-snapshots:
			seen = len(snapshot.Messages)
			if seen == total {
				return
			}
		case <-deadline:
			t.Fatalf("view converged to %d of %d messages", seen, total)
		}
	}
}

func TestChatFeedNoDeliveriesAfterUnsubscribe(t *testing.T) {
	messages := newStubMessageRepo(models.ChatUser{ID: 1})
	feed := NewChatFeed(messages, nil, "", nil, zerolog.Nop())
	cb, snapshots := collectSnapshots()

	unsubscribe, err := feed.Subscribe(context.Background(), cb)
	require.NoError(t, err)

	waitSnapshot(t, snapshots)

	unsubscribe()
	// Unsubscribe is idempotent.
	unsubscribe()

	require.NoError(t, feed.PublishMessage(context.Background(), dto.MessageResponse{ID: 1, Content: "late", UserID: 1}))

	select {
	case snapshot := <-snapshots:
		t.Fatalf("unexpected delivery after unsubscribe: version %d", snapshot.Version)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestChatFeedResubscribeReplacesPrevious(t *testing.T) {
	messages := newStubMessageRepo(models.ChatUser{ID: 1})
	feed := NewChatFeed(messages, nil, "", nil, zerolog.Nop())

	firstCb, firstSnapshots := collectSnapshots()
	_, err := feed.Subscribe(context.Background(), firstCb)
	require.NoError(t, err)
	waitSnapshot(t, firstSnapshots)

	secondCb, secondSnapshots := collectSnapshots()
	unsubscribe, err := feed.Subscribe(context.Background(), secondCb)
	require.NoError(t, err)
	defer unsubscribe()
	waitSnapshot(t, secondSnapshots)

	require.NoError(t, feed.PublishMessage(context.Background(), dto.MessageResponse{ID: 1, Content: "for the second", UserID: 1}))

	next := waitSnapshot(t, secondSnapshots)
	require.Equal(t, "for the second", next.Messages[0].Content)

	select {
	case snapshot := <-firstSnapshots:
		t.Fatalf("replaced subscription still receiving: version %d", snapshot.Version)
	case <-time.After(100 * time.Millisecond):
	}
}

// End-to-end against a fresh store: initialize, subscribe, post
// "hello", and watch it arrive attributed to the session user.
func TestChatFreshStoreScenario(t *testing.T) {
	users := newStubChatUserRepo()
	messages := newStubMessageRepo(models.ChatUser{ID: 1, Name: "Default User"})
	feed := NewChatFeed(messages, nil, "", nil, zerolog.Nop())
	session := NewChatSession(users, messages, feed, "Default User", "https://example.com/avatar.png", newTestValidator(), zerolog.Nop())

	user, err := session.Initialize(context.Background())
	require.NoError(t, err)

	cb, snapshots := collectSnapshots()
	unsubscribe, err := session.SubscribeToMessages(context.Background(), cb)
	require.NoError(t, err)
	defer unsubscribe()

	initial := waitSnapshot(t, snapshots)
	require.Equal(t, uint64(1), initial.Version)
	require.Empty(t, initial.Messages)

	saved, err := session.SaveMessage(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, "hello", saved.Content)

	next := waitSnapshot(t, snapshots)
	require.Equal(t, uint64(2), next.Version)
	require.Len(t, next.Messages, 1)
	require.Equal(t, "hello", next.Messages[0].Content)
	require.Equal(t, user.ID, next.Messages[0].UserID)
}
