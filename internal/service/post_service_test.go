package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/models"
)

type stubPostRepo struct {
	posts    []models.Post
	comments []models.PostComment
	nextID   uint
}

func (s *stubPostRepo) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return s.posts, nil
}

func (s *stubPostRepo) Get(ctx context.Context, id uint) (models.Post, error) {
	for _, post := range s.posts {
		if post.ID == id {
			return post, nil
		}
	}
	return models.Post{}, gorm.ErrRecordNotFound
}

func (s *stubPostRepo) Create(ctx context.Context, post *models.Post) error {
	s.nextID++
	post.ID = s.nextID
	s.posts = append(s.posts, *post)
	return nil
}

func (s *stubPostRepo) CreateComment(ctx context.Context, comment *models.PostComment) error {
	s.nextID++
	comment.ID = s.nextID
	s.comments = append(s.comments, *comment)
	return nil
}

func (s *stubPostRepo) IncrementLikes(ctx context.Context, id uint) error {
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Likes++
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubPostRepo) IncrementShares(ctx context.Context, id uint) error {
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Shares++
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubPostRepo) SetBookmarked(ctx context.Context, id uint, bookmarked bool) error {
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Bookmarked = bookmarked
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubPostRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(s.posts)), nil
}

func newTestPostService(repo *stubPostRepo) PostService {
	return NewPostService(repo, nil, "Default User", "https://example.com/avatar.png", newTestValidator(), zerolog.Nop())
}

func TestPostServiceCreateSanitizes(t *testing.T) {
	repo := &stubPostRepo{}
	svc := newTestPostService(repo)

	post, err := svc.Create(context.Background(), dto.PostCreateRequest{
		Content: "<script>alert(1)</script>Morning run complete!",
		Tags:    []string{"Fitness"},
	})
	require.NoError(t, err)
	require.Equal(t, "Morning run complete!", post.Content)
	require.Equal(t, "Default User", post.Author)

	_, err = svc.Create(context.Background(), dto.PostCreateRequest{Content: "<script>alert(1)</script>"})
	require.Error(t, err)
}

func TestPostServiceLikeAndShare(t *testing.T) {
	repo := &stubPostRepo{}
	svc := newTestPostService(repo)

	created, err := svc.Create(context.Background(), dto.PostCreateRequest{Content: "hello feed"})
	require.NoError(t, err)

	liked, err := svc.Like(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, liked.Likes)

	shared, err := svc.Share(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, shared.Shares)
}

func TestPostServiceToggleBookmark(t *testing.T) {
	repo := &stubPostRepo{}
	svc := newTestPostService(repo)

	created, err := svc.Create(context.Background(), dto.PostCreateRequest{Content: "bookmark me"})
	require.NoError(t, err)

	toggled, err := svc.ToggleBookmark(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, toggled.Bookmarked)

	toggled, err = svc.ToggleBookmark(context.Background(), created.ID)
	require.NoError(t, err)
	require.False(t, toggled.Bookmarked)
}

func TestPostServiceAddCommentNotifiesAuthor(t *testing.T) {
	repo := &stubPostRepo{}
	notifications := &stubNotificationPublisher{}
	svc := NewPostService(repo, notifications, "Default User", "https://example.com/avatar.png", newTestValidator(), zerolog.Nop())

	created, err := svc.Create(context.Background(), dto.PostCreateRequest{Content: "notify me"})
	require.NoError(t, err)

	_, err = svc.AddComment(context.Background(), dto.CommentCreateRequest{PostID: created.ID, Content: "great progress"})
	require.NoError(t, err)

	require.Len(t, notifications.calls, 1)
	require.Equal(t, "post_comment", notifications.calls[0].Type)
	require.Equal(t, "Default User", notifications.calls[0].UserID)
}

func TestPostServiceAddCommentRequiresPost(t *testing.T) {
	repo := &stubPostRepo{}
	svc := newTestPostService(repo)

	_, err := svc.AddComment(context.Background(), dto.CommentCreateRequest{PostID: 404, Content: "nice"})
	require.Error(t, err)

	created, err := svc.Create(context.Background(), dto.PostCreateRequest{Content: "post with comments"})
	require.NoError(t, err)

	comment, err := svc.AddComment(context.Background(), dto.CommentCreateRequest{PostID: created.ID, Content: "nice work"})
	require.NoError(t, err)
	require.Equal(t, created.ID, comment.PostID)
	require.Equal(t, "Default User", comment.Author)
}
