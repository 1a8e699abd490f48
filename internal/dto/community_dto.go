package dto

import (
	"time"

	"github.com/mindlift/mindlift-api/internal/models"
)

// PostCreateRequest is the payload to publish a feed post.
type PostCreateRequest struct {
	Content string   `json:"content" validate:"required,min=1,max=8000"`
	Tags    []string `json:"tags" validate:"omitempty,dive,max=64"`
	Images  []string `json:"images" validate:"omitempty,dive,url"`
}

// CommentCreateRequest adds a comment to an existing post.
type CommentCreateRequest struct {
	PostID  uint   `json:"post_id" validate:"required"`
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// CommentResponse is the serialized post comment.
type CommentResponse struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"post_id"`
	Author    string    `json:"author"`
	AvatarURL string    `json:"avatar"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PostResponse is the serialized feed post including comments when preloaded.
type PostResponse struct {
	ID         uint              `json:"id"`
	Author     string            `json:"author"`
	AvatarURL  string            `json:"avatar"`
	Content    string            `json:"content"`
	Likes      int               `json:"likes"`
	Shares     int               `json:"shares"`
	Bookmarked bool              `json:"bookmarked"`
	Tags       []string          `json:"tags"`
	Images     []string          `json:"images"`
	Comments   []CommentResponse `json:"comments,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ArticleCreateRequest is the payload to publish a wellness article.
type ArticleCreateRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=255"`
	Content  string `json:"content" validate:"required,min=1"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
	Author   string `json:"author" validate:"required,max=128"`
	Avatar   string `json:"avatar" validate:"omitempty,url"`
	ReadTime string `json:"read_time" validate:"omitempty,max=32"`
}

// ArticleResponse is the serialized article.
type ArticleResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url"`
	Author    string    `json:"author"`
	Avatar    string    `json:"avatar"`
	ReadTime  string    `json:"read_time"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCommentResponse converts a comment model into a DTO.
func NewCommentResponse(comment models.PostComment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Author:    comment.Author,
		AvatarURL: comment.AvatarURL,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

// NewPostResponse converts a post model into a DTO.
func NewPostResponse(post models.Post) PostResponse {
	comments := make([]CommentResponse, 0, len(post.Comments))
	for _, comment := range post.Comments {
		comments = append(comments, NewCommentResponse(comment))
	}

	return PostResponse{
		ID:         post.ID,
		Author:     post.Author,
		AvatarURL:  post.AvatarURL,
		Content:    post.Content,
		Likes:      post.Likes,
		Shares:     post.Shares,
		Bookmarked: post.Bookmarked,
		Tags:       post.Tags,
		Images:     post.Images,
		Comments:   comments,
		CreatedAt:  post.CreatedAt,
	}
}

// NewPostResponseSlice converts a slice of posts into DTOs.
func NewPostResponseSlice(posts []models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, NewPostResponse(post))
	}
	return out
}

// NewArticleResponse converts an article model into a DTO.
func NewArticleResponse(article models.Article) ArticleResponse {
	return ArticleResponse{
		ID:        article.ID,
		Title:     article.Title,
		Content:   article.Content,
		ImageURL:  article.ImageURL,
		Author:    article.Author,
		Avatar:    article.AvatarURL,
		ReadTime:  article.ReadTime,
		CreatedAt: article.CreatedAt,
	}
}

// NewArticleResponseSlice converts a slice of articles into DTOs.
func NewArticleResponseSlice(articles []models.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for _, article := range articles {
		out = append(out, NewArticleResponse(article))
	}
	return out
}
