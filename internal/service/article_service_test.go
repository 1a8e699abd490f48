package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mindlift/mindlift-api/internal/dto"
)

func TestArticleServiceCreateSanitizes(t *testing.T) {
	repo := &stubArticleRepo{}
	svc := NewArticleService(repo, newTestValidator(), zerolog.Nop())

	article, err := svc.Create(context.Background(), dto.ArticleCreateRequest{
		Title:   "Sleep Hygiene <script>alert(1)</script>Basics",
		Content: "Keep a consistent bedtime.",
		Author:  "Dr. Emily Wong",
	})
	require.NoError(t, err)
	require.Equal(t, "Sleep Hygiene Basics", article.Title)

	listed, err := svc.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestArticleServiceCreateValidation(t *testing.T) {
	svc := NewArticleService(&stubArticleRepo{}, newTestValidator(), zerolog.Nop())

	_, err := svc.Create(context.Background(), dto.ArticleCreateRequest{Title: "x"})
	require.Error(t, err)
}
