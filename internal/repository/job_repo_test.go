package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/models"
)

func TestJobRepositoryListFilters(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:jobrepo?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Job{}, &models.JobApplication{}))

	repo := NewJobRepository(db)
	ctx := context.Background()

	jobs := []models.Job{
		{Title: "Yoga Instructor", Company: "MindLift", Location: "Remote", Type: "Part-time", Description: "Teach yoga"},
		{Title: "Nutrition Coach", Company: "WellCo", Location: "Austin", Type: "Full-time", Description: "Plan meals"},
		{Title: "Meditation Guide", Company: "MindLift", Location: "Remote", Type: "Full-time", Description: "Lead sessions"},
	}
	for i := range jobs {
		require.NoError(t, repo.Create(ctx, &jobs[i]))
	}

	remote, total, err := repo.List(ctx, JobFilter{Location: "Remote"})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, remote, 2)

	search, total, err := repo.List(ctx, JobFilter{Search: "nutrition"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Nutrition Coach", search[0].Title)

	fullTimeRemote, total, err := repo.List(ctx, JobFilter{Location: "Remote", Type: "Full-time"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Meditation Guide", fullTimeRemote[0].Title)
}
