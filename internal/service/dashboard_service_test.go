package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/models"
	"github.com/mindlift/mindlift-api/internal/repository"
)

func TestDashboardServiceAggregationAndCaching(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Post{}, &models.PostComment{}, &models.Notification{}))

	profile := models.Profile{Username: "alex", MeditationMinutes: 30, ExerciseMinutes: 45}
	require.NoError(t, db.Create(&profile).Error)

	for _, content := range []string{"post one", "post two"} {
		post := models.Post{Author: "alex", Content: content}
		require.NoError(t, db.Create(&post).Error)
	}

	notifications := []models.Notification{
		{UserID: "alex", Type: "job_application", Message: "unread one"},
		{UserID: "alex", Type: "job_application", Message: "unread two"},
		{UserID: "alex", Type: "job_application", Message: "seen", Read: true},
	}
	for i := range notifications {
		require.NoError(t, db.Create(&notifications[i]).Error)
	}

	svc := NewDashboardService(
		repository.NewProfileRepository(db),
		repository.NewPostRepository(db),
		repository.NewNotificationRepository(db),
		redisClient,
		time.Minute,
		zerolog.Nop(),
	)

	ctx := context.Background()
	first, err := svc.Overview(ctx, "alex")
	require.NoError(t, err)
	require.Equal(t, "alex", first.Profile.Username)
	require.Equal(t, 75, first.TotalActiveMinutes)
	require.Equal(t, int64(2), first.UnreadNotifications)
	require.Len(t, first.RecentPosts, 2)

	// A database change is hidden by the cache for the TTL.
	require.NoError(t, db.Model(&profile).Update("exercise_minutes", 90).Error)

	second, err := svc.Overview(ctx, "alex")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDashboardServiceCacheHit(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Post{}, &models.PostComment{}, &models.Notification{}))

	svc := NewDashboardService(
		repository.NewProfileRepository(db),
		repository.NewPostRepository(db),
		repository.NewNotificationRepository(db),
		redisClient,
		time.Minute,
		zerolog.Nop(),
	)

	ctx := context.Background()
	cached := dto.DashboardResponse{TotalActiveMinutes: 120}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, redisClient.Set(ctx, "dashboard:member:casey", payload, time.Minute).Err())

	response, err := svc.Overview(ctx, "casey")
	require.NoError(t, err)
	require.Equal(t, cached, response)
}
