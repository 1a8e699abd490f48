package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/models"
	"github.com/mindlift/mindlift-api/internal/repository"
)

const dashboardRecentPosts = 5

// DashboardService aggregates wellness stats for the member dashboard.
type DashboardService interface {
	Overview(ctx context.Context, username string) (dto.DashboardResponse, error)
}

type dashboardService struct {
	profiles      repository.ProfileRepository
	posts         repository.PostRepository
	notifications repository.NotificationRepository
	cache         *redis.Client
	cacheTTL      time.Duration
	logger        zerolog.Logger
}

// NewDashboardService constructs a dashboard service. The cache client
// may be nil, disabling caching.
func NewDashboardService(profiles repository.ProfileRepository, posts repository.PostRepository, notifications repository.NotificationRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		profiles:      profiles,
		posts:         posts,
		notifications: notifications,
		cache:         cache,
		cacheTTL:      ttl,
		logger:        logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) Overview(ctx context.Context, username string) (dto.DashboardResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return dto.DashboardResponse{}, errors.New("username is required")
	}

	cacheKey := fmt.Sprintf("dashboard:member:%s", username)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("username", username).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	profile, err := s.profiles.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{Username: username}
		if createErr := s.profiles.Create(ctx, &profile); createErr != nil {
			return dto.DashboardResponse{}, createErr
		}
	} else if err != nil {
		return dto.DashboardResponse{}, err
	}

	recentPosts, err := s.posts.List(ctx, dashboardRecentPosts, 0)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	unread, err := s.notifications.CountUnread(ctx, username)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	response := dto.DashboardResponse{
		Profile:             dto.NewProfileResponse(profile),
		RecentPosts:         dto.NewPostResponseSlice(recentPosts),
		UnreadNotifications: unread,
		TotalActiveMinutes:  profile.MeditationMinutes + profile.ExerciseMinutes,
	}

	if s.cache != nil {
		payload, marshalErr := json.Marshal(response)
		if marshalErr == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}
