package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mindlift/mindlift-api/internal/dto"
	"github.com/mindlift/mindlift-api/internal/models"
	"github.com/mindlift/mindlift-api/internal/repository"
)

// ProfileService exposes member profile use-cases.
type ProfileService interface {
	Get(ctx context.Context, username string) (dto.ProfileResponse, error)
	Update(ctx context.Context, username string, payload dto.ProfileUpdateRequest) (dto.ProfileResponse, error)
}

type profileService struct {
	repo      repository.ProfileRepository
	validator *validator.Validate
	logger    zerolog.Logger
	sanitizer *bluemonday.Policy
}

// NewProfileService constructs a profile service.
func NewProfileService(repo repository.ProfileRepository, validate *validator.Validate, logger zerolog.Logger) ProfileService {
	return &profileService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "profile_service").Logger(),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Get returns the member profile, creating an empty one on first access.
func (s *profileService) Get(ctx context.Context, username string) (dto.ProfileResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return dto.ProfileResponse{}, errors.New("username is required")
	}

	profile, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{Username: username}
		if createErr := s.repo.Create(ctx, &profile); createErr != nil {
			return dto.ProfileResponse{}, createErr
		}
		s.logger.Info().Str("username", username).Msg("profile created on first access")
	} else if err != nil {
		return dto.ProfileResponse{}, err
	}

	return dto.NewProfileResponse(profile), nil
}

func (s *profileService) Update(ctx context.Context, username string, payload dto.ProfileUpdateRequest) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProfileResponse{}, err
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return dto.ProfileResponse{}, errors.New("username is required")
	}

	profile, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	if payload.FullName != nil {
		profile.FullName = strings.TrimSpace(s.sanitizer.Sanitize(*payload.FullName))
	}
	if payload.AvatarURL != nil {
		profile.AvatarURL = *payload.AvatarURL
	}
	if payload.Bio != nil {
		profile.Bio = strings.TrimSpace(s.sanitizer.Sanitize(*payload.Bio))
	}
	if payload.Location != nil {
		profile.Location = strings.TrimSpace(s.sanitizer.Sanitize(*payload.Location))
	}
	if payload.Age != nil {
		profile.Age = *payload.Age
	}
	if payload.WellnessGoals != nil {
		profile.WellnessGoals = datatypes.JSONSlice[string](payload.WellnessGoals)
	}
	if payload.FitnessLevel != nil {
		profile.FitnessLevel = *payload.FitnessLevel
	}
	if payload.MeditationMinutes != nil {
		profile.MeditationMinutes = *payload.MeditationMinutes
	}
	if payload.ExerciseMinutes != nil {
		profile.ExerciseMinutes = *payload.ExerciseMinutes
	}
	if payload.SkillPoints != nil {
		profile.SkillPoints = *payload.SkillPoints
	}

	if err := s.repo.Update(ctx, &profile); err != nil {
		return dto.ProfileResponse{}, err
	}

	s.logger.Info().Str("username", username).Msg("profile updated")

	return dto.NewProfileResponse(profile), nil
}
