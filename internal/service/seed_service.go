package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/mindlift/mindlift-api/internal/models"
	"github.com/mindlift/mindlift-api/internal/repository"
)

var samplePosts = []models.Post{
	{
		Author:    "Jane Smith",
		AvatarURL: "https://images.unsplash.com/photo-1494790108377-be9c29b29330?ixlib=rb-1.2.1&ixid=eyJhcHBfaWQiOjEyMDd9&auto=format&fit=facearea&facepad=2&w=256&h=256&q=80",
		Content:   "Just completed my morning yoga session! 🧘‍♀️ Starting the day with mindfulness and stretching makes such a difference. Who else loves morning workouts?",
		Likes:     24,
		Shares:    2,
		Tags:      datatypes.JSONSlice[string]{"Wellness", "Yoga", "MorningRoutine"},
		Images:    datatypes.JSONSlice[string]{"https://images.unsplash.com/photo-1545205597-3d9d02c29597?ixlib=rb-1.2.1&auto=format&fit=crop&w=1350&q=80"},
	},
	{
		Author:    "Sarah Johnson",
		AvatarURL: "https://images.unsplash.com/photo-1494790108377-be9c29b29330?ixlib=rb-1.2.1&ixid=eyJhcHBfaWQiOjEyMDd9&auto=format&fit=facearea&facepad=2&w=256&h=256&q=80",
		Content:   "Just completed my first week of consistent workouts! The home exercise routines have been a game-changer for my mental health. 💪 #MindLiftJourney",
		Likes:     24,
		Shares:    2,
		Tags:      datatypes.JSONSlice[string]{"Fitness", "Mental Health"},
		Images:    datatypes.JSONSlice[string]{"https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?ixlib=rb-1.2.1&ixid=MnwxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8&auto=format&fit=crop&w=2070&q=80"},
	},
	{
		Author:     "Michael Chen",
		AvatarURL:  "https://images.unsplash.com/photo-1519244703995-f4e0f30006d5?ixlib=rb-1.2.1&ixid=eyJhcHBfaWQiOjEyMDd9&auto=format&fit=facearea&facepad=2&w=256&h=256&q=80",
		Content:    "The web development course is fantastic! Already building my first project and feeling more confident about my career prospects. Thank you MindLift community for the support! 🚀",
		Likes:      31,
		Shares:     2,
		Bookmarked: true,
		Tags:       datatypes.JSONSlice[string]{"Career Growth", "Learning"},
		Images:     datatypes.JSONSlice[string]{},
	},
	{
		Author:    "Emma Wilson",
		AvatarURL: "https://images.unsplash.com/photo-1517841905240-472988babdf9?ixlib=rb-1.2.1&ixid=MnwxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8&auto=format&fit=crop&w=634&q=80",
		Content:   "Just achieved a major milestone in my mindfulness journey! 30 days of consistent meditation practice. The mental clarity and emotional balance I've gained are incredible. Here's to the next 30! 🧘‍♀️ #MindfulnessChallenge",
		Likes:     45,
		Shares:    2,
		Tags:      datatypes.JSONSlice[string]{"Mental Health", "Success Stories"},
		Images: datatypes.JSONSlice[string]{
			"https://images.unsplash.com/photo-1545205597-3d9d02c29597?ixlib=rb-1.2.1&auto=format&fit=crop&w=1950&q=80",
			"https://images.unsplash.com/photo-1593811167562-9cef47bfc4d7?ixlib=rb-1.2.1&ixid=MnwxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8&auto=format&fit=crop&w=1950&q=80",
		},
	},
}

var defaultArticles = []models.Article{
	{
		Title:     "The Science Behind Mindfulness Meditation",
		Content:   "Discover how mindfulness meditation can rewire your brain for better focus, reduced anxiety, and improved emotional regulation.",
		ImageURL:  "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?ixlib=rb-1.2.1&auto=format&fit=crop&w=1000&q=80",
		Author:    "Dr. Emily Wong",
		AvatarURL: "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?ixlib=rb-1.2.1&auto=format&fit=facearea&facepad=2&w=256&h=256&q=80",
		ReadTime:  "8 min",
	},
	{
		Title:     "Building Resilience Through Daily Habits",
		Content:   "Learn how small, consistent actions can build extraordinary mental strength.",
		ImageURL:  "https://images.unsplash.com/photo-1551632811-561732d1e306?ixlib=rb-1.2.1&auto=format&fit=crop&w=1000&q=80",
		Author:    "James Wilson",
		AvatarURL: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?ixlib=rb-1.2.1&auto=format&fit=facearea&facepad=2&w=256&h=256&q=80",
		ReadTime:  "6 min",
	},
}

// SeedService populates empty content tables with starter content so a
// fresh deployment is not a blank page.
type SeedService interface {
	Run(ctx context.Context) error
}

type seedService struct {
	posts    repository.PostRepository
	articles repository.ArticleRepository
	logger   zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(posts repository.PostRepository, articles repository.ArticleRepository, logger zerolog.Logger) SeedService {
	return &seedService{
		posts:    posts,
		articles: articles,
		logger:   logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) Run(ctx context.Context) error {
	if err := s.seedPosts(ctx); err != nil {
		return err
	}
	return s.seedArticles(ctx)
}

func (s *seedService) seedPosts(ctx context.Context) error {
	count, err := s.posts.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := range samplePosts {
		post := samplePosts[i]
		if err := s.posts.Create(ctx, &post); err != nil {
			return err
		}
	}

	s.logger.Info().Int("count", len(samplePosts)).Msg("community posts seeded")
	return nil
}

func (s *seedService) seedArticles(ctx context.Context) error {
	count, err := s.articles.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := range defaultArticles {
		article := defaultArticles[i]
		if err := s.articles.Create(ctx, &article); err != nil {
			return err
		}
	}

	s.logger.Info().Int("count", len(defaultArticles)).Msg("articles seeded")
	return nil
}
