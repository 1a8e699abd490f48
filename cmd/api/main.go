package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/mindlift/mindlift-api/internal/config"
	"github.com/mindlift/mindlift-api/internal/database"
	"github.com/mindlift/mindlift-api/internal/handler"
	"github.com/mindlift/mindlift-api/internal/middleware"
	"github.com/mindlift/mindlift-api/internal/models"
	"github.com/mindlift/mindlift-api/internal/observability"
	"github.com/mindlift/mindlift-api/internal/repository"
	"github.com/mindlift/mindlift-api/internal/router"
	"github.com/mindlift/mindlift-api/internal/service"
	"github.com/mindlift/mindlift-api/pkg/ai"
	cloud "github.com/mindlift/mindlift-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.ChatUser{},
		&models.Message{},
		&models.MessageReaction{},
		&models.Post{},
		&models.PostComment{},
		&models.Article{},
		&models.Job{},
		&models.JobApplication{},
		&models.Profile{},
		&models.Notification{},
		&models.UploadRecord{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, cross-node fan-out limited to redis")
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	var generator ai.WorkoutGenerator
	if cfg.OpenAIAPIKey != "" {
		openAIGenerator, genErr := ai.NewOpenAIGenerator(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if genErr != nil {
			log.Fatalf("failed to create workout generator: %v", genErr)
		}
		generator = openAIGenerator
	} else {
		logger.Warn().Msg("openai api key not configured, workout generation serves fallback routines")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	chatUserRepo := repository.NewChatUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	postRepo := repository.NewPostRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	jobRepo := repository.NewJobRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	runCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()

	chatFeed := service.NewChatFeed(messageRepo, redisClient, cfg.ChannelBase, natsConn, logger)
	chatFeed.Start(runCtx)

	chatSession := service.NewChatSession(chatUserRepo, messageRepo, chatFeed, cfg.ChatUserName, cfg.ChatUserAvatarURL, validate, logger)

	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.ChannelBase, natsConn, validate, logger)
	notificationService.Start(runCtx)

	postService := service.NewPostService(postRepo, notificationService, cfg.ChatUserName, cfg.ChatUserAvatarURL, validate, logger)
	articleService := service.NewArticleService(articleRepo, validate, logger)
	jobService := service.NewJobService(jobRepo, notificationService, validate, logger)
	workoutService := service.NewWorkoutService(generator, validate, logger)
	profileService := service.NewProfileService(profileRepo, validate, logger)
	dashboardService := service.NewDashboardService(profileRepo, postRepo, notificationRepo, redisClient, cfg.DashboardCacheTTL, logger)
	uploadService := service.NewUploadService(uploader, uploadRepo, cfg.UploadMaxSizeMB, logger)

	seedService := service.NewSeedService(postRepo, articleRepo, logger)
	if err := seedService.Run(runCtx); err != nil {
		log.Fatalf("failed to seed default content: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	app.Get("/metrics", observability.MetricsHandler())

	router.Register(app, cfg, router.Dependencies{
		ChatHandler:         handler.NewChatHandler(chatSession, logger),
		PostHandler:         handler.NewPostHandler(postService, logger),
		ArticleHandler:      handler.NewArticleHandler(articleService, logger),
		JobHandler:          handler.NewJobHandler(jobService, logger),
		WorkoutHandler:      handler.NewWorkoutHandler(workoutService, logger),
		ProfileHandler:      handler.NewProfileHandler(profileService, dashboardService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger, 30*time.Second),
		UploadHandler:       handler.NewUploadHandler(uploadService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, chatSession, stopConsumers, logger)
}

func waitForShutdown(app *fiber.App, session *service.ChatSession, stopConsumers context.CancelFunc, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	if err := session.Cleanup(ctx); err != nil {
		logger.Warn().Err(err).Msg("chat session cleanup failed during shutdown")
	}
	stopConsumers()

	log.Println("server stopped")
}
