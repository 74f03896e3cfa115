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
	"github.com/rs/zerolog"

	"github.com/darsah-app/classroom-api/internal/config"
	"github.com/darsah-app/classroom-api/internal/database"
	"github.com/darsah-app/classroom-api/internal/handler"
	"github.com/darsah-app/classroom-api/internal/middleware"
	"github.com/darsah-app/classroom-api/internal/models"
	"github.com/darsah-app/classroom-api/internal/repository"
	"github.com/darsah-app/classroom-api/internal/router"
	"github.com/darsah-app/classroom-api/internal/service"
	cloud "github.com/darsah-app/classroom-api/pkg/cloudinary"
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
		&models.Student{},
		&models.Assignment{},
		&models.AssignmentSubmission{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizSubmission{},
		&models.Attachment{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	questionRepo := repository.NewQuizQuestionRepository(db)
	quizSubmissionRepo := repository.NewQuizSubmissionRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	authService := service.NewAuthService(studentRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	studentService := service.NewStudentService(studentRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, validate, uploader, activityService, int64(cfg.MaxAttachmentMB), logger)
	submissionService := service.NewSubmissionService(submissionRepo, validate, uploader, activityService, cfg.MaxAttachmentMB, logger)
	gradingService := service.NewGradingService(submissionRepo, activityService, logger)
	answerKeyCache := service.NewAnswerKeyCache(redisClient, cfg.AnswerKeyCacheTTL, logger)
	quizService := service.NewQuizService(quizRepo, validate, answerKeyCache, logger)
	questionService := service.NewQuizQuestionService(questionRepo, validate, answerKeyCache, logger)
	quizGradingService := service.NewQuizGradingService(questionRepo, quizSubmissionRepo, validate, answerKeyCache, logger)
	attachmentService := service.NewAttachmentService(attachmentRepo, validate, uploader, activityService, int64(cfg.MaxAttachmentMB), logger)
	dashboardService := service.NewDashboardService(studentRepo, assignmentRepo, submissionRepo, quizSubmissionRepo, redisClient, cfg.DashboardCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:           handler.NewAuthHandler(authService, logger),
		StudentHandler:        handler.NewStudentHandler(studentService, logger),
		AssignmentHandler:     handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler:     handler.NewSubmissionHandler(submissionService, gradingService, logger),
		QuizHandler:           handler.NewQuizHandler(quizService, questionService, logger),
		QuizQuestionHandler:   handler.NewQuizQuestionHandler(questionService, logger),
		QuizSubmissionHandler: handler.NewQuizSubmissionHandler(quizGradingService, logger),
		AttachmentHandler:     handler.NewAttachmentHandler(attachmentService, logger),
		ActivityHandler:       handler.NewActivityHandler(activityService, logger),
		DashboardHandler:      handler.NewDashboardHandler(dashboardService, logger),
		JWTMiddleware:         middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
