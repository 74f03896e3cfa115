package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/darsah-app/classroom-api/internal/config"
	"github.com/darsah-app/classroom-api/internal/handler"
	"github.com/darsah-app/classroom-api/internal/middleware"
	"github.com/darsah-app/classroom-api/internal/models"
	"github.com/darsah-app/classroom-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler           *handler.AuthHandler
	StudentHandler        *handler.StudentHandler
	AssignmentHandler     *handler.AssignmentHandler
	SubmissionHandler     *handler.SubmissionHandler
	QuizHandler           *handler.QuizHandler
	QuizQuestionHandler   *handler.QuizQuestionHandler
	QuizSubmissionHandler *handler.QuizSubmissionHandler
	AttachmentHandler     *handler.AttachmentHandler
	ActivityHandler       *handler.ActivityHandler
	DashboardHandler      *handler.DashboardHandler
	JWTMiddleware         fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/students", jwtMiddleware, adminOnly))
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", jwtMiddleware)
		deps.AssignmentHandler.RegisterReads(assignments)
		deps.AssignmentHandler.RegisterWrites(assignments.Group("", adminOnly))
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/assignment-submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions, adminOnly)
	}

	if deps.QuizHandler != nil {
		quizzes := api.Group("/quizzes", jwtMiddleware)
		deps.QuizHandler.RegisterReads(quizzes)
		deps.QuizHandler.RegisterWrites(quizzes.Group("", adminOnly))
	}

	if deps.QuizQuestionHandler != nil {
		deps.QuizQuestionHandler.Register(api.Group("/quiz-questions", jwtMiddleware, adminOnly))
	}

	if deps.QuizSubmissionHandler != nil {
		deps.QuizSubmissionHandler.Register(api.Group("/quiz-submissions", jwtMiddleware))
	}

	if deps.AttachmentHandler != nil {
		attachments := api.Group("/attachments", jwtMiddleware)
		deps.AttachmentHandler.RegisterReads(attachments)
		deps.AttachmentHandler.RegisterWrites(attachments.Group("", adminOnly))
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api.Group("/activity", jwtMiddleware, adminOnly))
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("/me", jwtMiddleware))
	}
}
