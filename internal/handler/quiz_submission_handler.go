package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/service"
	"github.com/darsah-app/classroom-api/internal/utils"
)

// QuizSubmissionHandler manages quiz attempt endpoints.
type QuizSubmissionHandler struct {
	service service.QuizGradingService
	logger  zerolog.Logger
}

// NewQuizSubmissionHandler builds a quiz submission handler instance.
func NewQuizSubmissionHandler(service service.QuizGradingService, logger zerolog.Logger) *QuizSubmissionHandler {
	return &QuizSubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "quiz_submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *QuizSubmissionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.submit)
}

func (h *QuizSubmissionHandler) list(c *fiber.Ctx) error {
	filter := dto.QuizSubmissionFilter{}
	quizID, err := parseQueryUint(c, "quiz_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	filter.QuizID = quizID

	studentID, err := parseQueryUint(c, "student_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	filter.StudentID = studentID

	submissions, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "quiz submissions retrieved", submissions)
}

func (h *QuizSubmissionHandler) submit(c *fiber.Ctx) error {
	var payload dto.QuizSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Submit(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "quiz graded", result)
}

func (h *QuizSubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		return utils.SendError(c, fiber.StatusBadGateway, "storage unavailable")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
