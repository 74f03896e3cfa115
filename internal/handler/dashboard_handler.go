package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/darsah-app/classroom-api/internal/models"
	"github.com/darsah-app/classroom-api/internal/service"
	"github.com/darsah-app/classroom-api/internal/utils"
)

// DashboardHandler serves the student progress view. Students see their own
// dashboard; admins may view any student by id.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler builds a dashboard handler instance.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.dashboard)
}

func (h *DashboardHandler) dashboard(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)

	if requested, err := parseQueryUint(c, "student_id"); err == nil && requested != nil && *requested != studentID {
		if userRoleFromContext(c) != models.RoleAdmin {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		studentID = *requested
	}

	dashboard, err := h.service.StudentDashboard(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrStorageFailure):
		return utils.SendError(c, fiber.StatusBadGateway, "storage unavailable")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
