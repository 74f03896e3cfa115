package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/service"
	"github.com/darsah-app/classroom-api/internal/utils"
)

// AttachmentHandler manages the shared attachment library endpoints.
type AttachmentHandler struct {
	service service.AttachmentService
	logger  zerolog.Logger
}

// NewAttachmentHandler builds an attachment handler instance.
func NewAttachmentHandler(service service.AttachmentService, logger zerolog.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		service: service,
		logger:  logger.With().Str("component", "attachment_handler").Logger(),
	}
}

// RegisterReads attaches the read-only routes to the provided router group.
func (h *AttachmentHandler) RegisterReads(router fiber.Router) {
	router.Get("", h.list)
}

// RegisterWrites attaches the mutating routes to the provided router group.
func (h *AttachmentHandler) RegisterWrites(router fiber.Router) {
	router.Post("", h.upload)
	router.Patch("/:id", h.rename)
	router.Delete("/:id", h.delete)
}

func (h *AttachmentHandler) list(c *fiber.Ctx) error {
	attachments, err := h.service.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attachments retrieved", attachments)
}

func (h *AttachmentHandler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	attachment, err := h.service.Upload(c.Context(), c.FormValue("title"), file, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attachment uploaded", attachment)
}

func (h *AttachmentHandler) rename(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AttachmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	attachment, err := h.service.Rename(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attachment renamed", attachment)
}

func (h *AttachmentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, activityActorFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attachment deleted", nil)
}

func (h *AttachmentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAttachmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "attachment not found")
	case errors.Is(err, service.ErrAttachmentTooLarge),
		errors.Is(err, service.ErrAttachmentTypeNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		return utils.SendError(c, fiber.StatusBadGateway, "storage unavailable")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
