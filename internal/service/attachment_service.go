package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/models"
	"github.com/darsah-app/classroom-api/internal/repository"
)

// ErrAttachmentNotFound indicates the library entry does not exist.
var ErrAttachmentNotFound = errors.New("attachment not found")

// AttachmentService manages the shared attachment library. Library entries
// own their blob: deleting an entry removes the stored file with it.
type AttachmentService interface {
	List(ctx context.Context) ([]dto.AttachmentResponse, error)
	Upload(ctx context.Context, title string, file *multipart.FileHeader, actor ActivityActor) (dto.AttachmentResponse, error)
	Rename(ctx context.Context, id uint, payload dto.AttachmentUpdateRequest) (dto.AttachmentResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
}

type attachmentService struct {
	attachments repository.AttachmentRepository
	validator   *validator.Validate
	storage     FileStorage
	activity    ActivityRecorder
	maxSize     int64
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAttachmentService constructs an AttachmentService instance.
func NewAttachmentService(attachments repository.AttachmentRepository, validate *validator.Validate, storage FileStorage, activity ActivityRecorder, maxSizeMB int64, logger zerolog.Logger) AttachmentService {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}

	return &attachmentService{
		attachments: attachments,
		validator:   validate,
		storage:     storage,
		activity:    activity,
		maxSize:     maxSizeMB * 1024 * 1024,
		logger:      logger.With().Str("component", "attachment_service").Logger(),
		now:         time.Now,
	}
}

func (s *attachmentService) List(ctx context.Context) ([]dto.AttachmentResponse, error) {
	attachments, err := s.attachments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return dto.NewAttachmentResponseSlice(attachments), nil
}

func (s *attachmentService) Upload(ctx context.Context, title string, file *multipart.FileHeader, actor ActivityActor) (dto.AttachmentResponse, error) {
	if file == nil {
		return dto.AttachmentResponse{}, fmt.Errorf("file is required")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = file.Filename
	}

	payload, err := readAttachment(file, s.maxSize)
	if err != nil {
		return dto.AttachmentResponse{}, err
	}

	url, err := s.storage.Upload(ctx, payload.Key, bytes.NewReader(payload.Data))
	if err != nil {
		s.logger.Error().Err(err).Str("key", payload.Key).Msg("library upload failed")
		return dto.AttachmentResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	attachment := models.Attachment{
		Title:   title,
		FileURL: url,
		AddedAt: s.now().UTC(),
	}

	if err := s.attachments.Create(ctx, &attachment); err != nil {
		if removeErr := s.storage.Delete(ctx, url); removeErr != nil {
			s.logger.Warn().Err(removeErr).Str("url", url).Msg("failed to remove orphaned library blob")
		}
		return dto.AttachmentResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "attachment.uploaded",
			EntityType: "attachment",
			EntityID:   &attachment.ID,
			Metadata:   map[string]interface{}{"title": attachment.Title, "mime": payload.Mime},
		})
	}

	s.logger.Info().Uint("attachment_id", attachment.ID).Str("mime", payload.Mime).Msg("library attachment uploaded")

	return dto.NewAttachmentResponse(attachment), nil
}

func (s *attachmentService) Rename(ctx context.Context, id uint, payload dto.AttachmentUpdateRequest) (dto.AttachmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AttachmentResponse{}, err
	}

	attachment, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttachmentResponse{}, ErrAttachmentNotFound
		}
		return dto.AttachmentResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	attachment.Title = strings.TrimSpace(payload.Title)

	if err := s.attachments.Update(ctx, &attachment); err != nil {
		return dto.AttachmentResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info().Uint("attachment_id", attachment.ID).Msg("library attachment renamed")

	return dto.NewAttachmentResponse(attachment), nil
}

func (s *attachmentService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	attachment, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if err := s.attachments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if err := s.storage.Delete(ctx, attachment.FileURL); err != nil {
		s.logger.Warn().Err(err).Str("url", attachment.FileURL).Msg("failed to remove library blob")
	}

	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "attachment.deleted",
			EntityType: "attachment",
			EntityID:   &id,
			Metadata:   map[string]interface{}{"title": attachment.Title},
		})
	}

	s.logger.Info().Uint("attachment_id", id).Msg("library attachment deleted")

	return nil
}
