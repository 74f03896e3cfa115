package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/models"
	"github.com/darsah-app/classroom-api/internal/repository"
)

// ErrAssignmentNotFound indicates the referenced assignment does not exist.
var ErrAssignmentNotFound = errors.New("assignment not found")

// AssignmentService manages assignments and their optional reference file.
type AssignmentService interface {
	List(ctx context.Context) ([]dto.AssignmentResponse, error)
	GetByID(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	Create(ctx context.Context, payload dto.AssignmentCreateRequest, file *multipart.FileHeader, actor ActivityActor) (dto.AssignmentResponse, error)
	Update(ctx context.Context, id uint, payload dto.AssignmentUpdateRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	storage     FileStorage
	sanitizer   *bluemonday.Policy
	activity    ActivityRecorder
	maxSize     int64
	logger      zerolog.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(assignments repository.AssignmentRepository, validate *validator.Validate, storage FileStorage, activity ActivityRecorder, maxSizeMB int64, logger zerolog.Logger) AssignmentService {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}

	return &assignmentService{
		assignments: assignments,
		validator:   validate,
		storage:     storage,
		sanitizer:   bluemonday.StrictPolicy(),
		activity:    activity,
		maxSize:     maxSizeMB * 1024 * 1024,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) List(ctx context.Context) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) GetByID(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Create(ctx context.Context, payload dto.AssignmentCreateRequest, file *multipart.FileHeader, actor ActivityActor) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		Title:       s.sanitizer.Sanitize(payload.Title),
		Description: s.sanitizer.Sanitize(payload.Description),
	}

	if file != nil {
		url, err := s.uploadReferenceFile(ctx, file)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.FileURL = url
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		if assignment.FileURL != "" {
			s.removeReferenceFile(ctx, assignment.FileURL)
		}
		return dto.AssignmentResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "assignment.created",
			EntityType: "assignment",
			EntityID:   &assignment.ID,
			Metadata:   map[string]interface{}{"title": assignment.Title},
		})
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Update(ctx context.Context, id uint, payload dto.AssignmentUpdateRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if payload.Title != nil {
		assignment.Title = s.sanitizer.Sanitize(*payload.Title)
	}
	if payload.Description != nil {
		assignment.Description = s.sanitizer.Sanitize(*payload.Description)
	}

	previousURL := ""
	if file != nil {
		url, err := s.uploadReferenceFile(ctx, file)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		previousURL = assignment.FileURL
		assignment.FileURL = url
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		if file != nil {
			s.removeReferenceFile(ctx, assignment.FileURL)
		}
		return dto.AssignmentResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	// Drop the replaced file only after the row points at the new one.
	if previousURL != "" {
		s.removeReferenceFile(ctx, previousURL)
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment updated")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if err := s.assignments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if assignment.FileURL != "" {
		s.removeReferenceFile(ctx, assignment.FileURL)
	}

	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "assignment.deleted",
			EntityType: "assignment",
			EntityID:   &id,
			Metadata:   map[string]interface{}{"title": assignment.Title},
		})
	}

	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted")

	return nil
}

func (s *assignmentService) uploadReferenceFile(ctx context.Context, file *multipart.FileHeader) (string, error) {
	payload, err := readAttachment(file, s.maxSize)
	if err != nil {
		return "", err
	}

	url, err := s.storage.Upload(ctx, payload.Key, bytes.NewReader(payload.Data))
	if err != nil {
		s.logger.Error().Err(err).Str("key", payload.Key).Msg("reference file upload failed")
		return "", fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return url, nil
}

func (s *assignmentService) removeReferenceFile(ctx context.Context, url string) {
	if err := s.storage.Delete(ctx, url); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("failed to remove reference file")
	}
}
