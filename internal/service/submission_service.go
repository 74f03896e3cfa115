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
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/models"
	"github.com/darsah-app/classroom-api/internal/observability"
	"github.com/darsah-app/classroom-api/internal/repository"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrAlreadySubmitted indicates the student already holds a submission for
// the assignment.
var ErrAlreadySubmitted = errors.New("assignment already submitted")

// ErrEmptySubmission indicates neither content nor attachments were supplied.
var ErrEmptySubmission = errors.New("submission requires content or at least one attachment")

// SubmissionService accepts and manages assignment submissions.
type SubmissionService interface {
	List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	Submit(ctx context.Context, payload dto.SubmissionCreateRequest, files []*multipart.FileHeader) (dto.SubmissionResponse, error)
	CheckStatus(ctx context.Context, assignmentID, studentID uint) (dto.SubmissionStatusResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
}

type submissionService struct {
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	storage     FileStorage
	sanitizer   *bluemonday.Policy
	activity    ActivityRecorder
	logger      zerolog.Logger
	maxSize     int64
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, validate *validator.Validate, storage FileStorage, activity ActivityRecorder, maxSizeMB int, logger zerolog.Logger) SubmissionService {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	return &submissionService{
		submissions: subRepo,
		validator:   validate,
		storage:     storage,
		sanitizer:   bluemonday.StrictPolicy(),
		activity:    activity,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		maxSize:     int64(maxSizeMB) * 1024 * 1024,
		tracer:      otel.Tracer("github.com/darsah-app/classroom-api/internal/service/submission"),
		now:         time.Now,
	}
}

func (s *submissionService) List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{
		AssignmentID: filter.AssignmentID,
		StudentID:    filter.StudentID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

// Submit accepts one piece of student work for an assignment. All attachment
// validation happens before the first upload; uploads run sequentially in
// submission order, and a failure anywhere rolls back already-uploaded blobs
// before the error is surfaced.
func (s *submissionService) Submit(ctx context.Context, payload dto.SubmissionCreateRequest, files []*multipart.FileHeader) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.submit")
	span.SetAttributes(
		attribute.Int64("submission.assignment_id", int64(payload.AssignmentID)),
		attribute.Int64("submission.student_id", int64(payload.StudentID)),
		attribute.Int("submission.attachment_count", len(files)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	content := s.sanitizer.Sanitize(strings.TrimSpace(payload.Content))
	if content == "" && len(files) == 0 {
		span.SetStatus(codes.Error, "empty_submission")
		return dto.SubmissionResponse{}, ErrEmptySubmission
	}

	// Validate every attachment up front so an invalid file never costs an upload.
	payloads := make([]attachmentPayload, 0, len(files))
	for _, file := range files {
		attachment, err := readAttachment(file, s.maxSize)
		if err != nil {
			observability.AttachmentRejected().WithLabelValues(rejectReason(err)).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "attachment_rejected")
			return dto.SubmissionResponse{}, err
		}
		payloads = append(payloads, attachment)
	}

	if _, err := s.submissions.GetByAssignmentAndStudent(ctx, payload.AssignmentID, payload.StudentID); err == nil {
		span.SetStatus(codes.Error, "duplicate_submission")
		return dto.SubmissionResponse{}, ErrAlreadySubmitted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "duplicate_check_failed")
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	urls := make([]string, 0, len(payloads))
	for _, attachment := range payloads {
		url, err := s.storage.Upload(ctx, attachment.Key, bytes.NewReader(attachment.Data))
		if err != nil {
			s.cleanupUploads(ctx, urls)
			span.RecordError(err)
			span.SetStatus(codes.Error, "upload_failed")
			return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		urls = append(urls, url)
	}

	submission := models.AssignmentSubmission{
		AssignmentID: payload.AssignmentID,
		StudentID:    payload.StudentID,
		Content:      content,
		SubmittedAt:  s.now().UTC(),
	}
	submission.SetAttachments(urls)

	if err := s.submissions.Create(ctx, &submission); err != nil {
		s.cleanupUploads(ctx, urls)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent submit won the race; the unique index is the
			// authoritative guard, the earlier read is only best effort.
			span.SetStatus(codes.Error, "duplicate_submission")
			return dto.SubmissionResponse{}, ErrAlreadySubmitted
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert_failed")
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reload_failed")
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	observability.Submissions().WithLabelValues("assignment").Inc()
	span.SetStatus(codes.Ok, "accepted")
	s.logger.Info().
		Uint("submission_id", created.ID).
		Uint("assignment_id", created.AssignmentID).
		Uint("student_id", created.StudentID).
		Int("attachments", len(urls)).
		Msg("assignment submission accepted")

	return dto.NewSubmissionResponse(created), nil
}

func (s *submissionService) CheckStatus(ctx context.Context, assignmentID, studentID uint) (dto.SubmissionStatusResponse, error) {
	submission, err := s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionStatusResponse{Status: dto.SubmissionStatusNotSubmitted}, nil
		}
		return dto.SubmissionStatusResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	response := dto.NewSubmissionResponse(submission)

	return dto.SubmissionStatusResponse{
		Status:     dto.SubmissionStatusSubmitted,
		Submission: &response,
	}, nil
}

// Delete removes a submission together with the blobs it owns.
func (s *submissionService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.cleanupUploads(ctx, submission.AttachmentList())

	if err := s.submissions.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "submission.deleted",
			EntityType: "assignment_submission",
			EntityID:   &id,
			Metadata: map[string]interface{}{
				"assignment_id": submission.AssignmentID,
				"student_id":    submission.StudentID,
			},
		})
	}

	s.logger.Info().Uint("submission_id", id).Msg("assignment submission deleted")

	return nil
}

// cleanupUploads best-effort deletes blobs created during a failed or
// removed submission. Failures are logged only; the caller's error stays
// authoritative.
func (s *submissionService) cleanupUploads(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := s.storage.Delete(ctx, url); err != nil {
			s.logger.Warn().Err(err).Str("url", url).Msg("failed to clean up uploaded attachment")
		}
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrAttachmentTooLarge):
		return "size"
	case errors.Is(err, ErrAttachmentTypeNotAllowed):
		return "type"
	default:
		return "read"
	}
}
