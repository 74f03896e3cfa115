package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/repository"
)

// GradingService applies manual grade overrides to assignment submissions.
// Quiz scores have no counterpart here: they are computed once at submission
// time and stay immutable, while assignment grades remain a human decision.
type GradingService interface {
	SetGrade(ctx context.Context, submissionID uint, payload dto.SubmissionGradeRequest, actor ActivityActor) (dto.SubmissionResponse, error)
}

type gradingService struct {
	submissions repository.SubmissionRepository
	activity    ActivityRecorder
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewGradingService constructs the grade override service.
func NewGradingService(submissions repository.SubmissionRepository, activity ActivityRecorder, logger zerolog.Logger) GradingService {
	return &gradingService{
		submissions: submissions,
		activity:    activity,
		logger:      logger.With().Str("component", "grading_service").Logger(),
		tracer:      otel.Tracer("github.com/darsah-app/classroom-api/internal/service/grading"),
	}
}

// SetGrade sets or, when the payload grade is null, clears the manual grade.
// Re-applying the current value is a no-op success.
func (s *gradingService) SetGrade(ctx context.Context, submissionID uint, payload dto.SubmissionGradeRequest, actor ActivityActor) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grading.override")
	span.SetAttributes(
		attribute.Int64("grading.submission_id", int64(submissionID)),
		attribute.Int64("grading.actor_id", int64(actor.ID)),
	)
	defer span.End()

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_lookup_failed")
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if sameGrade(submission.Grade, payload.Grade) {
		span.SetAttributes(attribute.Bool("grading.idempotent", true))
		return dto.NewSubmissionResponse(submission), nil
	}

	submission.Grade = payload.Grade

	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	action := "submission.grade_set"
	if payload.Grade == nil {
		action = "submission.grade_cleared"
	}

	if s.activity != nil {
		metadata := map[string]interface{}{
			"assignment_id": submission.AssignmentID,
			"student_id":    submission.StudentID,
		}
		if payload.Grade != nil {
			metadata["grade"] = *payload.Grade
		}
		_ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     action,
			EntityType: "assignment_submission",
			EntityID:   &submission.ID,
			Metadata:   metadata,
		})
	}

	if payload.Grade != nil {
		span.SetAttributes(attribute.Float64("grading.grade", *payload.Grade))
	}
	span.SetStatus(codes.Ok, "updated")
	s.logger.Info().Uint("submission_id", submission.ID).Str("action", action).Msg("grade override applied")

	return dto.NewSubmissionResponse(submission), nil
}

func sameGrade(current, next *float64) bool {
	if current == nil || next == nil {
		return current == nil && next == nil
	}
	return math.Abs(*current-*next) < 1e-9
}
