package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/repository"
)

// DashboardService aggregates a student's progress across assignments and
// quiz attempts. The aggregate is cached briefly; a stale view of a few
// minutes is acceptable for a read-only dashboard.
type DashboardService interface {
	StudentDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error)
}

type dashboardService struct {
	students        repository.StudentRepository
	assignments     repository.AssignmentRepository
	submissions     repository.SubmissionRepository
	quizSubmissions repository.QuizSubmissionRepository
	cache           *redis.Client
	cacheTTL        time.Duration
	logger          zerolog.Logger
}

// NewDashboardService constructs a DashboardService instance. A nil redis
// client disables caching.
func NewDashboardService(
	students repository.StudentRepository,
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	quizSubmissions repository.QuizSubmissionRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		students:        students,
		assignments:     assignments,
		submissions:     submissions,
		quizSubmissions: quizSubmissions,
		cache:           cache,
		cacheTTL:        cacheTTL,
		logger:          logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func dashboardCacheKey(studentID uint) string {
	return fmt.Sprintf("dashboard:student:%d", studentID)
}

func (s *dashboardService) StudentDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	if cached, ok := s.cachedDashboard(ctx, studentID); ok {
		return cached, nil
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentDashboardResponse{}, ErrStudentNotFound
		}
		return dto.StudentDashboardResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return dto.StudentDashboardResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &studentID})
	if err != nil {
		return dto.StudentDashboardResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	attempts, err := s.quizSubmissions.List(ctx, repository.QuizSubmissionFilter{StudentID: &studentID})
	if err != nil {
		return dto.StudentDashboardResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	byAssignment := make(map[uint]int, len(submissions))
	for i, submission := range submissions {
		byAssignment[submission.AssignmentID] = i
	}

	response := dto.StudentDashboardResponse{
		TotalAssignments: len(assignments),
		QuizAttempts:     len(attempts),
		Assignments:      make([]dto.AssignmentProgress, 0, len(assignments)),
	}

	gradeSum := 0.0
	for _, assignment := range assignments {
		progress := dto.AssignmentProgress{
			AssignmentID: assignment.ID,
			Title:        assignment.Title,
			Status:       dto.SubmissionStatusNotSubmitted,
		}

		if i, ok := byAssignment[assignment.ID]; ok {
			submission := submissions[i]
			progress.Status = dto.SubmissionStatusSubmitted
			response.Submitted++
			if submission.IsGraded() {
				progress.Grade = submission.Grade
				response.Graded++
				gradeSum += *submission.Grade
			}
		}

		response.Assignments = append(response.Assignments, progress)
	}

	if response.Graded > 0 {
		average := gradeSum / float64(response.Graded)
		response.AverageGrade = &average
	}

	s.storeDashboard(ctx, studentID, response)

	return response, nil
}

func (s *dashboardService) cachedDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, bool) {
	if s.cache == nil {
		return dto.StudentDashboardResponse{}, false
	}

	cached, err := s.cache.Get(ctx, dashboardCacheKey(studentID)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Uint("student_id", studentID).Msg("failed to read dashboard cache")
		}
		return dto.StudentDashboardResponse{}, false
	}

	var response dto.StudentDashboardResponse
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		return dto.StudentDashboardResponse{}, false
	}

	return response, true
}

func (s *dashboardService) storeDashboard(ctx context.Context, studentID uint, response dto.StudentDashboardResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, dashboardCacheKey(studentID), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("student_id", studentID).Msg("failed to store dashboard cache")
	}
}
