package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/models"
	"github.com/darsah-app/classroom-api/internal/observability"
	"github.com/darsah-app/classroom-api/internal/repository"
)

// ErrQuizNotFound indicates no question set resolves for the quiz.
var ErrQuizNotFound = errors.New("quiz not found")

// QuizGradingService scores quiz attempts synchronously at submission time.
// Scoring is a pure function of the answers and the answer key as it exists
// when the attempt arrives; there is no later re-grade.
type QuizGradingService interface {
	Submit(ctx context.Context, studentID uint, payload dto.QuizSubmissionRequest) (dto.GradedResult, error)
	List(ctx context.Context, filter dto.QuizSubmissionFilter) ([]dto.QuizSubmissionResponse, error)
}

type quizGradingService struct {
	questions   repository.QuizQuestionRepository
	submissions repository.QuizSubmissionRepository
	validator   *validator.Validate
	keyCache    *AnswerKeyCache
	logger      zerolog.Logger
	now         func() time.Time
}

// NewQuizGradingService constructs the grading engine.
func NewQuizGradingService(questions repository.QuizQuestionRepository, submissions repository.QuizSubmissionRepository, validate *validator.Validate, keyCache *AnswerKeyCache, logger zerolog.Logger) QuizGradingService {
	return &quizGradingService{
		questions:   questions,
		submissions: submissions,
		validator:   validate,
		keyCache:    keyCache,
		logger:      logger.With().Str("component", "quiz_grading_service").Logger(),
		now:         time.Now,
	}
}

func (s *quizGradingService) Submit(ctx context.Context, studentID uint, payload dto.QuizSubmissionRequest) (dto.GradedResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GradedResult{}, err
	}
	if studentID == 0 {
		return dto.GradedResult{}, fmt.Errorf("student id is required")
	}

	key, err := s.answerKey(ctx, payload.QuizID)
	if err != nil {
		return dto.GradedResult{}, err
	}
	if len(key) == 0 {
		return dto.GradedResult{}, ErrQuizNotFound
	}

	answers := make([]models.QuizAnswer, 0, len(payload.Answers))
	for _, answer := range payload.Answers {
		answers = append(answers, models.QuizAnswer{
			QuestionID: answer.QuestionID,
			Selected:   answer.Selected,
		})
	}

	score := scoreAnswers(key, answers)
	total := len(key)
	percentage := 0.0
	if total > 0 {
		percentage = 100 * float64(score) / float64(total)
	}

	submission := models.QuizSubmission{
		QuizID:      payload.QuizID,
		StudentID:   studentID,
		Name:        strings.TrimSpace(payload.Name),
		Score:       score,
		Status:      models.QuizSubmissionStatusSubmitted,
		SubmittedAt: s.now().UTC(),
	}
	submission.SetAnswers(answers)

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.GradedResult{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	observability.Submissions().WithLabelValues("quiz").Inc()
	observability.QuizScores().Observe(percentage)
	s.logger.Info().
		Uint("quiz_id", payload.QuizID).
		Uint("student_id", studentID).
		Int("score", score).
		Int("total", total).
		Msg("quiz attempt graded")

	return dto.GradedResult{
		Score:          score,
		TotalQuestions: total,
		Percentage:     percentage,
		Submission:     dto.NewQuizSubmissionResponse(submission),
	}, nil
}

func (s *quizGradingService) List(ctx context.Context, filter dto.QuizSubmissionFilter) ([]dto.QuizSubmissionResponse, error) {
	submissions, err := s.submissions.List(ctx, repository.QuizSubmissionFilter{
		QuizID:    filter.QuizID,
		StudentID: filter.StudentID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return dto.NewQuizSubmissionResponseSlice(submissions), nil
}

// answerKey resolves the quiz's answer key, preferring the cache.
func (s *quizGradingService) answerKey(ctx context.Context, quizID uint) ([]answerKeyEntry, error) {
	if entries, ok := s.keyCache.Get(ctx, quizID); ok {
		return entries, nil
	}

	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	entries := make([]answerKeyEntry, 0, len(questions))
	for _, question := range questions {
		entries = append(entries, answerKeyEntry{
			QuestionID: question.ID,
			Correct:    question.CorrectOption,
		})
	}

	if len(entries) > 0 {
		s.keyCache.Set(ctx, quizID, entries)
	}

	return entries, nil
}

// scoreAnswers counts answers matching the key. Matching ignores case and
// surrounding whitespace so trivial formatting never fails a student.
// Answers referencing question IDs outside the quiz are skipped: they count
// neither right nor wrong. Unanswered questions count as wrong because the
// total is the size of the key, not the number of answers.
func scoreAnswers(key []answerKeyEntry, answers []models.QuizAnswer) int {
	correct := make(map[uint]string, len(key))
	for _, entry := range key {
		correct[entry.QuestionID] = entry.Correct
	}

	score := 0
	for _, answer := range answers {
		expected, ok := correct[answer.QuestionID]
		if !ok {
			continue
		}
		if optionsMatch(answer.Selected, expected) {
			score++
		}
	}

	return score
}

func optionsMatch(selected, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(selected), strings.TrimSpace(correct))
}
