package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/models"
	"github.com/darsah-app/classroom-api/internal/repository"
)

// ErrQuestionNotFound indicates the referenced question does not exist.
var ErrQuestionNotFound = errors.New("question not found")

// QuizQuestionService manages quiz questions. Every mutation invalidates the
// cached answer key for the owning quiz so grading never sees a stale key.
type QuizQuestionService interface {
	List(ctx context.Context) ([]dto.QuestionResponse, error)
	ListByQuiz(ctx context.Context, quizID uint) ([]dto.QuestionResponse, error)
	Create(ctx context.Context, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	Update(ctx context.Context, id uint, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error)
	Delete(ctx context.Context, id uint) error
}

type quizQuestionService struct {
	questions repository.QuizQuestionRepository
	validator *validator.Validate
	keyCache  *AnswerKeyCache
	logger    zerolog.Logger
}

// NewQuizQuestionService constructs a QuizQuestionService instance.
func NewQuizQuestionService(questions repository.QuizQuestionRepository, validate *validator.Validate, keyCache *AnswerKeyCache, logger zerolog.Logger) QuizQuestionService {
	return &quizQuestionService{
		questions: questions,
		validator: validate,
		keyCache:  keyCache,
		logger:    logger.With().Str("component", "quiz_question_service").Logger(),
	}
}

func (s *quizQuestionService) List(ctx context.Context) ([]dto.QuestionResponse, error) {
	questions, err := s.questions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *quizQuestionService) ListByQuiz(ctx context.Context, quizID uint) ([]dto.QuestionResponse, error) {
	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *quizQuestionService) Create(ctx context.Context, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question := models.QuizQuestion{
		QuizID:        payload.QuizID,
		Question:      payload.Question,
		CorrectOption: payload.CorrectOption,
		Explanation:   payload.Explanation,
	}
	question.SetOptions(payload.Options)

	if err := s.questions.Create(ctx, &question); err != nil {
		return dto.QuestionResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.keyCache.Invalidate(ctx, question.QuizID)
	s.logger.Info().Uint("question_id", question.ID).Uint("quiz_id", question.QuizID).Msg("question created")

	return dto.NewQuestionResponse(question), nil
}

func (s *quizQuestionService) Update(ctx context.Context, id uint, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if payload.Question != nil {
		question.Question = *payload.Question
	}
	if payload.Options != nil {
		question.SetOptions(payload.Options)
	}
	if payload.CorrectOption != nil {
		question.CorrectOption = *payload.CorrectOption
	}
	if payload.Explanation != nil {
		question.Explanation = *payload.Explanation
	}

	if err := s.questions.Update(ctx, &question); err != nil {
		return dto.QuestionResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.keyCache.Invalidate(ctx, question.QuizID)
	s.logger.Info().Uint("question_id", question.ID).Msg("question updated")

	return dto.NewQuestionResponse(question), nil
}

func (s *quizQuestionService) Delete(ctx context.Context, id uint) error {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if err := s.questions.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.keyCache.Invalidate(ctx, question.QuizID)
	s.logger.Info().Uint("question_id", id).Msg("question deleted")

	return nil
}
