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

// QuizService manages quiz definitions.
type QuizService interface {
	List(ctx context.Context) ([]dto.QuizResponse, error)
	Create(ctx context.Context, payload dto.QuizCreateRequest) (dto.QuizResponse, error)
	Update(ctx context.Context, id uint, payload dto.QuizUpdateRequest) (dto.QuizResponse, error)
	Toggle(ctx context.Context, id uint, payload dto.QuizToggleRequest) (dto.QuizResponse, error)
	Delete(ctx context.Context, id uint) error
}

type quizService struct {
	quizzes   repository.QuizRepository
	validator *validator.Validate
	keyCache  *AnswerKeyCache
	logger    zerolog.Logger
}

// NewQuizService constructs a QuizService instance.
func NewQuizService(quizzes repository.QuizRepository, validate *validator.Validate, keyCache *AnswerKeyCache, logger zerolog.Logger) QuizService {
	return &quizService{
		quizzes:   quizzes,
		validator: validate,
		keyCache:  keyCache,
		logger:    logger.With().Str("component", "quiz_service").Logger(),
	}
}

func (s *quizService) List(ctx context.Context) ([]dto.QuizResponse, error) {
	quizzes, err := s.quizzes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return dto.NewQuizResponseSlice(quizzes), nil
}

func (s *quizService) Create(ctx context.Context, payload dto.QuizCreateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}

	quiz := models.Quiz{
		Title:       payload.Title,
		Description: payload.Description,
		TimeLimit:   payload.TimeLimit,
		IsActive:    active,
	}

	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Msg("quiz created")

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Update(ctx context.Context, id uint, payload dto.QuizUpdateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrQuizNotFound
		}
		return dto.QuizResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if payload.Title != nil {
		quiz.Title = *payload.Title
	}
	if payload.Description != nil {
		quiz.Description = *payload.Description
	}
	if payload.TimeLimit != nil {
		quiz.TimeLimit = *payload.TimeLimit
	}
	if payload.IsActive != nil {
		quiz.IsActive = *payload.IsActive
	}

	if err := s.quizzes.Update(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Msg("quiz updated")

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Toggle(ctx context.Context, id uint, payload dto.QuizToggleRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrQuizNotFound
		}
		return dto.QuizResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	quiz.IsActive = *payload.IsActive

	if err := s.quizzes.Update(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Bool("is_active", quiz.IsActive).Msg("quiz status toggled")

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Delete(ctx context.Context, id uint) error {
	if err := s.quizzes.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	// Questions cascade with the quiz, so the cached key is stale now.
	s.keyCache.Invalidate(ctx, id)

	s.logger.Info().Uint("quiz_id", id).Msg("quiz deleted")

	return nil
}
