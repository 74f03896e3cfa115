package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/models"
	"github.com/darsah-app/classroom-api/internal/repository"
)

// ErrStudentNotFound indicates the referenced account does not exist.
var ErrStudentNotFound = errors.New("student not found")

// StudentService manages the student directory on behalf of administrators.
type StudentService interface {
	List(ctx context.Context) ([]dto.StudentResponse, error)
	Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type studentService struct {
	students  repository.StudentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	if !namePattern.MatchString(payload.Name) {
		return dto.StudentResponse{}, ErrInvalidName
	}

	role := payload.Role
	if role == "" {
		role = models.RoleStudent
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.StudentResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	student := models.Student{
		Name:         payload.Name,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.students.Create(ctx, &student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.StudentResponse{}, ErrNameTaken
		}
		return dto.StudentResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info().Uint("student_id", student.ID).Str("role", role).Msg("student created")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if payload.Name != nil {
		if !namePattern.MatchString(*payload.Name) {
			return dto.StudentResponse{}, ErrInvalidName
		}
		student.Name = *payload.Name
	}

	if payload.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return dto.StudentResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		student.PasswordHash = string(hash)
	}

	if err := s.students.Update(ctx, &student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.StudentResponse{}, ErrNameTaken
		}
		return dto.StudentResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student updated")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info().Uint("student_id", id).Msg("student deleted")

	return nil
}
