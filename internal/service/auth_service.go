package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/models"
	"github.com/darsah-app/classroom-api/internal/repository"
)

// ErrNameTaken indicates the requested account name is already registered.
var ErrNameTaken = errors.New("name already registered")

// ErrInvalidCredentials indicates the name/password pair did not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidName indicates the account name violates the naming rules.
var ErrInvalidName = errors.New("name must contain only letters, numbers, or underscores")

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// AuthService handles registration and token issuance.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.StudentResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	students  repository.StudentRepository
	validator *validator.Validate
	secret    []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(students repository.StudentRepository, validate *validator.Validate, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		students:  students,
		validator: validate,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	if !namePattern.MatchString(payload.Name) {
		return dto.StudentResponse{}, ErrInvalidName
	}

	if _, err := s.students.GetByName(ctx, payload.Name); err == nil {
		return dto.StudentResponse{}, ErrNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.StudentResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	student := models.Student{
		Name:         payload.Name,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
	}

	if err := s.students.Create(ctx, &student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.StudentResponse{}, ErrNameTaken
		}
		return dto.StudentResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student registered")

	return dto.NewStudentResponse(student), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	student, err := s.students.GetByName(ctx, payload.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(student)
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info().Uint("student_id", student.ID).Str("role", student.Role).Msg("login succeeded")

	return dto.LoginResponse{
		Token:   token,
		Role:    student.Role,
		Student: dto.NewStudentResponse(student),
	}, nil
}

func (s *authService) issueToken(student models.Student) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  student.ID,
		"name": student.Name,
		"role": student.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
