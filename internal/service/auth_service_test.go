package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/models"
)

type memoryStudentRepo struct {
	nextID   uint
	students map[uint]models.Student
}

func newMemoryStudentRepo() *memoryStudentRepo {
	return &memoryStudentRepo{nextID: 1, students: make(map[uint]models.Student)}
}

func (m *memoryStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	var result []models.Student
	for _, student := range m.students {
		result = append(result, student)
	}
	return result, nil
}

func (m *memoryStudentRepo) GetByID(ctx context.Context, id uint) (models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (m *memoryStudentRepo) GetByName(ctx context.Context, name string) (models.Student, error) {
	for _, student := range m.students {
		if student.Name == name {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (m *memoryStudentRepo) Create(ctx context.Context, student *models.Student) error {
	for _, existing := range m.students {
		if existing.Name == student.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	student.ID = m.nextID
	m.nextID++
	m.students[student.ID] = *student
	return nil
}

func (m *memoryStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.students[student.ID] = *student
	return nil
}

func (m *memoryStudentRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.students, id)
	return nil
}

func newAuthServiceForTest(repo *memoryStudentRepo) AuthService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewAuthService(repo, validate, "test-secret", time.Hour, testLogger())
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	repo := newMemoryStudentRepo()
	svc := newAuthServiceForTest(repo)

	student, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "dina_22", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, models.RoleStudent, student.Role)

	session, err := svc.Login(context.Background(), dto.LoginRequest{Name: "dina_22", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.Equal(t, models.RoleStudent, session.Role)

	token, err := jwt.Parse(session.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "dina_22", claims["name"])
	require.Equal(t, models.RoleStudent, claims["role"])
}

func TestAuthServiceRejectsInvalidName(t *testing.T) {
	svc := newAuthServiceForTest(newMemoryStudentRepo())

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "bad name!", Password: "password123"})
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestAuthServiceRejectsShortPassword(t *testing.T) {
	svc := newAuthServiceForTest(newMemoryStudentRepo())

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "dina_22", Password: "short"})
	require.Error(t, err)
	require.True(t, isValidation(err))
}

func isValidation(err error) bool {
	_, ok := err.(validator.ValidationErrors)
	return ok
}

func TestAuthServiceRejectsDuplicateName(t *testing.T) {
	repo := newMemoryStudentRepo()
	svc := newAuthServiceForTest(repo)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "dina_22", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), dto.RegisterRequest{Name: "dina_22", Password: "password456"})
	require.ErrorIs(t, err, ErrNameTaken)
}

func TestAuthServiceRejectsWrongPassword(t *testing.T) {
	repo := newMemoryStudentRepo()
	svc := newAuthServiceForTest(repo)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "dina_22", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Name: "dina_22", Password: "wrongpass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Name: "nobody", Password: "password123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
