package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/models"
	"github.com/darsah-app/classroom-api/internal/repository"
)

func setupDashboardService(t *testing.T) (DashboardService, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{},
		&models.Assignment{},
		&models.AssignmentSubmission{},
		&models.Quiz{},
		&models.QuizSubmission{},
	))

	svc := NewDashboardService(
		repository.NewStudentRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewQuizSubmissionRepository(db),
		redisClient,
		time.Minute,
		testLogger(),
	)

	return svc, db, mini
}

func TestDashboardAggregation(t *testing.T) {
	svc, db, _ := setupDashboardService(t)

	student := models.Student{Name: "dina_22", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	essays := models.Assignment{Title: "Essay", Description: "Write"}
	require.NoError(t, db.Create(&essays).Error)
	lab := models.Assignment{Title: "Lab", Description: "Measure"}
	require.NoError(t, db.Create(&lab).Error)

	graded := models.AssignmentSubmission{
		AssignmentID: essays.ID,
		StudentID:    student.ID,
		Content:      "done",
		Grade:        ptrFloat(8),
		SubmittedAt:  time.Now().UTC(),
	}
	graded.SetAttachments(nil)
	require.NoError(t, db.Create(&graded).Error)

	attempt := models.QuizSubmission{
		QuizID:      1,
		StudentID:   student.ID,
		Name:        "dina",
		Score:       2,
		Status:      models.QuizSubmissionStatusSubmitted,
		SubmittedAt: time.Now().UTC(),
	}
	attempt.SetAnswers(nil)
	require.NoError(t, db.Create(&attempt).Error)

	dashboard, err := svc.StudentDashboard(context.Background(), student.ID)
	require.NoError(t, err)

	require.Equal(t, 2, dashboard.TotalAssignments)
	require.Equal(t, 1, dashboard.Submitted)
	require.Equal(t, 1, dashboard.Graded)
	require.NotNil(t, dashboard.AverageGrade)
	require.InDelta(t, 8.0, *dashboard.AverageGrade, 1e-9)
	require.Equal(t, 1, dashboard.QuizAttempts)
	require.Len(t, dashboard.Assignments, 2)

	byID := make(map[uint]dto.AssignmentProgress)
	for _, progress := range dashboard.Assignments {
		byID[progress.AssignmentID] = progress
	}
	require.Equal(t, dto.SubmissionStatusSubmitted, byID[essays.ID].Status)
	require.Equal(t, dto.SubmissionStatusNotSubmitted, byID[lab.ID].Status)
	require.Nil(t, byID[lab.ID].Grade)
}

func TestDashboardServedFromCache(t *testing.T) {
	svc, db, _ := setupDashboardService(t)

	student := models.Student{Name: "dina_22", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	first, err := svc.StudentDashboard(context.Background(), student.ID)
	require.NoError(t, err)
	require.Zero(t, first.TotalAssignments)

	// New rows after the first read stay invisible until the cache expires.
	require.NoError(t, db.Create(&models.Assignment{Title: "Late", Description: "x"}).Error)

	second, err := svc.StudentDashboard(context.Background(), student.ID)
	require.NoError(t, err)
	require.Zero(t, second.TotalAssignments)
}

func TestDashboardUnknownStudent(t *testing.T) {
	svc, _, _ := setupDashboardService(t)

	_, err := svc.StudentDashboard(context.Background(), 404)
	require.ErrorIs(t, err, ErrStudentNotFound)
}
