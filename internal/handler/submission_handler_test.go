package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/config"
	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/handler"
	"github.com/darsah-app/classroom-api/internal/models"
	"github.com/darsah-app/classroom-api/internal/repository"
	"github.com/darsah-app/classroom-api/internal/router"
	"github.com/darsah-app/classroom-api/internal/service"
)

type testUploader struct{}

func (s *testUploader) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	return "https://files.test/" + name, nil
}

func (s *testUploader) Delete(_ context.Context, _ string) error {
	return nil
}

func setupSubmissionApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{},
		&models.Assignment{},
		&models.AssignmentSubmission{},
		&models.ActivityLog{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	uploader := &testUploader{}

	submissionRepo := repository.NewSubmissionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, validate, uploader, activityService, 5, logger)
	gradingService := service.NewGradingService(submissionRepo, activityService, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, gradingService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", uint(1))
			c.Locals("user_role", "admin")
			return c.Next()
		},
	})

	return app, db
}

func seedAssignmentAndStudent(t *testing.T, db *gorm.DB) models.Assignment {
	t.Helper()

	student := models.Student{Name: "dina_22", PasswordHash: "x", Role: models.RoleStudent}
	student.ID = 1
	require.NoError(t, db.Create(&student).Error)

	assignment := models.Assignment{Title: "Lab Report", Description: "Submit lab"}
	require.NoError(t, db.Create(&assignment).Error)

	return assignment
}

func submitForm(t *testing.T, app *fiber.App, assignmentID uint, content []byte) (*fiber.App, int, dto.SubmissionResponse) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("assignment_id", strconv.FormatUint(uint64(assignmentID), 10)))
	require.NoError(t, writer.WriteField("content", "my homework"))
	if content != nil {
		part, err := writer.CreateFormFile("attachments", "work.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/assignment-submissions", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)

	var payload struct {
		Success bool                   `json:"success"`
		Data    dto.SubmissionResponse `json:"data"`
		Message string                 `json:"message"`
	}
	decodeResponse(t, resp, &payload)

	return app, resp.StatusCode, payload.Data
}

func TestSubmissionHandlerSubmitAndDuplicate(t *testing.T) {
	app, db := setupSubmissionApp(t)
	assignment := seedAssignmentAndStudent(t, db)

	_, status, created := submitForm(t, app, assignment.ID, pngBytes)
	require.Equal(t, fiber.StatusCreated, status)
	require.NotZero(t, created.ID)
	require.Len(t, created.Attachments, 1)
	require.Equal(t, assignment.ID, created.AssignmentID)
	require.Equal(t, uint(1), created.StudentID)

	_, status, _ = submitForm(t, app, assignment.ID, pngBytes)
	require.Equal(t, fiber.StatusConflict, status)

	var count int64
	require.NoError(t, db.Model(&models.AssignmentSubmission{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSubmissionHandlerCheckStatus(t *testing.T) {
	app, db := setupSubmissionApp(t)
	assignment := seedAssignmentAndStudent(t, db)

	req := httptest.NewRequest("GET", "/api/v1/assignment-submissions/check?assignment_id="+strconv.FormatUint(uint64(assignment.ID), 10)+"&student_id=1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var before struct {
		Data dto.SubmissionStatusResponse `json:"data"`
	}
	decodeResponse(t, resp, &before)
	require.Equal(t, dto.SubmissionStatusNotSubmitted, before.Data.Status)

	_, status, _ := submitForm(t, app, assignment.ID, nil)
	require.Equal(t, fiber.StatusCreated, status)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/assignment-submissions/check?assignment_id="+strconv.FormatUint(uint64(assignment.ID), 10)+"&student_id=1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var after struct {
		Data dto.SubmissionStatusResponse `json:"data"`
	}
	decodeResponse(t, resp, &after)
	require.Equal(t, dto.SubmissionStatusSubmitted, after.Data.Status)
	require.NotNil(t, after.Data.Submission)
}

func TestSubmissionHandlerGradeOverride(t *testing.T) {
	app, db := setupSubmissionApp(t)
	assignment := seedAssignmentAndStudent(t, db)

	_, status, created := submitForm(t, app, assignment.ID, nil)
	require.Equal(t, fiber.StatusCreated, status)

	gradeBody, err := json.Marshal(map[string]interface{}{"grade": 8.5})
	require.NoError(t, err)
	req := httptest.NewRequest("PATCH", "/api/v1/assignment-submissions/"+strconv.FormatUint(uint64(created.ID), 10)+"/grade", bytes.NewReader(gradeBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var graded struct {
		Data dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, resp, &graded)
	require.NotNil(t, graded.Data.Grade)
	require.Equal(t, 8.5, *graded.Data.Grade)

	clearBody := []byte(`{"grade": null}`)
	req = httptest.NewRequest("PATCH", "/api/v1/assignment-submissions/"+strconv.FormatUint(uint64(created.ID), 10)+"/grade", bytes.NewReader(clearBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var cleared struct {
		Data dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, resp, &cleared)
	require.Nil(t, cleared.Data.Grade)
}
