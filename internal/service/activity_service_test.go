package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/models"
	"github.com/darsah-app/classroom-api/internal/repository"
)

type memoryActivityRepo struct {
	entries []models.ActivityLog
}

func (m *memoryActivityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.ID = uint(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	return append([]models.ActivityLog(nil), m.entries...), int64(len(m.entries)), nil
}

func TestActivityServiceRecordAndList(t *testing.T) {
	repo := &memoryActivityRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewActivityService(repo, validate, testLogger())

	err := svc.Record(context.Background(), ActivityEntry{
		ActorID:    1,
		ActorRole:  "admin",
		Action:     "submission.grade_set",
		EntityType: "assignment_submission",
		EntityID:   ptrUint(5),
		Metadata:   map[string]interface{}{"grade": 9.0},
	})
	require.NoError(t, err)

	result, err := svc.List(context.Background(), dto.ActivityListRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 1, result.Total)
	require.Len(t, result.Entries, 1)
	require.Equal(t, "submission.grade_set", result.Entries[0].Action)
	require.Equal(t, ptrUint(5), result.Entries[0].EntityID)
}

func TestActivityServiceRecordRequiresAction(t *testing.T) {
	repo := &memoryActivityRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewActivityService(repo, validate, testLogger())

	err := svc.Record(context.Background(), ActivityEntry{EntityType: "assignment"})
	require.Error(t, err)
	require.Empty(t, repo.entries)
}
