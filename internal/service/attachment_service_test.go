package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/models"
)

type memoryAttachmentRepo struct {
	nextID      uint
	attachments map[uint]models.Attachment
}

func newMemoryAttachmentRepo() *memoryAttachmentRepo {
	return &memoryAttachmentRepo{nextID: 1, attachments: make(map[uint]models.Attachment)}
}

func (m *memoryAttachmentRepo) List(ctx context.Context) ([]models.Attachment, error) {
	var result []models.Attachment
	for _, attachment := range m.attachments {
		result = append(result, attachment)
	}
	return result, nil
}

func (m *memoryAttachmentRepo) GetByID(ctx context.Context, id uint) (models.Attachment, error) {
	attachment, ok := m.attachments[id]
	if !ok {
		return models.Attachment{}, gorm.ErrRecordNotFound
	}
	return attachment, nil
}

func (m *memoryAttachmentRepo) Create(ctx context.Context, attachment *models.Attachment) error {
	attachment.ID = m.nextID
	m.nextID++
	m.attachments[attachment.ID] = *attachment
	return nil
}

func (m *memoryAttachmentRepo) Update(ctx context.Context, attachment *models.Attachment) error {
	if _, ok := m.attachments[attachment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.attachments[attachment.ID] = *attachment
	return nil
}

func (m *memoryAttachmentRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.attachments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.attachments, id)
	return nil
}

func newAttachmentServiceForTest(repo *memoryAttachmentRepo, storage FileStorage) AttachmentService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewAttachmentService(repo, validate, storage, nil, 5, testLogger())
}

func TestAttachmentServiceUploadAndDeleteRemovesBlob(t *testing.T) {
	repo := newMemoryAttachmentRepo()
	storage := &stubStorage{}
	svc := newAttachmentServiceForTest(repo, storage)
	actor := ActivityActor{ID: 1, Role: "admin"}

	uploaded, err := svc.Upload(context.Background(), "Syllabus", makeFileHeader(t, "syllabus.pdf", pdfBytes), actor)
	require.NoError(t, err)
	require.Equal(t, "Syllabus", uploaded.Title)
	require.NotEmpty(t, uploaded.FileURL)
	require.Len(t, storage.uploads, 1)

	require.NoError(t, svc.Delete(context.Background(), uploaded.ID, actor))
	require.Len(t, storage.deletes, 1)
	require.Equal(t, uploaded.FileURL, storage.deletes[0])
	require.Empty(t, repo.attachments)
}

func TestAttachmentServiceUploadDefaultsTitleToFilename(t *testing.T) {
	repo := newMemoryAttachmentRepo()
	svc := newAttachmentServiceForTest(repo, &stubStorage{})

	uploaded, err := svc.Upload(context.Background(), "  ", makeFileHeader(t, "rubric.pdf", pdfBytes), ActivityActor{ID: 1, Role: "admin"})
	require.NoError(t, err)
	require.Equal(t, "rubric.pdf", uploaded.Title)
}

func TestAttachmentServiceUploadRejectsDisallowedType(t *testing.T) {
	repo := newMemoryAttachmentRepo()
	storage := &stubStorage{}
	svc := newAttachmentServiceForTest(repo, storage)

	_, err := svc.Upload(context.Background(), "Notes", makeFileHeader(t, "notes.txt", []byte("plain text")), ActivityActor{ID: 1, Role: "admin"})
	require.ErrorIs(t, err, ErrAttachmentTypeNotAllowed)
	require.Empty(t, storage.uploads)
	require.Empty(t, repo.attachments)
}

func TestAttachmentServiceRename(t *testing.T) {
	repo := newMemoryAttachmentRepo()
	svc := newAttachmentServiceForTest(repo, &stubStorage{})

	uploaded, err := svc.Upload(context.Background(), "Draft", makeFileHeader(t, "draft.pdf", pdfBytes), ActivityActor{ID: 1, Role: "admin"})
	require.NoError(t, err)

	renamed, err := svc.Rename(context.Background(), uploaded.ID, dto.AttachmentUpdateRequest{Title: "Final"})
	require.NoError(t, err)
	require.Equal(t, "Final", renamed.Title)

	_, err = svc.Rename(context.Background(), 404, dto.AttachmentUpdateRequest{Title: "Nope"})
	require.ErrorIs(t, err, ErrAttachmentNotFound)
}
