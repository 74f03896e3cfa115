package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/models"
)

// AttachmentRepository defines data operations for the attachment library.
type AttachmentRepository interface {
	List(ctx context.Context) ([]models.Attachment, error)
	GetByID(ctx context.Context, id uint) (models.Attachment, error)
	Create(ctx context.Context, attachment *models.Attachment) error
	Update(ctx context.Context, attachment *models.Attachment) error
	Delete(ctx context.Context, id uint) error
}

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository instantiates the repository.
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) List(ctx context.Context) ([]models.Attachment, error) {
	var attachments []models.Attachment
	if err := r.db.WithContext(ctx).Order("added_at DESC").Find(&attachments).Error; err != nil {
		return nil, err
	}

	return attachments, nil
}

func (r *attachmentRepository) GetByID(ctx context.Context, id uint) (models.Attachment, error) {
	var attachment models.Attachment
	if err := r.db.WithContext(ctx).First(&attachment, id).Error; err != nil {
		return models.Attachment{}, err
	}

	return attachment, nil
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *attachmentRepository) Update(ctx context.Context, attachment *models.Attachment) error {
	return r.db.WithContext(ctx).Save(attachment).Error
}

func (r *attachmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Attachment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
