package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/models"
)

// QuizSubmissionFilter allows narrowing quiz submission queries.
type QuizSubmissionFilter struct {
	QuizID    *uint
	StudentID *uint
}

// QuizSubmissionRepository persists graded quiz attempts. Rows are append
// only; no update operation exists because quiz scores are never revised.
type QuizSubmissionRepository interface {
	List(ctx context.Context, filter QuizSubmissionFilter) ([]models.QuizSubmission, error)
	GetByID(ctx context.Context, id uint) (models.QuizSubmission, error)
	Create(ctx context.Context, submission *models.QuizSubmission) error
}

type quizSubmissionRepository struct {
	db *gorm.DB
}

// NewQuizSubmissionRepository instantiates the repository.
func NewQuizSubmissionRepository(db *gorm.DB) QuizSubmissionRepository {
	return &quizSubmissionRepository{db: db}
}

func (r *quizSubmissionRepository) List(ctx context.Context, filter QuizSubmissionFilter) ([]models.QuizSubmission, error) {
	query := r.db.WithContext(ctx).Model(&models.QuizSubmission{})

	if filter.QuizID != nil {
		query = query.Where("quiz_id = ?", *filter.QuizID)
	}

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	var submissions []models.QuizSubmission
	if err := query.Order("submitted_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *quizSubmissionRepository) GetByID(ctx context.Context, id uint) (models.QuizSubmission, error) {
	var submission models.QuizSubmission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return models.QuizSubmission{}, err
	}

	return submission, nil
}

func (r *quizSubmissionRepository) Create(ctx context.Context, submission *models.QuizSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}
