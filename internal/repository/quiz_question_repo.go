package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/models"
)

// QuizQuestionRepository defines data operations for quiz questions. The
// grading engine reads question sets through ListByQuiz; mutations go
// through the management endpoints only.
type QuizQuestionRepository interface {
	List(ctx context.Context) ([]models.QuizQuestion, error)
	ListByQuiz(ctx context.Context, quizID uint) ([]models.QuizQuestion, error)
	GetByID(ctx context.Context, id uint) (models.QuizQuestion, error)
	Create(ctx context.Context, question *models.QuizQuestion) error
	Update(ctx context.Context, question *models.QuizQuestion) error
	Delete(ctx context.Context, id uint) error
}

type quizQuestionRepository struct {
	db *gorm.DB
}

// NewQuizQuestionRepository instantiates the repository.
func NewQuizQuestionRepository(db *gorm.DB) QuizQuestionRepository {
	return &quizQuestionRepository{db: db}
}

func (r *quizQuestionRepository) List(ctx context.Context) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *quizQuestionRepository) ListByQuiz(ctx context.Context, quizID uint) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *quizQuestionRepository) GetByID(ctx context.Context, id uint) (models.QuizQuestion, error) {
	var question models.QuizQuestion
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.QuizQuestion{}, err
	}

	return question, nil
}

func (r *quizQuestionRepository) Create(ctx context.Context, question *models.QuizQuestion) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *quizQuestionRepository) Update(ctx context.Context, question *models.QuizQuestion) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *quizQuestionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.QuizQuestion{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
