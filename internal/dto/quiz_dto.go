package dto

import (
	"time"

	"github.com/darsah-app/classroom-api/internal/models"
)

// QuizCreateRequest is the payload for creating a quiz definition.
type QuizCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description"`
	TimeLimit   int    `json:"time_limit" validate:"required,gt=0"`
	IsActive    *bool  `json:"is_active"`
}

// QuizUpdateRequest updates quiz fields; nil fields are untouched.
type QuizUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description"`
	TimeLimit   *int    `json:"time_limit" validate:"omitempty,gt=0"`
	IsActive    *bool   `json:"is_active"`
}

// QuizToggleRequest flips only the active flag.
type QuizToggleRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// QuizResponse is returned to API clients when viewing quizzes.
type QuizResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TimeLimit   int       `json:"time_limit"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// QuestionCreateRequest is the payload for adding a question to a quiz.
type QuestionCreateRequest struct {
	QuizID        uint     `json:"quiz_id" validate:"required,gt=0"`
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectOption string   `json:"correct_option" validate:"required"`
	Explanation   string   `json:"explanation"`
}

// QuestionUpdateRequest updates question fields; nil fields are untouched.
type QuestionUpdateRequest struct {
	Question      *string  `json:"question"`
	Options       []string `json:"options" validate:"omitempty,min=2,dive,required"`
	CorrectOption *string  `json:"correct_option"`
	Explanation   *string  `json:"explanation"`
}

// QuestionResponse carries the full question including the answer key entry;
// it is served on admin endpoints only.
type QuestionResponse struct {
	ID            uint      `json:"id"`
	QuizID        uint      `json:"quiz_id"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectOption string    `json:"correct_option"`
	Explanation   string    `json:"explanation"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewQuizResponse converts a Quiz model into a DTO.
func NewQuizResponse(model models.Quiz) QuizResponse {
	return QuizResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		TimeLimit:   model.TimeLimit,
		IsActive:    model.IsActive,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewQuizResponseSlice converts quiz models into DTOs.
func NewQuizResponseSlice(quizzes []models.Quiz) []QuizResponse {
	responses := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, NewQuizResponse(quiz))
	}

	return responses
}

// NewQuestionResponse converts a QuizQuestion model into a DTO.
func NewQuestionResponse(model models.QuizQuestion) QuestionResponse {
	options := model.OptionList()
	if options == nil {
		options = []string{}
	}

	return QuestionResponse{
		ID:            model.ID,
		QuizID:        model.QuizID,
		Question:      model.Question,
		Options:       options,
		CorrectOption: model.CorrectOption,
		Explanation:   model.Explanation,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// NewQuestionResponseSlice converts question models into DTOs.
func NewQuestionResponseSlice(questions []models.QuizQuestion) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}

	return responses
}
