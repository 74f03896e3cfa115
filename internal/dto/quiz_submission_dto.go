package dto

import (
	"time"

	"github.com/darsah-app/classroom-api/internal/models"
)

// QuizAnswerRequest pairs a question with the option the student picked.
type QuizAnswerRequest struct {
	QuestionID uint   `json:"question_id" validate:"required,gt=0"`
	Selected   string `json:"selected" validate:"required"`
}

// QuizSubmissionRequest is the payload for a quiz attempt. The student
// identity comes from the request token, never from the body.
type QuizSubmissionRequest struct {
	QuizID  uint                `json:"quiz_id" validate:"required,gt=0"`
	Name    string              `json:"name" validate:"required"`
	Answers []QuizAnswerRequest `json:"answers" validate:"required,min=1,dive"`
}

// GradedResult is returned after a quiz attempt is scored and persisted.
type GradedResult struct {
	Score          int                    `json:"score"`
	TotalQuestions int                    `json:"total_questions"`
	Percentage     float64                `json:"percentage"`
	Submission     QuizSubmissionResponse `json:"submission"`
}

// QuizSubmissionFilter describes query string filters for listing attempts.
type QuizSubmissionFilter struct {
	QuizID    *uint `query:"quiz_id"`
	StudentID *uint `query:"student_id"`
}

// QuizSubmissionResponse is returned to API clients when viewing attempts.
type QuizSubmissionResponse struct {
	ID          uint                `json:"id"`
	QuizID      uint                `json:"quiz_id"`
	StudentID   uint                `json:"student_id"`
	Name        string              `json:"name"`
	Answers     []models.QuizAnswer `json:"answers"`
	Score       int                 `json:"score"`
	Status      string              `json:"status"`
	SubmittedAt time.Time           `json:"submitted_at"`
}

// NewQuizSubmissionResponse converts a QuizSubmission model into a DTO.
func NewQuizSubmissionResponse(model models.QuizSubmission) QuizSubmissionResponse {
	answers := model.AnswerList()
	if answers == nil {
		answers = []models.QuizAnswer{}
	}

	return QuizSubmissionResponse{
		ID:          model.ID,
		QuizID:      model.QuizID,
		StudentID:   model.StudentID,
		Name:        model.Name,
		Answers:     answers,
		Score:       model.Score,
		Status:      model.Status,
		SubmittedAt: model.SubmittedAt,
	}
}

// NewQuizSubmissionResponseSlice converts attempt models into DTOs.
func NewQuizSubmissionResponseSlice(submissions []models.QuizSubmission) []QuizSubmissionResponse {
	responses := make([]QuizSubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewQuizSubmissionResponse(submission))
	}

	return responses
}
