package dto

import (
	"time"

	"github.com/darsah-app/classroom-api/internal/models"
)

// SubmissionCreateRequest describes the multipart payload for submitting
// assignment work. Files ride alongside under the "attachments" field.
type SubmissionCreateRequest struct {
	AssignmentID uint   `form:"assignment_id" validate:"required,gt=0"`
	StudentID    uint   `form:"student_id" validate:"required,gt=0"`
	Content      string `form:"content"`
}

// SubmissionGradeRequest sets or clears the manual grade on a submission.
// A null (or absent) grade clears any previous override.
type SubmissionGradeRequest struct {
	Grade *float64 `json:"grade"`
}

// SubmissionFilter describes query string filters for listing submissions.
type SubmissionFilter struct {
	AssignmentID *uint `query:"assignment_id"`
	StudentID    *uint `query:"student_id"`
}

// Submission status values returned by the check endpoint.
const (
	SubmissionStatusNotSubmitted = "not_submitted"
	SubmissionStatusSubmitted    = "submitted"
)

// SubmissionStatusResponse is the result of the pre-submit status check.
type SubmissionStatusResponse struct {
	Status     string              `json:"status"`
	Submission *SubmissionResponse `json:"submission,omitempty"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID           uint           `json:"id"`
	AssignmentID uint           `json:"assignment_id"`
	StudentID    uint           `json:"student_id"`
	Content      string         `json:"content"`
	Attachments  []string       `json:"attachments"`
	Grade        *float64       `json:"grade"`
	SubmittedAt  time.Time      `json:"submitted_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Assignment   AssignmentLite `json:"assignment"`
	Student      StudentLite    `json:"student"`
}

// NewSubmissionResponse converts an AssignmentSubmission model into a DTO.
func NewSubmissionResponse(model models.AssignmentSubmission) SubmissionResponse {
	attachments := model.AttachmentList()
	if attachments == nil {
		attachments = []string{}
	}

	response := SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		Content:      model.Content,
		Attachments:  attachments,
		Grade:        model.Grade,
		SubmittedAt:  model.SubmittedAt,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.Assignment.ID != 0 {
		response.Assignment = AssignmentLite{
			ID:    model.Assignment.ID,
			Title: model.Assignment.Title,
		}
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:   model.Student.ID,
			Name: model.Student.Name,
		}
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.AssignmentSubmission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
