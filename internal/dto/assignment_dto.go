package dto

import (
	"time"

	"github.com/darsah-app/classroom-api/internal/models"
)

// AssignmentCreateRequest describes the multipart payload for a new assignment.
type AssignmentCreateRequest struct {
	Title       string `form:"title" validate:"required,min=3,max=255"`
	Description string `form:"description" validate:"required"`
}

// AssignmentUpdateRequest updates assignment fields; nil fields are untouched.
type AssignmentUpdateRequest struct {
	Title       *string `form:"title" validate:"omitempty,min=3,max=255"`
	Description *string `form:"description"`
}

// AssignmentResponse is returned to API clients when viewing assignments.
type AssignmentResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileURL     string    `json:"file_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AssignmentLite summarizes an assignment in submission responses.
type AssignmentLite struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		FileURL:     model.FileURL,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
