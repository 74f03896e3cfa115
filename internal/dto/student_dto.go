package dto

import (
	"time"

	"github.com/darsah-app/classroom-api/internal/models"
)

// StudentResponse is returned to API clients when viewing accounts.
type StudentResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentCreateRequest is the admin payload for adding an account directly.
type StudentCreateRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=20"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=student admin"`
}

// StudentUpdateRequest updates name and/or password; nil fields are untouched.
type StudentUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=3,max=20"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// StudentLite summarizes an account inside submission responses.
type StudentLite struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NewStudentResponse converts a Student model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:        model.ID,
		Name:      model.Name,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
	}
}

// NewStudentResponseSlice converts student models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}

	return responses
}
