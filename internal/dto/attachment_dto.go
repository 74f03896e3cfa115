package dto

import (
	"time"

	"github.com/darsah-app/classroom-api/internal/models"
)

// AttachmentUpdateRequest renames a library attachment.
type AttachmentUpdateRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// AttachmentResponse is returned to API clients when viewing the library.
type AttachmentResponse struct {
	ID      uint      `json:"id"`
	Title   string    `json:"title"`
	FileURL string    `json:"file_url"`
	AddedAt time.Time `json:"added_at"`
}

// NewAttachmentResponse converts an Attachment model into a DTO.
func NewAttachmentResponse(model models.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:      model.ID,
		Title:   model.Title,
		FileURL: model.FileURL,
		AddedAt: model.AddedAt,
	}
}

// NewAttachmentResponseSlice converts attachment models into DTOs.
func NewAttachmentResponseSlice(attachments []models.Attachment) []AttachmentResponse {
	responses := make([]AttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		responses = append(responses, NewAttachmentResponse(attachment))
	}

	return responses
}
