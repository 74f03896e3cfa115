package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// AssignmentSubmission records a student's work for an assignment. A student
// may hold at most one submission per assignment; the composite unique index
// backs the duplicate guard performed by the submission service.
type AssignmentSubmission struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	AssignmentID uint           `gorm:"not null;uniqueIndex:idx_assignment_student" json:"assignment_id"`
	StudentID    uint           `gorm:"not null;uniqueIndex:idx_assignment_student" json:"student_id"`
	Content      string         `gorm:"type:text" json:"content"`
	Attachments  datatypes.JSON `gorm:"type:json" json:"-"`
	Grade        *float64       `json:"grade"`
	SubmittedAt  time.Time      `gorm:"not null" json:"submitted_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	Assignment Assignment `gorm:"foreignKey:AssignmentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
	Student    Student    `gorm:"foreignKey:StudentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

// SetAttachments serializes the ordered attachment URL list into the JSON column.
func (s *AssignmentSubmission) SetAttachments(urls []string) {
	if urls == nil {
		urls = []string{}
	}
	data, err := json.Marshal(urls)
	if err != nil {
		s.Attachments = datatypes.JSON([]byte("[]"))
		return
	}
	s.Attachments = datatypes.JSON(data)
}

// AttachmentList deserializes the stored attachment URLs, preserving order.
func (s AssignmentSubmission) AttachmentList() []string {
	if len(s.Attachments) == 0 {
		return nil
	}

	var urls []string
	if err := json.Unmarshal(s.Attachments, &urls); err != nil {
		return nil
	}

	return urls
}

// IsGraded reports whether a manual grade has been set on the submission.
func (s AssignmentSubmission) IsGraded() bool {
	return s.Grade != nil
}
