package models

import "time"

// Attachment is a standalone teaching-material file published by an admin,
// stored in the blob store and referenced by its durable URL.
type Attachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	FileURL   string    `gorm:"size:512;not null" json:"file_url"`
	AddedAt   time.Time `gorm:"not null" json:"added_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
