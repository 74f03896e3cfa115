package models

import "time"

// Role values assigned to platform accounts. The role is stored on the row
// and carried in the token; it is never derived from the account name.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Student represents a learner account that can submit assignments and quizzes.
type Student struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:20;uniqueIndex;not null" json:"name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:32;not null;default:student" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the account may perform grading and management calls.
func (s Student) IsAdmin() bool {
	return s.Role == RoleAdmin
}
