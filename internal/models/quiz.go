package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Quiz represents a timed multiple-choice quiz definition.
type Quiz struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	TimeLimit   int       `gorm:"not null" json:"time_limit"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// QuizQuestion holds one multiple-choice question and its answer key entry.
type QuizQuestion struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	QuizID        uint           `gorm:"not null;index" json:"quiz_id"`
	Question      string         `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSON `gorm:"type:json" json:"-"`
	CorrectOption string         `gorm:"size:255;not null" json:"correct_option"`
	Explanation   string         `gorm:"type:text" json:"explanation"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// SetOptions serializes the ordered option list into the JSON column.
func (q *QuizQuestion) SetOptions(options []string) {
	if options == nil {
		options = []string{}
	}
	data, err := json.Marshal(options)
	if err != nil {
		q.Options = datatypes.JSON([]byte("[]"))
		return
	}
	q.Options = datatypes.JSON(data)
}

// OptionList deserializes the stored options, preserving order.
func (q QuizQuestion) OptionList() []string {
	if len(q.Options) == 0 {
		return nil
	}

	var options []string
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil
	}

	return options
}
