package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// QuizSubmissionStatusSubmitted is the only status a quiz submission can hold.
// Quizzes are scored once at submission time and never re-graded.
const QuizSubmissionStatusSubmitted = "submitted"

// QuizAnswer pairs a question with the option the student selected.
type QuizAnswer struct {
	QuestionID uint   `json:"question_id"`
	Selected   string `json:"selected"`
}

// QuizSubmission records one graded quiz attempt. The score is computed from
// the answer key when the attempt is accepted and is immutable afterwards.
type QuizSubmission struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	QuizID      uint           `gorm:"not null;index" json:"quiz_id"`
	StudentID   uint           `gorm:"not null;index" json:"student_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Answers     datatypes.JSON `gorm:"type:json" json:"-"`
	Score       int            `gorm:"not null" json:"score"`
	Status      string         `gorm:"size:32;not null" json:"status"`
	SubmittedAt time.Time      `gorm:"not null" json:"submitted_at"`
	CreatedAt   time.Time      `json:"created_at"`

	Quiz    Quiz    `gorm:"foreignKey:QuizID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"quiz"`
	Student Student `gorm:"foreignKey:StudentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

// SetAnswers serializes the ordered answer list into the JSON column.
func (s *QuizSubmission) SetAnswers(answers []QuizAnswer) {
	if answers == nil {
		answers = []QuizAnswer{}
	}
	data, err := json.Marshal(answers)
	if err != nil {
		s.Answers = datatypes.JSON([]byte("[]"))
		return
	}
	s.Answers = datatypes.JSON(data)
}

// AnswerList deserializes the stored answers, preserving submission order.
func (s QuizSubmission) AnswerList() []QuizAnswer {
	if len(s.Answers) == 0 {
		return nil
	}

	var answers []QuizAnswer
	if err := json.Unmarshal(s.Answers, &answers); err != nil {
		return nil
	}

	return answers
}
