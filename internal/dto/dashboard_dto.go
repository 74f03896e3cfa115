package dto

// AssignmentProgress is one row of the student progress view.
type AssignmentProgress struct {
	AssignmentID uint     `json:"assignment_id"`
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	Grade        *float64 `json:"grade,omitempty"`
}

// StudentDashboardResponse aggregates a student's standing across
// assignments and quiz attempts.
type StudentDashboardResponse struct {
	TotalAssignments int                  `json:"total_assignments"`
	Submitted        int                  `json:"submitted"`
	Graded           int                  `json:"graded"`
	AverageGrade     *float64             `json:"average_grade,omitempty"`
	QuizAttempts     int                  `json:"quiz_attempts"`
	Assignments      []AssignmentProgress `json:"assignments"`
}
