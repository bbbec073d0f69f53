package models

import "time"

type Session struct {
	ID           string    `json:"id" db:"id"`
	CourseID     string    `json:"course_id" db:"course_id"`
	AssignmentID *string   `json:"assignment_id,omitempty" db:"assignment_id"`
	StudentID    string    `json:"student_id" db:"student_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Message is append-only chat history. Saved is the only field that
// mutates after creation; prompt assembly treats messages as immutable.
type Message struct {
	ID        string    `json:"id" db:"id"`
	SessionID string    `json:"session_id" db:"session_id"`
	Role      string    `json:"role" db:"role"`
	Content   string    `json:"content" db:"content"`
	Saved     bool      `json:"saved" db:"saved"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ChatRequest struct {
	SessionID    string `json:"session_id"`
	CourseID     string `json:"course_id"`
	AssignmentID string `json:"assignment_id,omitempty"`
	Message      string `json:"message"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
