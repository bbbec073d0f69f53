package models

import "time"

// ConceptCheckPayload is the quiz object embedded in assistant output
// between [CONCEPT_CHECK] sentinels. It has no storage identity of its
// own; persisting an answered check is a separate concern.
type ConceptCheckPayload struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

type ConceptCheck struct {
	ID            string    `json:"id" db:"id"`
	SessionID     string    `json:"session_id" db:"session_id"`
	CourseID      string    `json:"course_id" db:"course_id"`
	AssignmentID  *string   `json:"assignment_id,omitempty" db:"assignment_id"`
	Question      string    `json:"question" db:"question"`
	Options       []string  `json:"options" db:"options"`
	CorrectIndex  int       `json:"correct_index" db:"correct_index"`
	Explanation   string    `json:"explanation" db:"explanation"`
	Saved         bool      `json:"saved" db:"saved"`
	StudentAnswer *int      `json:"student_answer,omitempty" db:"student_answer"`
	IsCorrect     *bool     `json:"is_correct,omitempty" db:"is_correct"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type CreateConceptCheckRequest struct {
	SessionID    string              `json:"session_id"`
	CourseID     string              `json:"course_id"`
	AssignmentID *string             `json:"assignment_id,omitempty"`
	Payload      ConceptCheckPayload `json:"payload"`
}

type AnswerConceptCheckRequest struct {
	ConceptCheckID string `json:"concept_check_id"`
	StudentAnswer  int    `json:"student_answer"`
}
