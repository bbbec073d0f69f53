package models

import "time"

// Assignment ties a policy override and staff-only guidance to a
// concrete piece of coursework. StaffNotes may shape composed prompts
// but must never surface in anything shown to a student.
type Assignment struct {
	ID         string          `json:"id" db:"id"`
	CourseID   string          `json:"course_id" db:"course_id"`
	Title      string          `json:"title" db:"title"`
	Prompt     string          `json:"prompt" db:"prompt"`
	StaffNotes string          `json:"staff_notes" db:"staff_notes"`
	FAQ        []string        `json:"faq" db:"faq"`
	Overrides  *PolicyOverride `json:"overrides,omitempty" db:"overrides"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

type CreateAssignmentRequest struct {
	CourseID   string          `json:"course_id"`
	Title      string          `json:"title"`
	Prompt     string          `json:"prompt"`
	StaffNotes string          `json:"staff_notes"`
	FAQ        []string        `json:"faq"`
	Overrides  *PolicyOverride `json:"overrides,omitempty"`
}

type UpdateAssignmentRequest struct {
	Title      *string         `json:"title,omitempty"`
	Prompt     *string         `json:"prompt,omitempty"`
	StaffNotes *string         `json:"staff_notes,omitempty"`
	FAQ        *[]string       `json:"faq,omitempty"`
	Overrides  *PolicyOverride `json:"overrides,omitempty"`
}
