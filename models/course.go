package models

import "time"

type Course struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Code        string    `json:"code" db:"code"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type StylePreset string

const (
	PresetSocratic       StylePreset = "socratic"
	PresetDirect         StylePreset = "direct"
	PresetDebuggingCoach StylePreset = "debugging_coach"
	PresetExamReview     StylePreset = "exam_review"
)

// BotConfig is the per-course assistant configuration. Exactly one row
// exists per course; it is created with defaults at course creation.
type BotConfig struct {
	ID          string       `json:"id" db:"id"`
	CourseID    string       `json:"course_id" db:"course_id"`
	StylePreset StylePreset  `json:"style_preset" db:"style_preset"`
	Policy      PolicyConfig `json:"policy" db:"policy"`
	Context     string       `json:"context" db:"context"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

type CreateCourseRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type UpdateBotConfigRequest struct {
	StylePreset *StylePreset  `json:"style_preset,omitempty"`
	Policy      *PolicyConfig `json:"policy,omitempty"`
	Context     *string       `json:"context,omitempty"`
}
