package models

const (
	MinHintLevels = 1
	MaxHintLevels = 5
)

type TopicGateStatus string

const (
	TopicGateNotYetTaught TopicGateStatus = "not_yet_taught"
	TopicGateOpen         TopicGateStatus = "open"
)

type TopicGate struct {
	Topic   string          `json:"topic"`
	Status  TopicGateStatus `json:"status"`
	Message string          `json:"message,omitempty"`
}

type PolicyConfig struct {
	AllowFinalAnswers   bool        `json:"allow_final_answers"`
	AllowFullCode       bool        `json:"allow_full_code"`
	RequireAttemptFirst bool        `json:"require_attempt_first"`
	HintLevels          int         `json:"hint_levels"`
	AllowedArtifacts    []string    `json:"allowed_artifacts"`
	DisallowedArtifacts []string    `json:"disallowed_artifacts"`
	RefusalMessage      string      `json:"refusal_message"`
	TopicGates          []TopicGate `json:"topic_gates"`
}

// PolicyOverride is a partial PolicyConfig attached to an assignment.
// Nil fields inherit the course-level value; present fields replace it
// wholesale, including the collection-valued ones.
type PolicyOverride struct {
	AllowFinalAnswers   *bool        `json:"allow_final_answers,omitempty"`
	AllowFullCode       *bool        `json:"allow_full_code,omitempty"`
	RequireAttemptFirst *bool        `json:"require_attempt_first,omitempty"`
	HintLevels          *int         `json:"hint_levels,omitempty"`
	AllowedArtifacts    *[]string    `json:"allowed_artifacts,omitempty"`
	DisallowedArtifacts *[]string    `json:"disallowed_artifacts,omitempty"`
	RefusalMessage      *string      `json:"refusal_message,omitempty"`
	TopicGates          *[]TopicGate `json:"topic_gates,omitempty"`
}

// DefaultPolicy returns a fresh policy value for a newly created course.
// Callers get their own copy, never a shared reference.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		AllowFinalAnswers:   false,
		AllowFullCode:       false,
		RequireAttemptFirst: true,
		HintLevels:          3,
		AllowedArtifacts:    []string{"pseudocode", "diagrams", "partial_code", "concept_explanation"},
		DisallowedArtifacts: []string{"full_solution", "solution_outline", "test_answers"},
		RefusalMessage:      "I can't provide that directly, but I can help guide you toward the answer. Can you share what you've tried so far?",
		TopicGates:          []TopicGate{},
	}
}

type ClassifyResult struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason,omitempty"`
}
