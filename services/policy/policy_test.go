package policy

import (
	"reflect"
	"testing"

	"courseta/models"
)

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func TestEffectivePolicyNilOverride(t *testing.T) {
	course := models.DefaultPolicy()

	effective := EffectivePolicy(course, nil)

	if !reflect.DeepEqual(effective, course) {
		t.Errorf("expected effective policy to equal course policy, got %+v", effective)
	}
}

func TestEffectivePolicyFieldOverrides(t *testing.T) {
	course := models.DefaultPolicy()

	tests := []struct {
		name     string
		override models.PolicyOverride
		check    func(t *testing.T, effective models.PolicyConfig)
	}{
		{
			name:     "allow final answers",
			override: models.PolicyOverride{AllowFinalAnswers: boolPtr(true)},
			check: func(t *testing.T, effective models.PolicyConfig) {
				if !effective.AllowFinalAnswers {
					t.Error("expected AllowFinalAnswers to be overridden to true")
				}
				if effective.AllowFullCode {
					t.Error("expected AllowFullCode to inherit course value")
				}
			},
		},
		{
			name:     "hint levels",
			override: models.PolicyOverride{HintLevels: intPtr(5)},
			check: func(t *testing.T, effective models.PolicyConfig) {
				if effective.HintLevels != 5 {
					t.Errorf("expected HintLevels 5, got %d", effective.HintLevels)
				}
			},
		},
		{
			name:     "refusal message",
			override: models.PolicyOverride{RefusalMessage: strPtr("Try the lab notes first.")},
			check: func(t *testing.T, effective models.PolicyConfig) {
				if effective.RefusalMessage != "Try the lab notes first." {
					t.Errorf("unexpected refusal message: %q", effective.RefusalMessage)
				}
			},
		},
		{
			name:     "allowed artifacts replaced wholesale",
			override: models.PolicyOverride{AllowedArtifacts: &[]string{"diagrams"}},
			check: func(t *testing.T, effective models.PolicyConfig) {
				if !reflect.DeepEqual(effective.AllowedArtifacts, []string{"diagrams"}) {
					t.Errorf("expected allowed artifacts replaced, not merged, got %v", effective.AllowedArtifacts)
				}
			},
		},
		{
			name: "topic gates replaced wholesale",
			override: models.PolicyOverride{TopicGates: &[]models.TopicGate{
				{Topic: "recursion", Status: models.TopicGateNotYetTaught},
			}},
			check: func(t *testing.T, effective models.PolicyConfig) {
				if len(effective.TopicGates) != 1 || effective.TopicGates[0].Topic != "recursion" {
					t.Errorf("expected topic gates replaced, got %v", effective.TopicGates)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effective := EffectivePolicy(course, &tt.override)
			tt.check(t, effective)
		})
	}
}

func TestEffectivePolicyDoesNotMutateInputs(t *testing.T) {
	course := models.DefaultPolicy()
	course.TopicGates = []models.TopicGate{{Topic: "pointers", Status: models.TopicGateOpen}}
	before := models.DefaultPolicy()
	before.TopicGates = []models.TopicGate{{Topic: "pointers", Status: models.TopicGateOpen}}

	override := models.PolicyOverride{
		AllowFullCode:    boolPtr(true),
		AllowedArtifacts: &[]string{"full_solution"},
		TopicGates:       &[]models.TopicGate{{Topic: "recursion", Status: models.TopicGateNotYetTaught}},
	}

	effective := EffectivePolicy(course, &override)

	if !reflect.DeepEqual(course, before) {
		t.Errorf("course policy mutated: %+v", course)
	}

	effective.AllowedArtifacts[0] = "changed"
	effective.TopicGates[0].Topic = "changed"
	if (*override.AllowedArtifacts)[0] != "full_solution" {
		t.Error("override artifacts aliased into effective policy")
	}
	if (*override.TopicGates)[0].Topic != "recursion" {
		t.Error("override topic gates aliased into effective policy")
	}
}

func TestEffectivePolicyClampsHintLevels(t *testing.T) {
	tests := []struct {
		name     string
		override *int
		course   int
		expected int
	}{
		{name: "override below minimum", override: intPtr(0), course: 3, expected: 1},
		{name: "override above maximum", override: intPtr(9), course: 3, expected: 5},
		{name: "course value below minimum", override: nil, course: -2, expected: 1},
		{name: "in range untouched", override: intPtr(4), course: 3, expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := models.DefaultPolicy()
			course.HintLevels = tt.course

			var override *models.PolicyOverride
			if tt.override != nil {
				override = &models.PolicyOverride{HintLevels: tt.override}
			}

			effective := EffectivePolicy(course, override)
			if effective.HintLevels != tt.expected {
				t.Errorf("expected HintLevels %d, got %d", tt.expected, effective.HintLevels)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		message string
		policy  func() models.PolicyConfig
		blocked bool
	}{
		{
			name:    "direct answer request blocked",
			message: "Just give me the answer to question 3",
			policy:  models.DefaultPolicy,
			blocked: true,
		},
		{
			name:    "solution request blocked",
			message: "give me the solution please",
			policy:  models.DefaultPolicy,
			blocked: true,
		},
		{
			name:    "full code request blocked",
			message: "Can you give me the full code for this?",
			policy:  models.DefaultPolicy,
			blocked: true,
		},
		{
			name:    "complete code request blocked",
			message: "GIVE ME THE COMPLETE CODE",
			policy:  models.DefaultPolicy,
			blocked: true,
		},
		{
			name:    "bare code request blocked",
			message: "give me the code",
			policy:  models.DefaultPolicy,
			blocked: true,
		},
		{
			name:    "conceptual question passes",
			message: "How does a hash table handle collisions?",
			policy:  models.DefaultPolicy,
			blocked: false,
		},
		{
			name:    "mentioning answers without requesting passes",
			message: "I checked my answer against the textbook and it differs",
			policy:  models.DefaultPolicy,
			blocked: false,
		},
		{
			name:    "answer request allowed when final answers permitted",
			message: "give me the answer",
			policy: func() models.PolicyConfig {
				p := models.DefaultPolicy()
				p.AllowFinalAnswers = true
				return p
			},
			blocked: false,
		},
		{
			name:    "code request allowed when full code permitted",
			message: "give me the full code",
			policy: func() models.PolicyConfig {
				p := models.DefaultPolicy()
				p.AllowFullCode = true
				return p
			},
			blocked: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.policy()
			result := Classify(tt.message, p)
			if result.Blocked != tt.blocked {
				t.Errorf("expected blocked=%v, got %v", tt.blocked, result.Blocked)
			}
			if tt.blocked && result.Reason != p.RefusalMessage {
				t.Errorf("expected refusal message %q, got %q", p.RefusalMessage, result.Reason)
			}
		})
	}
}

func TestCheckTopicGate(t *testing.T) {
	gates := []models.TopicGate{
		{Topic: "Dynamic Programming", Status: models.TopicGateNotYetTaught, Message: "Covered in week 9"},
		{Topic: "Recursion", Status: models.TopicGateOpen},
	}

	tests := []struct {
		name      string
		topic     string
		blocked   bool
		gateFound bool
	}{
		{name: "gated topic blocks", topic: "Dynamic Programming", blocked: true, gateFound: true},
		{name: "case insensitive match", topic: "dynamic programming", blocked: true, gateFound: true},
		{name: "open gate passes", topic: "recursion", blocked: false, gateFound: true},
		{name: "unknown topic passes", topic: "sorting", blocked: false, gateFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocked, gate := CheckTopicGate(tt.topic, gates)
			if blocked != tt.blocked {
				t.Errorf("expected blocked=%v, got %v", tt.blocked, blocked)
			}
			if (gate != nil) != tt.gateFound {
				t.Errorf("expected gateFound=%v, got gate=%v", tt.gateFound, gate)
			}
		})
	}
}
