package prompt

import (
	"strings"
	"testing"

	"courseta/models"
)

func baseContext() ComposeContext {
	return ComposeContext{
		Course: models.Course{
			Name: "Intro to Algorithms",
			Code: "CS-201",
		},
		Policy:      models.DefaultPolicy(),
		StylePreset: models.PresetSocratic,
	}
}

func TestComposeDeterministic(t *testing.T) {
	ctx := baseContext()
	ctx.Assignment = &models.Assignment{
		Title:  "Problem Set 3",
		Prompt: "Implement merge sort.",
	}

	first := Compose(ctx)
	second := Compose(ctx)

	if first != second {
		t.Error("identical contexts produced different prompts")
	}
	if first == "" {
		t.Error("expected a non-empty prompt")
	}
}

func TestComposeIdentity(t *testing.T) {
	result := Compose(baseContext())

	if !strings.Contains(result, `the course "Intro to Algorithms" (CS-201)`) {
		t.Errorf("course identity missing from prompt:\n%s", result)
	}
	if !strings.HasPrefix(result, "You are Pascal") {
		t.Error("identity section should come first")
	}
}

func TestComposeTeachingTier(t *testing.T) {
	tests := []struct {
		name       string
		hintLevels int
		expected   string
		absent     []string
	}{
		{
			name:       "level 1 is strict",
			hintLevels: 1,
			expected:   "## Teaching Style: Strict",
			absent:     []string{"## Teaching Style: Guided", "## Teaching Style: Full Support"},
		},
		{
			name:       "level 2 is guided",
			hintLevels: 2,
			expected:   "## Teaching Style: Guided (Socratic)",
			absent:     []string{"## Teaching Style: Strict", "## Teaching Style: Full Support"},
		},
		{
			name:       "level 3 is guided",
			hintLevels: 3,
			expected:   "## Teaching Style: Guided (Socratic)",
			absent:     []string{"## Teaching Style: Strict", "## Teaching Style: Full Support"},
		},
		{
			name:       "level 4 is full support",
			hintLevels: 4,
			expected:   "## Teaching Style: Full Support",
			absent:     []string{"## Teaching Style: Strict", "## Teaching Style: Guided"},
		},
		{
			name:       "level 5 is full support",
			hintLevels: 5,
			expected:   "## Teaching Style: Full Support",
			absent:     []string{"## Teaching Style: Strict", "## Teaching Style: Guided"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := baseContext()
			ctx.Policy.HintLevels = tt.hintLevels

			result := Compose(ctx)

			if !strings.Contains(result, tt.expected) {
				t.Errorf("expected tier header %q in prompt", tt.expected)
			}
			for _, header := range tt.absent {
				if strings.Contains(result, header) {
					t.Errorf("unexpected tier header %q in prompt", header)
				}
			}
		})
	}
}

func TestComposeGuidedHintLadderInOrder(t *testing.T) {
	ctx := baseContext()
	ctx.Policy.HintLevels = 3

	result := Compose(ctx)

	levels := []string{
		"Hint level 1 - Conceptual nudge",
		"Hint level 2 - Named technique",
		"Hint level 3 - Structured skeleton",
	}
	last := -1
	for _, level := range levels {
		idx := strings.Index(result, level)
		if idx < 0 {
			t.Fatalf("ladder level %q missing from guided prompt", level)
		}
		if idx < last {
			t.Errorf("ladder level %q out of order", level)
		}
		last = idx
	}
}

func TestComposeFullSupportEffortThreshold(t *testing.T) {
	ctx := baseContext()
	ctx.Policy.HintLevels = 5

	result := Compose(ctx)

	if !strings.Contains(result, "2-3 back-and-forth attempts") {
		t.Error("full support tier should require prior effort before full answers")
	}
	if strings.Contains(result, "Hint level 1") {
		t.Error("hint ladder should not appear in full support mode")
	}
}

func TestComposeStylePreset(t *testing.T) {
	ctx := baseContext()
	ctx.StylePreset = models.PresetDebuggingCoach

	result := Compose(ctx)

	if !strings.Contains(result, "## Style Preset: Debugging Coach") {
		t.Error("expected the debugging coach preset header")
	}
	if !strings.Contains(result, "Act as a debugging coach.") {
		t.Error("expected the preset fragment in the prompt")
	}
}

func TestComposeUnknownPresetSkipped(t *testing.T) {
	ctx := baseContext()
	ctx.StylePreset = models.StylePreset("nonexistent")

	result := Compose(ctx)

	if strings.Contains(result, "## Style Preset:") {
		t.Error("unknown preset should produce no preset section")
	}
}

func TestComposePolicyRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.PolicyConfig)
		expected []string
		absent   []string
	}{
		{
			name:   "defaults forbid answers and code",
			mutate: func(p *models.PolicyConfig) {},
			expected: []string{
				"- Do NOT provide final answers or complete solutions.",
				"- Do NOT provide full working code. Pseudocode and partial snippets are OK.",
				"- Before giving hints, ask the student to share what they have tried so far.",
			},
		},
		{
			name: "permissive policy drops restrictions",
			mutate: func(p *models.PolicyConfig) {
				p.AllowFinalAnswers = true
				p.AllowFullCode = true
				p.RequireAttemptFirst = false
			},
			absent: []string{
				"- Do NOT provide final answers",
				"- Do NOT provide full working code",
				"- Before giving hints",
			},
		},
		{
			name: "artifact lists rendered",
			mutate: func(p *models.PolicyConfig) {
				p.AllowedArtifacts = []string{"pseudocode", "diagrams"}
				p.DisallowedArtifacts = []string{"full code"}
			},
			expected: []string{
				"- Allowed artifacts: pseudocode, diagrams",
				"- Disallowed artifacts: full code",
			},
		},
		{
			name: "topic gates with and without messages",
			mutate: func(p *models.PolicyConfig) {
				p.TopicGates = []models.TopicGate{
					{Topic: "dynamic programming", Status: models.TopicGateNotYetTaught, Message: "covered after week 6"},
					{Topic: "recursion", Status: models.TopicGateOpen},
				}
			},
			expected: []string{
				"- Topic gating:",
				`  - "dynamic programming": not_yet_taught (covered after week 6)`,
				`  - "recursion": open`,
			},
		},
		{
			name: "refusal message quoted",
			mutate: func(p *models.PolicyConfig) {
				p.RefusalMessage = "I can't hand out solutions."
			},
			expected: []string{
				`- When you must refuse, use this refusal message: "I can't hand out solutions."`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := baseContext()
			tt.mutate(&ctx.Policy)

			result := Compose(ctx)

			if !strings.Contains(result, "## Guardrails & Policy") {
				t.Fatal("policy section header missing")
			}
			for _, want := range tt.expected {
				if !strings.Contains(result, want) {
					t.Errorf("expected line %q in prompt", want)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(result, unwanted) {
					t.Errorf("unexpected line %q in prompt", unwanted)
				}
			}
		})
	}
}

func TestComposeMaterials(t *testing.T) {
	ctx := baseContext()
	ctx.Materials = []models.CourseMaterial{
		{FileName: "syllabus.pdf", Category: "syllabus", ExtractedText: "Week 1: arrays."},
		{FileName: "empty.pdf", Category: "notes", ExtractedText: "   "},
	}

	result := Compose(ctx)

	if !strings.Contains(result, "## Course Materials") {
		t.Error("materials header missing")
	}
	if !strings.Contains(result, "### [syllabus] syllabus.pdf\n\nWeek 1: arrays.") {
		t.Error("material content missing or misformatted")
	}
	if strings.Contains(result, "empty.pdf") {
		t.Error("material with blank extracted text should be skipped")
	}
}

func TestComposeMaterialsSectionOmittedWhenAllEmpty(t *testing.T) {
	ctx := baseContext()
	ctx.Materials = []models.CourseMaterial{
		{FileName: "blank.pdf", Category: "notes", ExtractedText: ""},
	}

	result := Compose(ctx)

	if strings.Contains(result, "## Course Materials") {
		t.Error("materials section should be omitted when no material has text")
	}
}

func TestComposeGeneralMode(t *testing.T) {
	result := Compose(baseContext())

	if !strings.Contains(result, "## Mode: General Course Questions") {
		t.Error("expected general mode section without an assignment")
	}
	if strings.Contains(result, "## Mode: Assignment") {
		t.Error("assignment mode should not appear without an assignment")
	}
}

func TestComposeAssignmentMode(t *testing.T) {
	ctx := baseContext()
	ctx.Assignment = &models.Assignment{
		Title:  "Problem Set 3",
		Prompt: "Implement merge sort and analyze its complexity.",
		FAQ:    []string{"Recursion is allowed.", "Submit a single file."},
	}

	result := Compose(ctx)

	if !strings.Contains(result, "## Mode: Assignment: Problem Set 3") {
		t.Error("assignment mode header missing")
	}
	if !strings.Contains(result, `working on the assignment "Problem Set 3"`) {
		t.Error("assignment anchor sentence missing")
	}
	if !strings.Contains(result, "## Assignment Prompt\n\nImplement merge sort and analyze its complexity.") {
		t.Error("assignment prompt section missing")
	}
	if !strings.Contains(result, "## Assignment FAQ\n\n- Recursion is allowed.\n- Submit a single file.") {
		t.Error("assignment FAQ bullets missing or misformatted")
	}
	if strings.Contains(result, "## Mode: General Course Questions") {
		t.Error("general mode should not appear with an assignment")
	}
}

func TestComposeStaffNotes(t *testing.T) {
	ctx := baseContext()
	ctx.Assignment = &models.Assignment{
		Title:      "Problem Set 3",
		StaffNotes: "Common mistake: off-by-one in the merge step.",
	}

	result := Compose(ctx)

	if !strings.Contains(result, "### Staff Notes (confidential)") {
		t.Error("staff notes section missing")
	}
	if !strings.Contains(result, STAFF_NOTES_DIRECTIVE) {
		t.Error("confidentiality directive missing")
	}
	if !strings.Contains(result, "Common mistake: off-by-one in the merge step.") {
		t.Error("staff notes content missing")
	}
}

func TestComposeStaffNotesOmittedWhenBlank(t *testing.T) {
	ctx := baseContext()
	ctx.Assignment = &models.Assignment{Title: "Problem Set 3", StaffNotes: "  "}

	result := Compose(ctx)

	if strings.Contains(result, "Staff Notes") {
		t.Error("blank staff notes should produce no section")
	}
}

func TestComposeCourseContextLast(t *testing.T) {
	ctx := baseContext()
	ctx.CourseContext = "[Chapter 4] Merge sort splits the input in half."

	result := Compose(ctx)

	if !strings.HasSuffix(result, "## Course Context\n\n[Chapter 4] Merge sort splits the input in half.") {
		t.Error("course context should be the final section")
	}
}

func TestComposeSectionOrder(t *testing.T) {
	ctx := baseContext()
	ctx.Assignment = &models.Assignment{Title: "PS1", Prompt: "Do the thing."}
	ctx.Materials = []models.CourseMaterial{
		{FileName: "notes.txt", Category: "notes", ExtractedText: "Arrays are contiguous."},
	}
	ctx.CourseContext = "Retrieved context."

	result := Compose(ctx)

	markers := []string{
		"You are Pascal",
		"## Content Boundaries",
		"## Behavior & Formatting",
		"## Teaching Style:",
		"## Style Preset:",
		"## Guardrails & Policy",
		"## Course Materials",
		"## Mode: Assignment",
		"## Assignment Prompt",
		"## Course Context",
	}

	last := -1
	for _, marker := range markers {
		idx := strings.Index(result, marker)
		if idx < 0 {
			t.Fatalf("marker %q missing from prompt", marker)
		}
		if idx < last {
			t.Errorf("marker %q out of order", marker)
		}
		last = idx
	}
}
