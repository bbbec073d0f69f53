package prompt

import (
	"fmt"
	"strings"

	"courseta/models"
)

const sectionSeparator = "\n\n"

// ComposeContext carries everything the composer may draw on. It is
// read-only during a compose call; identical contexts always produce
// identical prompts.
type ComposeContext struct {
	Course        models.Course
	Policy        models.PolicyConfig
	StylePreset   models.StylePreset
	Assignment    *models.Assignment
	Materials     []models.CourseMaterial
	CourseContext string
}

type sectionBuilder func(ComposeContext) (string, bool)

// Section order is fixed: later sections carry the strongest
// situational weight by position, so assignment context and staff
// notes land after the general rules.
var sectionBuilders = []sectionBuilder{
	identitySection,
	contentBoundarySection,
	behaviorSection,
	teachingTierSection,
	stylePresetSection,
	policyRulesSection,
	materialsSection,
	modeSection,
	assignmentSection,
	courseContextSection,
}

// Compose assembles the system prompt from the ordered section list.
// Pure function of its input: no storage, no network, no clock.
func Compose(ctx ComposeContext) string {
	var sections []string
	for _, build := range sectionBuilders {
		if section, ok := build(ctx); ok {
			sections = append(sections, section)
		}
	}
	return strings.Join(sections, sectionSeparator)
}

func identitySection(ctx ComposeContext) (string, bool) {
	return fmt.Sprintf(
		`You are Pascal, the AI Teaching Assistant for the course "%s" (%s). Your role is to help students learn through scaffolded guidance, not by giving away answers.`,
		ctx.Course.Name, ctx.Course.Code), true
}

func contentBoundarySection(ctx ComposeContext) (string, bool) {
	return CONTENT_BOUNDARY_PROMPT, true
}

func behaviorSection(ctx ComposeContext) (string, bool) {
	return BEHAVIOR_PROMPT, true
}

func teachingTierSection(ctx ComposeContext) (string, bool) {
	switch {
	case ctx.Policy.HintLevels <= 1:
		return STRICT_TIER_PROMPT, true
	case ctx.Policy.HintLevels <= 3:
		return GUIDED_TIER_PROMPT, true
	default:
		return FULL_SUPPORT_TIER_PROMPT, true
	}
}

func stylePresetSection(ctx ComposeContext) (string, bool) {
	preset := GetPresetConfig(ctx.StylePreset)
	if preset == nil {
		return "", false
	}
	return fmt.Sprintf("## Style Preset: %s\n\n%s", preset.Label, preset.Fragment), true
}

func policyRulesSection(ctx ComposeContext) (string, bool) {
	var lines []string
	lines = append(lines, "## Guardrails & Policy")
	lines = append(lines, "These rules apply to problem-solving questions ONLY, never to factual or informational questions.")

	if !ctx.Policy.AllowFinalAnswers {
		lines = append(lines, "- Do NOT provide final answers or complete solutions.")
	}
	if !ctx.Policy.AllowFullCode {
		lines = append(lines, "- Do NOT provide full working code. Pseudocode and partial snippets are OK.")
	}
	if ctx.Policy.RequireAttemptFirst {
		lines = append(lines, "- Before giving hints, ask the student to share what they have tried so far.")
	}

	if len(ctx.Policy.AllowedArtifacts) > 0 {
		lines = append(lines, fmt.Sprintf("- Allowed artifacts: %s", strings.Join(ctx.Policy.AllowedArtifacts, ", ")))
	}
	if len(ctx.Policy.DisallowedArtifacts) > 0 {
		lines = append(lines, fmt.Sprintf("- Disallowed artifacts: %s", strings.Join(ctx.Policy.DisallowedArtifacts, ", ")))
	}

	if len(ctx.Policy.TopicGates) > 0 {
		lines = append(lines, "- Topic gating:")
		for _, gate := range ctx.Policy.TopicGates {
			line := fmt.Sprintf("  - %q: %s", gate.Topic, gate.Status)
			if gate.Message != "" {
				line += fmt.Sprintf(" (%s)", gate.Message)
			}
			lines = append(lines, line)
		}
	}

	if ctx.Policy.RefusalMessage != "" {
		lines = append(lines, fmt.Sprintf("- When you must refuse, use this refusal message: %q", ctx.Policy.RefusalMessage))
	}

	return strings.Join(lines, "\n"), true
}

func materialsSection(ctx ComposeContext) (string, bool) {
	var rendered []string
	for _, material := range ctx.Materials {
		if strings.TrimSpace(material.ExtractedText) == "" {
			continue
		}
		rendered = append(rendered, fmt.Sprintf("### [%s] %s\n\n%s",
			material.Category, material.FileName, material.ExtractedText))
	}
	if len(rendered) == 0 {
		return "", false
	}

	return MATERIALS_HEADER_PROMPT + "\n\n" + strings.Join(rendered, "\n\n"), true
}

func modeSection(ctx ComposeContext) (string, bool) {
	if ctx.Assignment == nil {
		return GENERAL_MODE_PROMPT, true
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("## Mode: Assignment: %s\n\nThe student is working on the assignment %q. Keep the conversation anchored to it.",
		ctx.Assignment.Title, ctx.Assignment.Title))

	if strings.TrimSpace(ctx.Assignment.StaffNotes) != "" {
		parts = append(parts, fmt.Sprintf("### Staff Notes (confidential)\n\n%s\n\n%s",
			STAFF_NOTES_DIRECTIVE, ctx.Assignment.StaffNotes))
	}

	return strings.Join(parts, "\n\n"), true
}

func assignmentSection(ctx ComposeContext) (string, bool) {
	if ctx.Assignment == nil {
		return "", false
	}

	var parts []string
	if strings.TrimSpace(ctx.Assignment.Prompt) != "" {
		parts = append(parts, fmt.Sprintf("## Assignment Prompt\n\n%s", ctx.Assignment.Prompt))
	}

	if len(ctx.Assignment.FAQ) > 0 {
		var faq strings.Builder
		faq.WriteString("## Assignment FAQ\n")
		for _, entry := range ctx.Assignment.FAQ {
			faq.WriteString(fmt.Sprintf("\n- %s", entry))
		}
		parts = append(parts, faq.String())
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "\n\n"), true
}

func courseContextSection(ctx ComposeContext) (string, bool) {
	if strings.TrimSpace(ctx.CourseContext) == "" {
		return "", false
	}
	return fmt.Sprintf("## Course Context\n\n%s", ctx.CourseContext), true
}
