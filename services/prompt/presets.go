package prompt

import "courseta/models"

type PresetConfig struct {
	Key         models.StylePreset
	Label       string
	Description string
	Fragment    string
}

var stylePresets = []PresetConfig{
	{
		Key:         models.PresetSocratic,
		Label:       "Socratic",
		Description: "Guides students through questions rather than giving answers directly.",
		Fragment:    "Lean on the Socratic method: ask guiding questions that help the student discover the answer themselves rather than stating it outright.",
	},
	{
		Key:         models.PresetDirect,
		Label:       "Direct",
		Description: "Gives clear, concise explanations when asked.",
		Fragment:    "Give clear, concise explanations. Be direct and helpful while still respecting the course policy on what can be revealed.",
	},
	{
		Key:         models.PresetDebuggingCoach,
		Label:       "Debugging Coach",
		Description: "Helps students debug their code step by step.",
		Fragment:    "Act as a debugging coach. Ask the student to describe expected vs actual behavior, suggest print/log statements, and guide them through isolating the issue systematically.",
	},
	{
		Key:         models.PresetExamReview,
		Label:       "Exam Review",
		Description: "Focused on reviewing concepts and practice problems for exams.",
		Fragment:    "Help the student review for exams: focus on key concepts, common pitfalls, and practice problem walkthroughs. Use concept checks liberally to verify understanding.",
	},
}

func GetPresetConfig(key models.StylePreset) *PresetConfig {
	for i := range stylePresets {
		if stylePresets[i].Key == key {
			return &stylePresets[i]
		}
	}
	return nil
}

func AllPresets() []PresetConfig {
	return stylePresets
}
