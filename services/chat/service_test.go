package chat

import (
	"strings"
	"testing"

	"courseta/services/conceptcheck"
)

func TestSafeVisible(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "plain text passes through",
			content:  "Here is a hint about recursion.",
			expected: "Here is a hint about recursion.",
		},
		{
			name:     "open block held back",
			content:  "Before [CONCEPT_CHECK]{\"question\": \"q",
			expected: "Before ",
		},
		{
			name:     "completed block stays held back",
			content:  "Before [CONCEPT_CHECK]{\"question\": \"q?\", \"options\": [\"a\", \"b\"], \"correct\": 0}[/CONCEPT_CHECK] after",
			expected: "Before ",
		},
		{
			name:     "trailing partial sentinel trimmed",
			content:  "Some text [CONCEPT",
			expected: "Some text ",
		},
		{
			name:     "single trailing bracket trimmed",
			content:  "Some text [",
			expected: "Some text ",
		},
		{
			name:     "bracket mid-text kept",
			content:  "array[0] is the first element",
			expected: "array[0] is the first element",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := safeVisible(tt.content); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// Drives the same accumulate-and-emit loop SendMessageStream runs and
// checks the wire output across token boundaries.
func streamDeltas(deltas []string) (wire string, clean string) {
	var full strings.Builder
	emitted := 0
	var out strings.Builder

	for _, delta := range deltas {
		full.WriteString(delta)
		visible := safeVisible(full.String())
		if len(visible) > emitted {
			out.WriteString(visible[emitted:])
			emitted = len(visible)
		}
	}

	parsed := conceptcheck.Parse(conceptcheck.VisiblePrefix(full.String()))
	if len(parsed.CleanContent) > emitted {
		out.WriteString(parsed.CleanContent[emitted:])
	}
	return out.String(), parsed.CleanContent
}

func TestStreamNeverEmitsSentinelBlock(t *testing.T) {
	tests := []struct {
		name   string
		deltas []string
	}{
		{
			name: "block split across many deltas",
			deltas: []string{
				"Here is a hint. ",
				"[CONCEPT",
				"_CHECK]{\"question\": \"q?\", ",
				"\"options\": [\"a\", \"b\"], \"correct\": 0}",
				"[/CONCEPT_CHECK]",
				" Keep going.",
			},
		},
		{
			name: "block arrives in one delta",
			deltas: []string{
				"Before. ",
				"[CONCEPT_CHECK]{\"question\": \"q?\", \"options\": [\"a\", \"b\"], \"correct\": 0}[/CONCEPT_CHECK] After.",
			},
		},
		{
			name: "block closes then more text streams",
			deltas: []string{
				"Intro ",
				"[CONCEPT_CHECK]{\"question\": \"q?\", \"options\": [\"a\", \"b\"], \"correct\": 0}[/CONCEPT_CHECK]",
				" first trailing delta",
				" second trailing delta",
			},
		},
		{
			name: "stream aborts mid-block",
			deltas: []string{
				"Partial answer ",
				"[CONCEPT_CHECK]{\"question\": \"never fini",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire, clean := streamDeltas(tt.deltas)

			if strings.Contains(wire, conceptcheck.StartSentinel) {
				t.Errorf("raw sentinel block streamed to client: %q", wire)
			}
			if strings.Contains(wire, conceptcheck.EndSentinel) {
				t.Errorf("end sentinel streamed to client: %q", wire)
			}
			if strings.Contains(wire, "\"question\"") {
				t.Errorf("concept check payload streamed to client: %q", wire)
			}
			if wire != clean {
				t.Errorf("wire output %q does not match clean content %q", wire, clean)
			}
		})
	}
}

func TestStreamWithoutConceptCheckPassesThrough(t *testing.T) {
	deltas := []string{"The key idea ", "is to split the ", "input in half."}

	wire, clean := streamDeltas(deltas)

	if wire != "The key idea is to split the input in half." {
		t.Errorf("unexpected wire output: %q", wire)
	}
	if wire != clean {
		t.Errorf("wire %q does not match clean content %q", wire, clean)
	}
}
