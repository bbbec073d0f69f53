package conceptcheck

import (
	"encoding/json"
	"regexp"
	"strings"

	"courseta/models"
)

const (
	StartSentinel = "[CONCEPT_CHECK]"
	EndSentinel   = "[/CONCEPT_CHECK]"
)

var conceptCheckRegex = regexp.MustCompile(`(?s)\[CONCEPT_CHECK\](.*?)\[/CONCEPT_CHECK\]`)

type ParsedMessage struct {
	CleanContent string                      `json:"clean_content"`
	ConceptCheck *models.ConceptCheckPayload `json:"concept_check"`
}

// Parse extracts an embedded concept check from assistant text. The
// first sentinel-delimited span is removed from the visible content
// regardless of whether its payload decodes; a malformed payload
// degrades to "no concept check", never to an error. Running Parse on
// its own CleanContent output is a no-op.
func Parse(content string) ParsedMessage {
	match := conceptCheckRegex.FindStringSubmatchIndex(content)
	if match == nil {
		return ParsedMessage{CleanContent: content, ConceptCheck: nil}
	}

	clean := strings.TrimSpace(content[:match[0]] + content[match[1]:])
	inner := content[match[2]:match[3]]

	var raw struct {
		Question    string   `json:"question"`
		Options     []string `json:"options"`
		Correct     *int     `json:"correct"`
		Explanation string   `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(inner), &raw); err != nil {
		return ParsedMessage{CleanContent: clean, ConceptCheck: nil}
	}

	if raw.Question == "" || len(raw.Options) < 2 || raw.Correct == nil ||
		*raw.Correct < 0 || *raw.Correct >= len(raw.Options) {
		return ParsedMessage{CleanContent: clean, ConceptCheck: nil}
	}

	return ParsedMessage{
		CleanContent: clean,
		ConceptCheck: &models.ConceptCheckPayload{
			Question:    raw.Question,
			Options:     raw.Options,
			Correct:     *raw.Correct,
			Explanation: raw.Explanation,
		},
	}
}

// HasPartial reports whether a concept check has started streaming but
// not yet finished, so an incremental renderer can hold back the raw
// sentinel block until the payload is complete.
func HasPartial(content string) bool {
	return strings.Contains(content, StartSentinel) && !strings.Contains(content, EndSentinel)
}

// VisiblePrefix returns the portion of streamed content safe to render
// while a concept check is still in flight: everything up to, but not
// including, the start sentinel. Content without a partial check is
// returned unchanged.
func VisiblePrefix(content string) string {
	if !HasPartial(content) {
		return content
	}
	return content[:strings.Index(content, StartSentinel)]
}
