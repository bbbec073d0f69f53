package policy

import (
	"regexp"
	"strings"

	"courseta/models"
)

// Classifier patterns are deliberately narrow. They catch only the
// blatant "hand me the result" phrasings; anything subtler is left to
// the composed system prompt. Keeping them specific keeps false
// positives down, which matters more than catching every paraphrase.
var (
	finalAnswerPattern = regexp.MustCompile(`(?i)give me the (answer|solution)`)
	fullCodePattern    = regexp.MustCompile(`(?i)give me the (full |complete )?code`)
)

// EffectivePolicy merges an assignment-level override into the
// course-level policy, field by field. Present override fields win;
// collection fields are replaced wholesale, never unioned. Neither
// input is mutated.
func EffectivePolicy(course models.PolicyConfig, override *models.PolicyOverride) models.PolicyConfig {
	effective := course
	effective.AllowedArtifacts = append([]string(nil), course.AllowedArtifacts...)
	effective.DisallowedArtifacts = append([]string(nil), course.DisallowedArtifacts...)
	effective.TopicGates = append([]models.TopicGate(nil), course.TopicGates...)

	if override != nil {
		if override.AllowFinalAnswers != nil {
			effective.AllowFinalAnswers = *override.AllowFinalAnswers
		}
		if override.AllowFullCode != nil {
			effective.AllowFullCode = *override.AllowFullCode
		}
		if override.RequireAttemptFirst != nil {
			effective.RequireAttemptFirst = *override.RequireAttemptFirst
		}
		if override.HintLevels != nil {
			effective.HintLevels = *override.HintLevels
		}
		if override.AllowedArtifacts != nil {
			effective.AllowedArtifacts = append([]string(nil), (*override.AllowedArtifacts)...)
		}
		if override.DisallowedArtifacts != nil {
			effective.DisallowedArtifacts = append([]string(nil), (*override.DisallowedArtifacts)...)
		}
		if override.RefusalMessage != nil {
			effective.RefusalMessage = *override.RefusalMessage
		}
		if override.TopicGates != nil {
			effective.TopicGates = append([]models.TopicGate(nil), (*override.TopicGates)...)
		}
	}

	if effective.HintLevels < models.MinHintLevels {
		effective.HintLevels = models.MinHintLevels
	}
	if effective.HintLevels > models.MaxHintLevels {
		effective.HintLevels = models.MaxHintLevels
	}

	return effective
}

// Classify runs the cheap pre-flight check on the raw user message
// before any model call. A blocked result carries the instructor's
// configured refusal message.
func Classify(message string, p models.PolicyConfig) models.ClassifyResult {
	if !p.AllowFinalAnswers && finalAnswerPattern.MatchString(message) {
		return models.ClassifyResult{Blocked: true, Reason: p.RefusalMessage}
	}

	if !p.AllowFullCode && fullCodePattern.MatchString(message) {
		return models.ClassifyResult{Blocked: true, Reason: p.RefusalMessage}
	}

	return models.ClassifyResult{Blocked: false}
}

// CheckTopicGate looks up a gate by case-insensitive exact topic match.
// Only not_yet_taught gates block.
func CheckTopicGate(topic string, gates []models.TopicGate) (bool, *models.TopicGate) {
	for i := range gates {
		if strings.EqualFold(gates[i].Topic, topic) {
			if gates[i].Status == models.TopicGateNotYetTaught {
				return true, &gates[i]
			}
			return false, &gates[i]
		}
	}
	return false, nil
}
