package insights

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"courseta/models"

	"github.com/samber/lo"
)

const topN = 10

// minTopicWordLength: words this short are almost never course topics
// ("what", "this", "code"), so they are dropped along with stopwords.
const minTopicWordLength = 5

var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]+`)

var stopwords = map[string]bool{
	"about": true, "after": true, "again": true, "being": true,
	"before": true, "below": true, "between": true, "could": true,
	"doing": true, "during": true, "every": true, "going": true,
	"having": true, "other": true, "please": true, "really": true,
	"should": true, "their": true, "there": true, "these": true,
	"thing": true, "things": true, "think": true, "those": true,
	"through": true, "under": true, "understand": true, "where": true,
	"which": true, "while": true, "would": true, "wrong": true,
	"question": true, "assignment": true, "homework": true,
	"problem": true, "help": true, "answer": true, "explain": true,
	"trying": true, "tried": true, "doesnt": true, "thanks": true,
	"still": true, "because": true, "something": true, "anyone": true,
}

// Aggregate computes usage statistics for one course from raw session
// and message logs. Pure batch computation: fixed inputs always give
// the same output, including ordering.
func Aggregate(courseID string, sessions []models.Session, messages []models.Message, assignments []models.Assignment) models.UsageInsight {
	insight := models.UsageInsight{
		CourseID:       courseID,
		TopTopics:      []models.TopicCount{},
		TopAssignments: []models.AssignmentCount{},
		TotalSessions:  len(sessions),
		TotalMessages:  len(messages),
	}

	if len(sessions) > 0 {
		avg := float64(len(messages)) / float64(len(sessions))
		insight.AvgMessagesPerSession = math.Round(avg*10) / 10
	}

	insight.TopAssignments = topAssignments(sessions, messages, assignments)
	insight.TopTopics = topTopics(messages)

	return insight
}

// topAssignments counts messages per assignment via each message's
// session. Sessions with no assignment are excluded here rather than
// bucketed under a synthetic "general" assignment; they still count
// toward the scalar totals.
func topAssignments(sessions []models.Session, messages []models.Message, assignments []models.Assignment) []models.AssignmentCount {
	sessionAssignment := make(map[string]string)
	for _, session := range sessions {
		if session.AssignmentID != nil && *session.AssignmentID != "" {
			sessionAssignment[session.ID] = *session.AssignmentID
		}
	}

	counts := make(map[string]int)
	for _, message := range messages {
		if assignmentID, ok := sessionAssignment[message.SessionID]; ok {
			counts[assignmentID]++
		}
	}

	titles := lo.SliceToMap(assignments, func(a models.Assignment) (string, string) {
		return a.ID, a.Title
	})

	result := make([]models.AssignmentCount, 0, len(counts))
	for assignmentID, count := range counts {
		title, ok := titles[assignmentID]
		if !ok {
			title = "Unknown"
		}
		result = append(result, models.AssignmentCount{
			AssignmentID: assignmentID,
			Title:        title,
			Count:        count,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].AssignmentID < result[j].AssignmentID
	})

	if len(result) > topN {
		result = result[:topN]
	}
	return result
}

// topTopics does word-frequency analysis over user messages. Each
// message contributes at most one count per distinct word, so a
// student repeating a term in one message doesn't skew the ranking.
func topTopics(messages []models.Message) []models.TopicCount {
	frequency := make(map[string]int)

	for _, message := range messages {
		if message.Role != "user" {
			continue
		}

		cleaned := nonAlphanumericRegex.ReplaceAllString(strings.ToLower(message.Content), "")
		words := lo.Uniq(strings.Fields(cleaned))

		for _, word := range words {
			if len(word) < minTopicWordLength || stopwords[word] {
				continue
			}
			frequency[word]++
		}
	}

	result := make([]models.TopicCount, 0, len(frequency))
	for topic, count := range frequency {
		result = append(result, models.TopicCount{Topic: topic, Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Topic < result[j].Topic
	})

	if len(result) > topN {
		result = result[:topN]
	}
	return result
}
