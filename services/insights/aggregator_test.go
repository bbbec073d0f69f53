package insights

import (
	"fmt"
	"reflect"
	"testing"

	"courseta/models"
)

func strPtr(s string) *string { return &s }

func userMessage(sessionID, content string) models.Message {
	return models.Message{SessionID: sessionID, Role: "user", Content: content}
}

func TestAggregateEmptyCourse(t *testing.T) {
	insight := Aggregate("course-1", nil, nil, nil)

	if insight.CourseID != "course-1" {
		t.Errorf("unexpected course ID: %q", insight.CourseID)
	}
	if insight.TotalSessions != 0 || insight.TotalMessages != 0 {
		t.Errorf("expected zero totals, got %d sessions / %d messages", insight.TotalSessions, insight.TotalMessages)
	}
	if insight.AvgMessagesPerSession != 0 {
		t.Errorf("expected zero average, got %v", insight.AvgMessagesPerSession)
	}
	if insight.TopTopics == nil || insight.TopAssignments == nil {
		t.Error("top lists should be empty slices, not nil")
	}
}

func TestAggregateAverageRounding(t *testing.T) {
	sessions := []models.Session{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}}
	var messages []models.Message
	for i := 0; i < 10; i++ {
		messages = append(messages, userMessage("s1", "content"))
	}

	insight := Aggregate("course-1", sessions, messages, nil)

	if insight.AvgMessagesPerSession != 3.3 {
		t.Errorf("expected 3.3, got %v", insight.AvgMessagesPerSession)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	sessions := []models.Session{
		{ID: "s1", AssignmentID: strPtr("a1")},
		{ID: "s2", AssignmentID: strPtr("a2")},
	}
	messages := []models.Message{
		userMessage("s1", "struggling with recursion recursion basics"),
		userMessage("s2", "recursion trees versus iteration approaches"),
		userMessage("s1", "iteration performance compared with recursion"),
	}
	assignments := []models.Assignment{
		{ID: "a1", Title: "PS1"},
		{ID: "a2", Title: "PS2"},
	}

	first := Aggregate("course-1", sessions, messages, assignments)
	second := Aggregate("course-1", sessions, messages, assignments)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different insights:\n%+v\n%+v", first, second)
	}
}

func TestTopAssignments(t *testing.T) {
	sessions := []models.Session{
		{ID: "s1", AssignmentID: strPtr("a1")},
		{ID: "s2", AssignmentID: strPtr("a2")},
		{ID: "s3"},
		{ID: "s4", AssignmentID: strPtr("a2")},
	}
	messages := []models.Message{
		userMessage("s1", "m"),
		userMessage("s2", "m"),
		userMessage("s2", "m"),
		userMessage("s3", "general question"),
		userMessage("s3", "another general question"),
		userMessage("s4", "m"),
	}
	assignments := []models.Assignment{
		{ID: "a1", Title: "Problem Set 1"},
		{ID: "a2", Title: "Problem Set 2"},
	}

	insight := Aggregate("course-1", sessions, messages, assignments)

	expected := []models.AssignmentCount{
		{AssignmentID: "a2", Title: "Problem Set 2", Count: 3},
		{AssignmentID: "a1", Title: "Problem Set 1", Count: 1},
	}
	if !reflect.DeepEqual(insight.TopAssignments, expected) {
		t.Errorf("expected %+v, got %+v", expected, insight.TopAssignments)
	}

	// General sessions stay out of the per-assignment list but count
	// toward the scalar totals.
	if insight.TotalMessages != 6 {
		t.Errorf("expected 6 total messages, got %d", insight.TotalMessages)
	}
}

func TestTopAssignmentsUnknownTitle(t *testing.T) {
	sessions := []models.Session{{ID: "s1", AssignmentID: strPtr("deleted")}}
	messages := []models.Message{userMessage("s1", "m")}

	insight := Aggregate("course-1", sessions, messages, nil)

	if len(insight.TopAssignments) != 1 {
		t.Fatalf("expected 1 assignment entry, got %d", len(insight.TopAssignments))
	}
	if insight.TopAssignments[0].Title != "Unknown" {
		t.Errorf("expected placeholder title, got %q", insight.TopAssignments[0].Title)
	}
}

func TestTopAssignmentsTiebreakAndCap(t *testing.T) {
	var sessions []models.Session
	var messages []models.Message
	var assignments []models.Assignment
	for i := 0; i < 15; i++ {
		sessionID := fmt.Sprintf("s%02d", i)
		assignmentID := fmt.Sprintf("a%02d", i)
		sessions = append(sessions, models.Session{ID: sessionID, AssignmentID: strPtr(assignmentID)})
		messages = append(messages, userMessage(sessionID, "m"))
		assignments = append(assignments, models.Assignment{ID: assignmentID, Title: assignmentID})
	}

	insight := Aggregate("course-1", sessions, messages, assignments)

	if len(insight.TopAssignments) != 10 {
		t.Fatalf("expected the list capped at 10, got %d", len(insight.TopAssignments))
	}
	for i, entry := range insight.TopAssignments {
		expected := fmt.Sprintf("a%02d", i)
		if entry.AssignmentID != expected {
			t.Errorf("position %d: expected %q (ID tiebreak), got %q", i, expected, entry.AssignmentID)
		}
	}
}

func TestTopTopics(t *testing.T) {
	messages := []models.Message{
		userMessage("s1", "I am stuck on recursion, recursion is confusing"),
		userMessage("s1", "how does recursion relate to induction?"),
		userMessage("s2", "induction proofs are hard"),
		{SessionID: "s1", Role: "assistant", Content: "recursion recursion recursion induction"},
	}

	insight := Aggregate("course-1", nil, messages, nil)

	expected := []models.TopicCount{
		{Topic: "induction", Count: 2},
		{Topic: "recursion", Count: 2},
		{Topic: "confusing", Count: 1},
		{Topic: "proofs", Count: 1},
		{Topic: "relate", Count: 1},
		{Topic: "stuck", Count: 1},
	}
	if !reflect.DeepEqual(insight.TopTopics, expected) {
		t.Errorf("expected %+v, got %+v", expected, insight.TopTopics)
	}
}

func TestTopTopicsFiltersShortWordsAndStopwords(t *testing.T) {
	messages := []models.Message{
		userMessage("s1", "please help me understand this assignment about graphs"),
	}

	insight := Aggregate("course-1", nil, messages, nil)

	expected := []models.TopicCount{{Topic: "graphs", Count: 1}}
	if !reflect.DeepEqual(insight.TopTopics, expected) {
		t.Errorf("expected only %+v, got %+v", expected, insight.TopTopics)
	}
}

func TestTopTopicsCap(t *testing.T) {
	var messages []models.Message
	for i := 0; i < 15; i++ {
		messages = append(messages, userMessage("s1", fmt.Sprintf("topicword%02d", i)))
	}

	insight := Aggregate("course-1", nil, messages, nil)

	if len(insight.TopTopics) != 10 {
		t.Errorf("expected the list capped at 10, got %d", len(insight.TopTopics))
	}
}
