package services

import (
	"fmt"
	"log"

	"courseta/db"
	"courseta/models"
	"courseta/services/insights"

	"github.com/samber/lo"
)

// InsightService pulls a course's raw usage data out of storage and
// hands it to the pure aggregator.
type InsightService struct {
	sessionRepo    db.SessionRepository
	assignmentRepo db.AssignmentRepository
}

func NewInsightService(sessionRepo db.SessionRepository, assignmentRepo db.AssignmentRepository) *InsightService {
	return &InsightService{
		sessionRepo:    sessionRepo,
		assignmentRepo: assignmentRepo,
	}
}

func (s *InsightService) GetCourseInsights(courseID string) (*models.UsageInsight, error) {
	log.Printf("[INFO] Computing usage insights for course %s", courseID)

	storedSessions, err := s.sessionRepo.GetSessionsByCourse(courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}

	storedMessages, err := s.sessionRepo.GetMessagesByCourse(courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	storedAssignments, err := s.assignmentRepo.GetAssignmentsByCourse(courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	sessions := lo.Map(storedSessions, func(session *models.Session, _ int) models.Session {
		return *session
	})
	messages := lo.Map(storedMessages, func(message *models.Message, _ int) models.Message {
		return *message
	})
	assignments := lo.Map(storedAssignments, func(assignment *models.Assignment, _ int) models.Assignment {
		return *assignment
	})

	insight := insights.Aggregate(courseID, sessions, messages, assignments)

	log.Printf("[INFO] Computed insights for course %s: %d sessions, %d messages",
		courseID, insight.TotalSessions, insight.TotalMessages)
	return &insight, nil
}
