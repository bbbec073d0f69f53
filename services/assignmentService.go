package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"courseta/db"
	"courseta/models"
)

type AssignmentService struct {
	repo db.AssignmentRepository
}

func NewAssignmentService(repo db.AssignmentRepository) *AssignmentService {
	return &AssignmentService{repo: repo}
}

func (s *AssignmentService) CreateAssignment(req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	log.Printf("[INFO] Starting assignment creation")

	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	if strings.TrimSpace(req.CourseID) == "" {
		return nil, fmt.Errorf("course ID is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if err := validateOverride(req.Overrides); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		CourseID:   req.CourseID,
		Title:      strings.TrimSpace(req.Title),
		Prompt:     req.Prompt,
		StaffNotes: req.StaffNotes,
		FAQ:        req.FAQ,
		Overrides:  req.Overrides,
	}

	if err := s.repo.CreateAssignment(assignment); err != nil {
		log.Printf("[ERROR] Failed to create assignment in repository: %v", err)
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	log.Printf("[INFO] Successfully created assignment with ID %s", assignment.ID)
	return assignment, nil
}

func (s *AssignmentService) GetAssignmentByID(id string) (*models.Assignment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("assignment ID is required")
	}
	return s.repo.GetAssignmentByID(id)
}

func (s *AssignmentService) GetAssignmentsByCourse(courseID string) ([]*models.Assignment, error) {
	assignments, err := s.repo.GetAssignmentsByCourse(courseID)
	if err != nil {
		log.Printf("[ERROR] Failed to get assignments for course %s: %v", courseID, err)
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	return assignments, nil
}

func (s *AssignmentService) UpdateAssignment(id string, req *models.UpdateAssignmentRequest) (*models.Assignment, error) {
	log.Printf("[INFO] Starting update assignment with ID %s", id)

	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	if err := validateOverride(req.Overrides); err != nil {
		return nil, err
	}

	updates := make(map[string]any)

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			return nil, fmt.Errorf("title cannot be empty")
		}
		updates["title"] = trimmed
	}
	if req.Prompt != nil {
		updates["prompt"] = *req.Prompt
	}
	if req.StaffNotes != nil {
		updates["staff_notes"] = *req.StaffNotes
	}
	if req.FAQ != nil {
		faqJSON, err := json.Marshal(*req.FAQ)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal FAQ: %w", err)
		}
		updates["faq"] = faqJSON
	}
	if req.Overrides != nil {
		overridesJSON, err := json.Marshal(req.Overrides)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal overrides: %w", err)
		}
		updates["overrides"] = overridesJSON
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("no valid updates provided")
	}

	if err := s.repo.UpdateAssignment(id, updates); err != nil {
		log.Printf("[ERROR] Failed to update assignment ID %s: %v", id, err)
		return nil, err
	}

	log.Printf("[INFO] Successfully updated assignment with ID %s", id)
	return s.repo.GetAssignmentByID(id)
}

func (s *AssignmentService) DeleteAssignment(id string) error {
	log.Printf("[INFO] Starting delete assignment with ID %s", id)

	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("assignment ID is required")
	}

	if err := s.repo.DeleteAssignment(id); err != nil {
		log.Printf("[ERROR] Failed to delete assignment ID %s: %v", id, err)
		return err
	}

	log.Printf("[INFO] Successfully deleted assignment with ID %s", id)
	return nil
}

func validateOverride(override *models.PolicyOverride) error {
	if override == nil || override.HintLevels == nil {
		return nil
	}
	if *override.HintLevels < models.MinHintLevels || *override.HintLevels > models.MaxHintLevels {
		return fmt.Errorf("hint_levels must be between %d and %d", models.MinHintLevels, models.MaxHintLevels)
	}
	return nil
}
