package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"courseta/db"
	"courseta/models"
)

type CourseService struct {
	repo db.CourseRepository
}

func NewCourseService(repo db.CourseRepository) *CourseService {
	return &CourseService{repo: repo}
}

// CreateCourse creates a course together with its bot configuration.
// Every course starts with the default policy and the socratic preset.
func (s *CourseService) CreateCourse(req *models.CreateCourseRequest) (*models.Course, error) {
	log.Printf("[INFO] Starting course creation")

	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if strings.TrimSpace(req.Code) == "" {
		return nil, fmt.Errorf("code is required")
	}

	course := &models.Course{
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.TrimSpace(req.Code),
		Description: strings.TrimSpace(req.Description),
	}

	botConfig := &models.BotConfig{
		StylePreset: models.PresetSocratic,
		Policy:      models.DefaultPolicy(),
	}

	if err := s.repo.CreateCourse(course, botConfig); err != nil {
		log.Printf("[ERROR] Failed to create course in repository: %v", err)
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	log.Printf("[INFO] Successfully created course with ID %s", course.ID)
	return course, nil
}

func (s *CourseService) GetCourseByID(id string) (*models.Course, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("course ID is required")
	}
	return s.repo.GetCourseByID(id)
}

func (s *CourseService) GetAllCourses() ([]*models.Course, error) {
	courses, err := s.repo.GetAllCourses()
	if err != nil {
		log.Printf("[ERROR] Failed to get all courses: %v", err)
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}
	return courses, nil
}

func (s *CourseService) GetBotConfig(courseID string) (*models.BotConfig, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, fmt.Errorf("course ID is required")
	}
	return s.repo.GetBotConfig(courseID)
}

// UpdateBotConfig applies a partial update to the course's assistant
// configuration. Hint levels inside a supplied policy are clamped to
// the valid range before storage.
func (s *CourseService) UpdateBotConfig(courseID string, req *models.UpdateBotConfigRequest) (*models.BotConfig, error) {
	log.Printf("[INFO] Starting bot config update for course %s", courseID)

	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	updates := make(map[string]any)

	if req.StylePreset != nil {
		if !validStylePreset(*req.StylePreset) {
			return nil, fmt.Errorf("invalid style preset: %s", *req.StylePreset)
		}
		updates["style_preset"] = string(*req.StylePreset)
	}

	if req.Policy != nil {
		policy := *req.Policy
		if policy.HintLevels < models.MinHintLevels {
			policy.HintLevels = models.MinHintLevels
		}
		if policy.HintLevels > models.MaxHintLevels {
			policy.HintLevels = models.MaxHintLevels
		}

		policyJSON, err := json.Marshal(policy)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal policy: %w", err)
		}
		updates["policy"] = policyJSON
	}

	if req.Context != nil {
		updates["context"] = strings.TrimSpace(*req.Context)
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("no valid updates provided")
	}

	if err := s.repo.UpdateBotConfig(courseID, updates); err != nil {
		log.Printf("[ERROR] Failed to update bot config for course %s: %v", courseID, err)
		return nil, err
	}

	log.Printf("[INFO] Successfully updated bot config for course %s", courseID)
	return s.repo.GetBotConfig(courseID)
}

func validStylePreset(preset models.StylePreset) bool {
	switch preset {
	case models.PresetSocratic, models.PresetDirect, models.PresetDebuggingCoach, models.PresetExamReview:
		return true
	}
	return false
}
