package instructor

import (
	"context"
	"encoding/json"
	"fmt"

	"courseta/db"
	"courseta/services"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

const recentQuestionsDefaultLimit = 20

// AgentTool is one capability the analytics assistant can invoke.
type AgentTool interface {
	Name() string
	Description() string
	Call(ctx context.Context, input string) (string, error)
	GetAnthropicToolSpec() anthropic.ToolInputSchemaParam
}

func generateAnthropicSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
}

type GetUsageInsightsToolInput struct {
	CourseID string `json:"course_id" jsonschema:"required,description=The ID of the course to compute usage insights for"`
}

type GetUsageInsightsTool struct {
	insightService *services.InsightService
}

func NewGetUsageInsightsTool(insightService *services.InsightService) GetUsageInsightsTool {
	return GetUsageInsightsTool{insightService: insightService}
}

func (g GetUsageInsightsTool) Name() string {
	return "get_usage_insights"
}

func (g GetUsageInsightsTool) Description() string {
	return "Computes usage insights for a course: top topics, top assignments by session count, total sessions and messages, and average messages per session"
}

func (g GetUsageInsightsTool) Call(ctx context.Context, input string) (string, error) {
	var params GetUsageInsightsToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse get usage insights tool input: %v", err)
	}

	insight, err := g.insightService.GetCourseInsights(params.CourseID)
	if err != nil {
		return "", fmt.Errorf("failed to get usage insights: %v", err)
	}

	result, err := json.Marshal(insight)
	if err != nil {
		return "", fmt.Errorf("failed to marshal usage insights: %v", err)
	}

	return string(result), nil
}

func (g GetUsageInsightsTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[GetUsageInsightsToolInput]()
}

type ListRecentQuestionsToolInput struct {
	CourseID string `json:"course_id" jsonschema:"required,description=The ID of the course to list recent student questions for"`
	Limit    int    `json:"limit,omitempty" jsonschema:"description=Maximum number of questions to return (default: 20)"`
}

type ListRecentQuestionsTool struct {
	sessionRepo db.SessionRepository
}

func NewListRecentQuestionsTool(sessionRepo db.SessionRepository) ListRecentQuestionsTool {
	return ListRecentQuestionsTool{sessionRepo: sessionRepo}
}

func (l ListRecentQuestionsTool) Name() string {
	return "list_recent_questions"
}

func (l ListRecentQuestionsTool) Description() string {
	return "Lists the most recent anonymized student questions in a course, newest first"
}

func (l ListRecentQuestionsTool) Call(ctx context.Context, input string) (string, error) {
	var params ListRecentQuestionsToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse list recent questions tool input: %v", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = recentQuestionsDefaultLimit
	}

	questions, err := l.sessionRepo.GetRecentUserMessages(params.CourseID, limit)
	if err != nil {
		return "", fmt.Errorf("failed to get recent questions: %v", err)
	}

	result, err := json.Marshal(questions)
	if err != nil {
		return "", fmt.Errorf("failed to marshal recent questions: %v", err)
	}

	return string(result), nil
}

func (l ListRecentQuestionsTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[ListRecentQuestionsToolInput]()
}

type ListAssignmentsToolInput struct {
	CourseID string `json:"course_id" jsonschema:"required,description=The ID of the course to list assignments for"`
}

type ListAssignmentsTool struct {
	assignmentRepo db.AssignmentRepository
}

func NewListAssignmentsTool(assignmentRepo db.AssignmentRepository) ListAssignmentsTool {
	return ListAssignmentsTool{assignmentRepo: assignmentRepo}
}

func (l ListAssignmentsTool) Name() string {
	return "list_assignments"
}

func (l ListAssignmentsTool) Description() string {
	return "Lists a course's assignments with their titles and prompts"
}

func (l ListAssignmentsTool) Call(ctx context.Context, input string) (string, error) {
	var params ListAssignmentsToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse list assignments tool input: %v", err)
	}

	assignments, err := l.assignmentRepo.GetAssignmentsByCourse(params.CourseID)
	if err != nil {
		return "", fmt.Errorf("failed to get assignments: %v", err)
	}

	type assignmentPreview struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Prompt string `json:"prompt"`
	}

	previews := make([]assignmentPreview, 0, len(assignments))
	for _, assignment := range assignments {
		prompt := assignment.Prompt
		if len(prompt) > 200 {
			prompt = prompt[:200] + "..."
		}
		previews = append(previews, assignmentPreview{
			ID:     assignment.ID,
			Title:  assignment.Title,
			Prompt: prompt,
		})
	}

	result, err := json.Marshal(previews)
	if err != nil {
		return "", fmt.Errorf("failed to marshal assignments: %v", err)
	}

	return string(result), nil
}

func (l ListAssignmentsTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[ListAssignmentsToolInput]()
}
