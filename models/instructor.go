package models

// InstructorMessage is one turn in the instructor analytics
// conversation, including any tool activity the assistant performed.
type InstructorMessage struct {
	Role        string       `json:"role"`
	Content     string       `json:"content"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
}

type InstructorAgentRequest struct {
	CourseID string              `json:"course_id"`
	Messages []InstructorMessage `json:"messages"`
}

type InstructorAgentResponse struct {
	Messages []InstructorMessage `json:"messages"`
}
