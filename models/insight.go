package models

type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type AssignmentCount struct {
	AssignmentID string `json:"assignment_id"`
	Title        string `json:"title"`
	Count        int    `json:"count"`
}

type UsageInsight struct {
	CourseID              string            `json:"course_id"`
	TopTopics             []TopicCount      `json:"top_topics"`
	TopAssignments        []AssignmentCount `json:"top_assignments"`
	TotalSessions         int               `json:"total_sessions"`
	TotalMessages         int               `json:"total_messages"`
	AvgMessagesPerSession float64           `json:"avg_messages_per_session"`
}
