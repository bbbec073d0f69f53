package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"courseta/db"
	"courseta/models"
	"courseta/services/conceptcheck"
	"courseta/services/policy"
	"courseta/services/prompt"

	"github.com/samber/lo"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const retrievedChunkLimit = 5

// ChunkRetriever supplies semantically relevant material chunks for a
// student question. Retrieval failures are non-fatal to a chat turn.
type ChunkRetriever interface {
	QueryCourseChunks(courseID, query string, limit int) ([]string, error)
}

type Service struct {
	courseRepo       db.CourseRepository
	assignmentRepo   db.AssignmentRepository
	sessionRepo      db.SessionRepository
	conceptCheckRepo db.ConceptCheckRepository
	materialRepo     db.MaterialRepository
	retriever        ChunkRetriever
	llm              llms.Model
}

// ChatResponse is the final state of one chat turn after streaming has
// completed. Content has any concept-check block stripped out.
type ChatResponse struct {
	SessionID    string                      `json:"session_id"`
	MessageID    string                      `json:"message_id"`
	Content      string                      `json:"content"`
	Blocked      bool                        `json:"blocked"`
	ConceptCheck *models.ConceptCheckPayload `json:"concept_check,omitempty"`
}

func NewService(
	courseRepo db.CourseRepository,
	assignmentRepo db.AssignmentRepository,
	sessionRepo db.SessionRepository,
	conceptCheckRepo db.ConceptCheckRepository,
	materialRepo db.MaterialRepository,
	retriever ChunkRetriever,
	openaiAPIKey string,
) *Service {
	llm, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(openaiAPIKey),
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to create OpenAI client: %v", err))
	}

	return &Service{
		courseRepo:       courseRepo,
		assignmentRepo:   assignmentRepo,
		sessionRepo:      sessionRepo,
		conceptCheckRepo: conceptCheckRepo,
		materialRepo:     materialRepo,
		retriever:        retriever,
		llm:              llm,
	}
}

func (s *Service) StartSession(courseID, assignmentID, studentID string) (*models.Session, error) {
	log.Printf("[INFO] Starting new session for course %s", courseID)

	if strings.TrimSpace(courseID) == "" {
		return nil, fmt.Errorf("course ID is required")
	}

	if _, err := s.courseRepo.GetCourseByID(courseID); err != nil {
		return nil, err
	}

	session := &models.Session{
		CourseID:  courseID,
		StudentID: studentID,
	}
	if assignmentID != "" {
		if _, err := s.assignmentRepo.GetAssignmentByID(assignmentID); err != nil {
			return nil, err
		}
		session.AssignmentID = &assignmentID
	}

	if err := s.sessionRepo.CreateSession(session); err != nil {
		return nil, err
	}

	log.Printf("[INFO] Created session %s for course %s", session.ID, courseID)
	return session, nil
}

// SendMessageStream runs one full chat turn: persist the student
// message, run the policy pre-flight, assemble the system prompt,
// stream the model response through tokenCallback, then persist the
// assistant message with any concept check split out.
//
// A blocked message never reaches the model; the refusal is streamed
// and persisted like a normal assistant turn.
func (s *Service) SendMessageStream(req *models.ChatRequest, tokenCallback func(string)) (*ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("message is required")
	}

	session, err := s.sessionRepo.GetSessionByID(req.SessionID)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetCourseByID(session.CourseID)
	if err != nil {
		return nil, err
	}

	botConfig, err := s.courseRepo.GetBotConfig(session.CourseID)
	if err != nil {
		return nil, err
	}

	var assignment *models.Assignment
	if session.AssignmentID != nil {
		assignment, err = s.assignmentRepo.GetAssignmentByID(*session.AssignmentID)
		if err != nil {
			return nil, err
		}
	}

	var override *models.PolicyOverride
	if assignment != nil {
		override = assignment.Overrides
	}
	effective := policy.EffectivePolicy(botConfig.Policy, override)

	userMessage := &models.Message{
		SessionID: session.ID,
		Role:      "user",
		Content:   req.Message,
	}
	if err := s.sessionRepo.CreateMessage(userMessage); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	if result := policy.Classify(req.Message, effective); result.Blocked {
		log.Printf("[INFO] Message blocked by policy pre-flight for session %s", session.ID)
		return s.refuse(session.ID, result.Reason, tokenCallback)
	}

	history, err := s.sessionRepo.GetMessagesBySession(session.ID)
	if err != nil {
		return nil, err
	}

	systemPrompt := prompt.Compose(prompt.ComposeContext{
		Course:        *course,
		Policy:        effective,
		StylePreset:   botConfig.StylePreset,
		Assignment:    assignment,
		Materials:     s.loadMaterials(session.CourseID),
		CourseContext: s.buildCourseContext(session.CourseID, botConfig.Context, req.Message),
	})

	messageHistory := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
	}
	for _, msg := range history {
		msgType := llms.ChatMessageTypeAI
		if msg.Role == "user" {
			msgType = llms.ChatMessageTypeHuman
		}
		messageHistory = append(messageHistory, llms.TextParts(msgType, msg.Content))
	}

	log.Printf("[INFO] Calling LLM for chat turn in session %s", session.ID)

	var full strings.Builder
	emitted := 0

	ctx := context.Background()
	_, err = s.llm.GenerateContent(ctx, messageHistory,
		llms.WithTemperature(0.7),
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			full.Write(chunk)
			visible := safeVisible(full.String())
			if len(visible) > emitted {
				tokenCallback(visible[emitted:])
				emitted = len(visible)
			}
			return nil
		}),
	)
	if err != nil {
		log.Printf("[ERROR] Failed to generate chat response: %v", err)
		return nil, fmt.Errorf("failed to generate chat response: %w", err)
	}

	// A block the model started but never closed is discarded along
	// with everything after its start sentinel; VisiblePrefix is the
	// identity on anything else.
	parsed := conceptcheck.Parse(conceptcheck.VisiblePrefix(full.String()))

	// Flush any held-back visible text once the stream is complete.
	if len(parsed.CleanContent) > emitted {
		tokenCallback(parsed.CleanContent[emitted:])
	}

	assistantMessage := &models.Message{
		SessionID: session.ID,
		Role:      "assistant",
		Content:   parsed.CleanContent,
	}
	if err := s.sessionRepo.CreateMessage(assistantMessage); err != nil {
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}

	if parsed.ConceptCheck != nil {
		check := &models.ConceptCheck{
			SessionID:    session.ID,
			CourseID:     session.CourseID,
			AssignmentID: session.AssignmentID,
			Question:     parsed.ConceptCheck.Question,
			Options:      parsed.ConceptCheck.Options,
			CorrectIndex: parsed.ConceptCheck.Correct,
			Explanation:  parsed.ConceptCheck.Explanation,
		}
		if err := s.conceptCheckRepo.CreateConceptCheck(check); err != nil {
			log.Printf("[WARN] Failed to persist concept check for session %s: %v", session.ID, err)
		}
	}

	log.Printf("[INFO] Completed chat turn for session %s", session.ID)
	return &ChatResponse{
		SessionID:    session.ID,
		MessageID:    assistantMessage.ID,
		Content:      parsed.CleanContent,
		ConceptCheck: parsed.ConceptCheck,
	}, nil
}

// AnswerConceptCheck grades a student's choice against the stored
// correct index. Grading happens here, never on the client.
func (s *Service) AnswerConceptCheck(checkID string, answer int) (*models.ConceptCheck, error) {
	check, err := s.conceptCheckRepo.GetConceptCheckByID(checkID)
	if err != nil {
		return nil, err
	}

	if answer < 0 || answer >= len(check.Options) {
		return nil, fmt.Errorf("answer index %d out of range", answer)
	}

	isCorrect := answer == check.CorrectIndex
	if err := s.conceptCheckRepo.RecordAnswer(checkID, answer, isCorrect); err != nil {
		return nil, err
	}

	check.StudentAnswer = &answer
	check.IsCorrect = &isCorrect
	return check, nil
}

func (s *Service) GetSessionMessages(sessionID string) ([]*models.Message, error) {
	return s.sessionRepo.GetMessagesBySession(sessionID)
}

func (s *Service) UpdateMessageSaved(messageID string, saved bool) error {
	return s.sessionRepo.UpdateMessageSaved(messageID, saved)
}

func (s *Service) GetSessionConceptChecks(sessionID string) ([]*models.ConceptCheck, error) {
	return s.conceptCheckRepo.GetConceptChecksBySession(sessionID)
}

func (s *Service) UpdateConceptCheckSaved(checkID string, saved bool) error {
	return s.conceptCheckRepo.UpdateConceptCheckSaved(checkID, saved)
}

func (s *Service) refuse(sessionID, refusalMessage string, tokenCallback func(string)) (*ChatResponse, error) {
	assistantMessage := &models.Message{
		SessionID: sessionID,
		Role:      "assistant",
		Content:   refusalMessage,
	}
	if err := s.sessionRepo.CreateMessage(assistantMessage); err != nil {
		return nil, fmt.Errorf("failed to persist refusal message: %w", err)
	}

	tokenCallback(refusalMessage)

	return &ChatResponse{
		SessionID: sessionID,
		MessageID: assistantMessage.ID,
		Content:   refusalMessage,
		Blocked:   true,
	}, nil
}

func (s *Service) loadMaterials(courseID string) []models.CourseMaterial {
	stored, err := s.materialRepo.GetMaterialsByCourse(courseID)
	if err != nil {
		log.Printf("[WARN] Failed to load materials for course %s: %v", courseID, err)
		return nil
	}

	return lo.Map(stored, func(m *models.CourseMaterial, _ int) models.CourseMaterial {
		return *m
	})
}

func (s *Service) buildCourseContext(courseID, instructorContext, query string) string {
	parts := make([]string, 0, 2)
	if strings.TrimSpace(instructorContext) != "" {
		parts = append(parts, instructorContext)
	}

	if s.retriever != nil {
		chunks, err := s.retriever.QueryCourseChunks(courseID, query, retrievedChunkLimit)
		if err != nil {
			log.Printf("[WARN] Chunk retrieval failed for course %s: %v", courseID, err)
		} else if len(chunks) > 0 {
			parts = append(parts, "Relevant material excerpts:\n\n"+strings.Join(chunks, "\n\n"))
		}
	}

	return strings.Join(parts, "\n\n")
}

// safeVisible returns the streamed content that is safe to show right
// now. Once a start sentinel has appeared, everything from it onward is
// held back for the rest of the stream, even after the closing sentinel
// arrives; the text after the block only goes out via the post-parse
// flush of clean content. A trailing run that could still turn into the
// start sentinel is also held back so a sentinel split across tokens
// never leaks.
func safeVisible(content string) string {
	if idx := strings.Index(content, conceptcheck.StartSentinel); idx >= 0 {
		return content[:idx]
	}

	for i := len(conceptcheck.StartSentinel) - 1; i > 0; i-- {
		if strings.HasSuffix(content, conceptcheck.StartSentinel[:i]) {
			return content[:len(content)-i]
		}
	}
	return content
}
