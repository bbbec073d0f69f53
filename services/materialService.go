package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"courseta/db"
	"courseta/models"
	"courseta/services/chunker"
	"courseta/services/pinecone"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const summaryPreviewChars = 200

// FileStore abstracts where uploaded material files live. The default
// implementation keeps them on local disk under a base directory.
type FileStore interface {
	Save(storagePath string, data []byte) error
	Load(storagePath string) ([]byte, error)
	Delete(storagePath string) error
}

type LocalFileStore struct {
	baseDir string
}

func NewLocalFileStore(baseDir string) *LocalFileStore {
	return &LocalFileStore{baseDir: baseDir}
}

func (fs *LocalFileStore) Save(storagePath string, data []byte) error {
	fullPath := filepath.Join(fs.baseDir, storagePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return os.WriteFile(fullPath, data, 0o644)
}

func (fs *LocalFileStore) Load(storagePath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(fs.baseDir, storagePath))
}

func (fs *LocalFileStore) Delete(storagePath string) error {
	return os.Remove(filepath.Join(fs.baseDir, storagePath))
}

type summarizeMaterialParams struct {
	Summary string `json:"summary"`
}

var summarizeMaterialTools = []llms.Tool{
	{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "summarize_material",
			Description: "Provide a concise summary of a course material document",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"summary": map[string]any{
						"type":        "string",
						"description": "A 2-4 sentence summary of what the document covers and what a student would use it for",
					},
				},
				"required": []string{"summary"},
			},
		},
	},
}

type MaterialService struct {
	repo     db.MaterialRepository
	store    FileStore
	pinecone *pinecone.Service
	llm      llms.Model
}

func NewMaterialService(repo db.MaterialRepository, store FileStore, pineconeService *pinecone.Service, openaiAPIKey string) *MaterialService {
	llm, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(openaiAPIKey),
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to create OpenAI client: %v", err))
	}

	return &MaterialService{
		repo:     repo,
		store:    store,
		pinecone: pineconeService,
		llm:      llm,
	}
}

// UploadMaterial runs the full ingestion pipeline: store the file,
// extract its text, chunk it, persist everything, then summarize and
// index. Summary and vector indexing failures are logged but do not
// fail the upload; the material is still usable without them.
func (s *MaterialService) UploadMaterial(courseID, fileName, category string, data []byte) (*models.CourseMaterial, error) {
	log.Printf("[INFO] Starting material upload for course %s: %s (%d bytes)", courseID, fileName, len(data))

	if strings.TrimSpace(fileName) == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	fileType := chunker.GetFileType(fileName)
	if fileType == "" {
		return nil, fmt.Errorf("unsupported file type: %s", fileName)
	}

	storagePath := filepath.Join(courseID, fileName)
	if err := s.store.Save(storagePath, data); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	// Extraction failure is not fatal: the material row still gets
	// created with empty text so the instructor can re-extract later.
	extractedText, err := chunker.ExtractText(data, fileType)
	if err != nil {
		log.Printf("[WARN] Text extraction failed for %s, continuing with empty text: %v", fileName, err)
		extractedText = ""
	}

	material := &models.CourseMaterial{
		CourseID:      courseID,
		FileName:      fileName,
		FileType:      fileType,
		Category:      category,
		StoragePath:   storagePath,
		ExtractedText: extractedText,
	}

	if err := s.repo.CreateMaterial(material); err != nil {
		if removeErr := s.store.Delete(storagePath); removeErr != nil {
			log.Printf("[WARN] Failed to remove stored file %s after create failure: %v", storagePath, removeErr)
		}
		return nil, fmt.Errorf("failed to create material: %w", err)
	}

	chunks := chunker.ChunkText(extractedText, fileType)
	if err := s.repo.ReplaceChunks(material.ID, courseID, chunks); err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}
	log.Printf("[INFO] Stored %d chunks for material %s", len(chunks), material.ID)

	if strings.TrimSpace(extractedText) != "" {
		if summary, err := s.generateSummary(fileName, extractedText); err != nil {
			log.Printf("[WARN] Summary generation failed for material %s: %v", material.ID, err)
		} else if err := s.repo.UpdateSummary(material.ID, summary); err != nil {
			log.Printf("[WARN] Failed to store summary for material %s: %v", material.ID, err)
		} else {
			material.Summary = summary
		}
	}

	if s.pinecone != nil {
		if err := s.pinecone.IndexMaterialChunks(material.ID, courseID, chunks); err != nil {
			log.Printf("[WARN] Vector indexing failed for material %s: %v", material.ID, err)
		}
	}

	log.Printf("[INFO] Successfully uploaded material %s", material.ID)
	return material, nil
}

func (s *MaterialService) GetMaterialByID(id string) (*models.CourseMaterial, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("material ID is required")
	}
	return s.repo.GetMaterialByID(id)
}

func (s *MaterialService) GetMaterialsByCourse(courseID string) ([]*models.CourseMaterial, error) {
	materials, err := s.repo.GetMaterialsByCourse(courseID)
	if err != nil {
		log.Printf("[ERROR] Failed to get materials for course %s: %v", courseID, err)
		return nil, fmt.Errorf("failed to get materials: %w", err)
	}
	return materials, nil
}

func (s *MaterialService) DeleteMaterial(id string) error {
	log.Printf("[INFO] Starting delete material with ID %s", id)

	material, err := s.repo.GetMaterialByID(id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteMaterial(id); err != nil {
		log.Printf("[ERROR] Failed to delete material %s: %v", id, err)
		return err
	}

	if err := s.store.Delete(material.StoragePath); err != nil {
		log.Printf("[WARN] Failed to delete stored file %s: %v", material.StoragePath, err)
	}

	if s.pinecone != nil {
		if err := s.pinecone.DeleteMaterialVectors(id); err != nil {
			log.Printf("[WARN] Failed to delete vectors for material %s: %v", id, err)
		}
	}

	log.Printf("[INFO] Successfully deleted material %s", id)
	return nil
}

// ReextractMaterials re-runs text extraction for every material in a
// course. Each material reports its own status; one failure never
// aborts the batch.
func (s *MaterialService) ReextractMaterials(courseID string) ([]models.ReextractResult, error) {
	log.Printf("[INFO] Starting batch re-extraction for course %s", courseID)

	materials, err := s.repo.GetMaterialsByCourse(courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get materials: %w", err)
	}

	results := make([]models.ReextractResult, 0, len(materials))
	for _, material := range materials {
		result := models.ReextractResult{
			ID:       material.ID,
			FileName: material.FileName,
		}

		data, err := s.store.Load(material.StoragePath)
		if err != nil {
			log.Printf("[ERROR] Failed to load file for material %s: %v", material.ID, err)
			result.Status = models.ReextractDownloadFailed
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		extractedText, err := chunker.ExtractText(data, material.FileType)
		if err != nil {
			log.Printf("[ERROR] Extraction failed for material %s: %v", material.ID, err)
			result.Status = models.ReextractExtractionFailed
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		if err := s.repo.UpdateExtractedText(material.ID, extractedText); err != nil {
			log.Printf("[ERROR] Failed to store extracted text for material %s: %v", material.ID, err)
			result.Status = models.ReextractUpdateFailed
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		chunks := chunker.ChunkText(extractedText, material.FileType)
		if err := s.repo.ReplaceChunks(material.ID, material.CourseID, chunks); err != nil {
			log.Printf("[ERROR] Failed to replace chunks for material %s: %v", material.ID, err)
			result.Status = models.ReextractUpdateFailed
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		if s.pinecone != nil {
			if err := s.pinecone.IndexMaterialChunks(material.ID, material.CourseID, chunks); err != nil {
				log.Printf("[WARN] Vector reindexing failed for material %s: %v", material.ID, err)
			}
		}

		result.Status = models.ReextractSuccess
		result.TextLength = len(extractedText)
		result.Preview = previewText(extractedText)
		results = append(results, result)
	}

	log.Printf("[INFO] Completed batch re-extraction for course %s: %d materials", courseID, len(results))
	return results, nil
}

// SearchMaterials filters a course's materials by fuzzy-matching the
// search terms against file names and extracted text.
func (s *MaterialService) SearchMaterials(courseID string, searchTerms []string) ([]*models.CourseMaterial, error) {
	log.Printf("[INFO] Starting material search for course %s with %d terms", courseID, len(searchTerms))

	materials, err := s.repo.GetMaterialsByCourse(courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get materials for search: %w", err)
	}

	if len(searchTerms) == 0 {
		return materials, nil
	}

	matching := lo.Filter(materials, func(material *models.CourseMaterial, _ int) bool {
		return materialMatchesSearch(material, searchTerms)
	})

	log.Printf("[INFO] Found %d materials matching search criteria", len(matching))
	return matching, nil
}

func materialMatchesSearch(material *models.CourseMaterial, searchTerms []string) bool {
	words := strings.Fields(strings.ToLower(material.ExtractedText))
	cleanWords := lo.FilterMap(words, func(word string, _ int) (string, bool) {
		cleanWord := strings.Trim(word, ".,!?;:()[]{}\"'")
		return cleanWord, len(cleanWord) > 0
	})

	for _, term := range searchTerms {
		if fuzzy.MatchFold(term, material.FileName) {
			return true
		}
		if len(fuzzy.Find(term, cleanWords)) > 0 {
			return true
		}
	}

	return false
}

func (s *MaterialService) generateSummary(fileName, extractedText string) (string, error) {
	ctx := context.Background()

	systemPrompt := `You are an assistant that summarizes course material documents for instructors. Summaries must be concise, factual, and describe what the document covers.`

	userPrompt := fmt.Sprintf("Summarize the following course material.\n\nFile name: %s\n\nContent:\n%s", fileName, extractedText)

	messageHistory := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	resp, err := s.llm.GenerateContent(ctx, messageHistory,
		llms.WithTools(summarizeMaterialTools),
		llms.WithTemperature(0.3),
		llms.WithToolChoice("required"))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	if len(resp.Choices) == 0 || len(resp.Choices[0].ToolCalls) == 0 {
		return "", fmt.Errorf("no tool calls in summary response")
	}

	toolCall := resp.Choices[0].ToolCalls[0]
	if toolCall.FunctionCall.Name != "summarize_material" {
		return "", fmt.Errorf("unexpected function call: %s", toolCall.FunctionCall.Name)
	}

	var params summarizeMaterialParams
	if err := json.Unmarshal([]byte(toolCall.FunctionCall.Arguments), &params); err != nil {
		return "", fmt.Errorf("failed to parse summary arguments: %w", err)
	}

	return strings.TrimSpace(params.Summary), nil
}

func previewText(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= summaryPreviewChars {
		return trimmed
	}
	return trimmed[:summaryPreviewChars]
}
