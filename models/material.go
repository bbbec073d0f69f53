package models

import "time"

type CourseMaterial struct {
	ID            string    `json:"id" db:"id"`
	CourseID      string    `json:"course_id" db:"course_id"`
	FileName      string    `json:"file_name" db:"file_name"`
	FileType      string    `json:"file_type" db:"file_type"`
	Category      string    `json:"category" db:"category"`
	StoragePath   string    `json:"storage_path" db:"storage_path"`
	ExtractedText string    `json:"extracted_text" db:"extracted_text"`
	Summary       string    `json:"summary,omitempty" db:"summary"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ParsedChunk is one labeled span of extracted document text.
// Chunks from a document form an ordered sequence whose concatenation
// preserves reading order; SourceLabel is stable within a chunking run
// and is what citations point at.
type ParsedChunk struct {
	Content     string         `json:"content"`
	SourceLabel string         `json:"source_label"`
	Metadata    map[string]any `json:"metadata"`
}

type MaterialChunk struct {
	ID          string         `json:"id" db:"id"`
	MaterialID  string         `json:"material_id" db:"material_id"`
	CourseID    string         `json:"course_id" db:"course_id"`
	ChunkIndex  int            `json:"chunk_index" db:"chunk_index"`
	Content     string         `json:"content" db:"content"`
	SourceLabel string         `json:"source_label" db:"source_label"`
	Metadata    map[string]any `json:"metadata" db:"metadata"`
}

const (
	ReextractSuccess          = "success"
	ReextractDownloadFailed   = "download_failed"
	ReextractExtractionFailed = "extraction_failed"
	ReextractUpdateFailed     = "update_failed"
)

// ReextractResult reports one material's outcome in a batch
// re-extraction run. Failures are carried per item so the batch never
// aborts on a single bad document.
type ReextractResult struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	Status     string `json:"status"`
	TextLength int    `json:"text_length,omitempty"`
	Preview    string `json:"preview,omitempty"`
	Error      string `json:"error,omitempty"`
}
