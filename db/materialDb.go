package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"courseta/models"

	_ "github.com/lib/pq"
)

type MaterialRepository interface {
	CreateMaterial(material *models.CourseMaterial) error
	GetMaterialByID(id string) (*models.CourseMaterial, error)
	GetMaterialsByCourse(courseID string) ([]*models.CourseMaterial, error)
	UpdateExtractedText(id, extractedText string) error
	UpdateSummary(id, summary string) error
	DeleteMaterial(id string) error
	ReplaceChunks(materialID, courseID string, chunks []models.ParsedChunk) error
	GetChunksByMaterial(materialID string) ([]*models.MaterialChunk, error)
	Close() error
}

type PostgresMaterialRepository struct {
	db *sql.DB
}

func NewPostgresMaterialRepository(databaseURL string) (*PostgresMaterialRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresMaterialRepository{db: db}, nil
}

func (r *PostgresMaterialRepository) CreateMaterial(material *models.CourseMaterial) error {
	query := `
		INSERT INTO courseta.course_materials (course_id, file_name, file_type, category, storage_path, extracted_text, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	row := r.db.QueryRow(query, material.CourseID, material.FileName, material.FileType,
		material.Category, material.StoragePath, material.ExtractedText, material.Summary)

	if err := row.Scan(&material.ID, &material.CreatedAt); err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}

	return nil
}

func (r *PostgresMaterialRepository) GetMaterialByID(id string) (*models.CourseMaterial, error) {
	query := `
		SELECT id, course_id, file_name, file_type, category, storage_path, extracted_text, summary, created_at
		FROM courseta.course_materials
		WHERE id = $1`

	material := &models.CourseMaterial{}
	row := r.db.QueryRow(query, id)

	err := row.Scan(&material.ID, &material.CourseID, &material.FileName, &material.FileType,
		&material.Category, &material.StoragePath, &material.ExtractedText, &material.Summary, &material.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("material with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get material: %w", err)
	}

	return material, nil
}

func (r *PostgresMaterialRepository) GetMaterialsByCourse(courseID string) ([]*models.CourseMaterial, error) {
	query := `
		SELECT id, course_id, file_name, file_type, category, storage_path, extracted_text, summary, created_at
		FROM courseta.course_materials
		WHERE course_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	materials := make([]*models.CourseMaterial, 0)
	for rows.Next() {
		material := &models.CourseMaterial{}
		err := rows.Scan(&material.ID, &material.CourseID, &material.FileName, &material.FileType,
			&material.Category, &material.StoragePath, &material.ExtractedText, &material.Summary, &material.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, material)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over materials: %w", err)
	}

	return materials, nil
}

func (r *PostgresMaterialRepository) UpdateExtractedText(id, extractedText string) error {
	return r.updateField(id, "extracted_text", extractedText)
}

func (r *PostgresMaterialRepository) UpdateSummary(id, summary string) error {
	return r.updateField(id, "summary", summary)
}

func (r *PostgresMaterialRepository) updateField(id, field, value string) error {
	query := fmt.Sprintf("UPDATE courseta.course_materials SET %s = $1 WHERE id = $2", field)

	result, err := r.db.Exec(query, value, id)
	if err != nil {
		return fmt.Errorf("failed to update material %s: %w", field, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("material with id %s not found", id)
	}

	return nil
}

func (r *PostgresMaterialRepository) DeleteMaterial(id string) error {
	query := "DELETE FROM courseta.course_materials WHERE id = $1"

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("material with id %s not found", id)
	}

	return nil
}

// ReplaceChunks swaps a material's chunk rows for a fresh chunking run
// in one transaction, so readers never see a half-replaced sequence.
func (r *PostgresMaterialRepository) ReplaceChunks(materialID, courseID string, chunks []models.ParsedChunk) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM courseta.material_chunks WHERE material_id = $1", materialID); err != nil {
		return fmt.Errorf("failed to delete existing chunks: %w", err)
	}

	insertQuery := `
		INSERT INTO courseta.material_chunks (material_id, course_id, chunk_index, content, source_label, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk metadata: %w", err)
		}
		if _, err := tx.Exec(insertQuery, materialID, courseID, i, chunk.Content, chunk.SourceLabel, metadataJSON); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunk replacement: %w", err)
	}

	return nil
}

func (r *PostgresMaterialRepository) GetChunksByMaterial(materialID string) ([]*models.MaterialChunk, error) {
	query := `
		SELECT id, material_id, course_id, chunk_index, content, source_label, metadata
		FROM courseta.material_chunks
		WHERE material_id = $1
		ORDER BY chunk_index ASC`

	rows, err := r.db.Query(query, materialID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	chunks := make([]*models.MaterialChunk, 0)
	for rows.Next() {
		chunk := &models.MaterialChunk{}
		var metadataJSON []byte
		err := rows.Scan(&chunk.ID, &chunk.MaterialID, &chunk.CourseID, &chunk.ChunkIndex,
			&chunk.Content, &chunk.SourceLabel, &metadataJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal chunk metadata: %w", err)
			}
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over chunks: %w", err)
	}

	return chunks, nil
}

func (r *PostgresMaterialRepository) Close() error {
	return r.db.Close()
}
