package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"courseta/models"

	_ "github.com/lib/pq"
)

type ConceptCheckRepository interface {
	CreateConceptCheck(check *models.ConceptCheck) error
	GetConceptCheckByID(id string) (*models.ConceptCheck, error)
	GetConceptChecksBySession(sessionID string) ([]*models.ConceptCheck, error)
	GetConceptChecksByCourse(courseID string) ([]*models.ConceptCheck, error)
	RecordAnswer(id string, answer int, isCorrect bool) error
	UpdateConceptCheckSaved(id string, saved bool) error
	Close() error
}

type PostgresConceptCheckRepository struct {
	db *sql.DB
}

func NewPostgresConceptCheckRepository(databaseURL string) (*PostgresConceptCheckRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresConceptCheckRepository{db: db}, nil
}

func (r *PostgresConceptCheckRepository) CreateConceptCheck(check *models.ConceptCheck) error {
	optionsJSON, err := json.Marshal(check.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}

	query := `
		INSERT INTO courseta.concept_checks (session_id, course_id, assignment_id, question, options, correct_index, explanation, saved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	row := r.db.QueryRow(query, check.SessionID, check.CourseID, check.AssignmentID,
		check.Question, optionsJSON, check.CorrectIndex, check.Explanation, check.Saved)

	if err := row.Scan(&check.ID, &check.CreatedAt); err != nil {
		return fmt.Errorf("failed to create concept check: %w", err)
	}

	return nil
}

const conceptCheckColumns = `id, session_id, course_id, assignment_id, question, options, correct_index, explanation, saved, student_answer, is_correct, created_at`

func (r *PostgresConceptCheckRepository) GetConceptCheckByID(id string) (*models.ConceptCheck, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM courseta.concept_checks
		WHERE id = $1`, conceptCheckColumns)

	check, err := scanConceptCheck(r.db.QueryRow(query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("concept check with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get concept check: %w", err)
	}

	return check, nil
}

func (r *PostgresConceptCheckRepository) GetConceptChecksBySession(sessionID string) ([]*models.ConceptCheck, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM courseta.concept_checks
		WHERE session_id = $1
		ORDER BY created_at ASC`, conceptCheckColumns)

	return r.queryConceptChecks(query, sessionID)
}

func (r *PostgresConceptCheckRepository) GetConceptChecksByCourse(courseID string) ([]*models.ConceptCheck, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM courseta.concept_checks
		WHERE course_id = $1
		ORDER BY created_at ASC`, conceptCheckColumns)

	return r.queryConceptChecks(query, courseID)
}

func (r *PostgresConceptCheckRepository) queryConceptChecks(query string, args ...any) ([]*models.ConceptCheck, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query concept checks: %w", err)
	}
	defer rows.Close()

	checks := make([]*models.ConceptCheck, 0)
	for rows.Next() {
		check, err := scanConceptCheck(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan concept check: %w", err)
		}
		checks = append(checks, check)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over concept checks: %w", err)
	}

	return checks, nil
}

// RecordAnswer stores the student's choice exactly once; a second
// attempt on the same check is rejected.
func (r *PostgresConceptCheckRepository) RecordAnswer(id string, answer int, isCorrect bool) error {
	query := `
		UPDATE courseta.concept_checks
		SET student_answer = $1, is_correct = $2
		WHERE id = $3 AND student_answer IS NULL`

	result, err := r.db.Exec(query, answer, isCorrect, id)
	if err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("concept check with id %s not found or already answered", id)
	}

	return nil
}

func (r *PostgresConceptCheckRepository) UpdateConceptCheckSaved(id string, saved bool) error {
	query := "UPDATE courseta.concept_checks SET saved = $1 WHERE id = $2"

	result, err := r.db.Exec(query, saved, id)
	if err != nil {
		return fmt.Errorf("failed to update concept check: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("concept check with id %s not found", id)
	}

	return nil
}

func scanConceptCheck(scan func(dest ...any) error) (*models.ConceptCheck, error) {
	check := &models.ConceptCheck{}
	var optionsJSON []byte

	err := scan(&check.ID, &check.SessionID, &check.CourseID, &check.AssignmentID,
		&check.Question, &optionsJSON, &check.CorrectIndex, &check.Explanation,
		&check.Saved, &check.StudentAnswer, &check.IsCorrect, &check.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(optionsJSON, &check.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}

	return check, nil
}

func (r *PostgresConceptCheckRepository) Close() error {
	return r.db.Close()
}
