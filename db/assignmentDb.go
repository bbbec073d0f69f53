package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"courseta/models"

	_ "github.com/lib/pq"
)

type AssignmentRepository interface {
	CreateAssignment(assignment *models.Assignment) error
	GetAssignmentByID(id string) (*models.Assignment, error)
	GetAssignmentsByCourse(courseID string) ([]*models.Assignment, error)
	UpdateAssignment(id string, updates map[string]any) error
	DeleteAssignment(id string) error
	Close() error
}

type PostgresAssignmentRepository struct {
	db *sql.DB
}

func NewPostgresAssignmentRepository(databaseURL string) (*PostgresAssignmentRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresAssignmentRepository{db: db}, nil
}

func (r *PostgresAssignmentRepository) CreateAssignment(assignment *models.Assignment) error {
	faqJSON, err := json.Marshal(assignment.FAQ)
	if err != nil {
		return fmt.Errorf("failed to marshal faq: %w", err)
	}

	var overridesJSON []byte
	if assignment.Overrides != nil {
		overridesJSON, err = json.Marshal(assignment.Overrides)
		if err != nil {
			return fmt.Errorf("failed to marshal overrides: %w", err)
		}
	}

	query := `
		INSERT INTO courseta.assignments (course_id, title, prompt, staff_notes, faq, overrides)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	row := r.db.QueryRow(query, assignment.CourseID, assignment.Title, assignment.Prompt,
		assignment.StaffNotes, faqJSON, overridesJSON)

	if err := row.Scan(&assignment.ID, &assignment.CreatedAt); err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	return nil
}

func (r *PostgresAssignmentRepository) GetAssignmentByID(id string) (*models.Assignment, error) {
	query := `
		SELECT id, course_id, title, prompt, staff_notes, faq, overrides, created_at
		FROM courseta.assignments
		WHERE id = $1`

	row := r.db.QueryRow(query, id)
	assignment, err := scanAssignment(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("assignment with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return assignment, nil
}

func (r *PostgresAssignmentRepository) GetAssignmentsByCourse(courseID string) ([]*models.Assignment, error) {
	query := `
		SELECT id, course_id, title, prompt, staff_notes, faq, overrides, created_at
		FROM courseta.assignments
		WHERE course_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]*models.Assignment, 0)
	for rows.Next() {
		assignment, err := scanAssignment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over assignments: %w", err)
	}

	return assignments, nil
}

func scanAssignment(scan func(dest ...any) error) (*models.Assignment, error) {
	assignment := &models.Assignment{}
	var faqJSON []byte
	var overridesJSON []byte

	err := scan(&assignment.ID, &assignment.CourseID, &assignment.Title, &assignment.Prompt,
		&assignment.StaffNotes, &faqJSON, &overridesJSON, &assignment.CreatedAt)
	if err != nil {
		return nil, err
	}

	if len(faqJSON) > 0 {
		if err := json.Unmarshal(faqJSON, &assignment.FAQ); err != nil {
			return nil, fmt.Errorf("failed to unmarshal faq: %w", err)
		}
	}
	if len(overridesJSON) > 0 {
		assignment.Overrides = &models.PolicyOverride{}
		if err := json.Unmarshal(overridesJSON, assignment.Overrides); err != nil {
			return nil, fmt.Errorf("failed to unmarshal overrides: %w", err)
		}
	}

	return assignment, nil
}

func (r *PostgresAssignmentRepository) UpdateAssignment(id string, updates map[string]any) error {
	setClause := ""
	args := []any{}
	argIndex := 1

	for field, value := range updates {
		if setClause != "" {
			setClause += ", "
		}
		setClause += fmt.Sprintf("%s = $%d", field, argIndex)
		args = append(args, value)
		argIndex++
	}

	if setClause == "" {
		return fmt.Errorf("no updates provided")
	}

	query := fmt.Sprintf(`
		UPDATE courseta.assignments
		SET %s
		WHERE id = $%d`, setClause, argIndex)
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("assignment with id %s not found", id)
	}

	return nil
}

func (r *PostgresAssignmentRepository) DeleteAssignment(id string) error {
	query := "DELETE FROM courseta.assignments WHERE id = $1"

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("assignment with id %s not found", id)
	}

	return nil
}

func (r *PostgresAssignmentRepository) Close() error {
	return r.db.Close()
}
