package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"courseta/models"

	_ "github.com/lib/pq"
)

type CourseRepository interface {
	CreateCourse(course *models.Course, config *models.BotConfig) error
	GetCourseByID(id string) (*models.Course, error)
	GetAllCourses() ([]*models.Course, error)
	GetBotConfig(courseID string) (*models.BotConfig, error)
	UpdateBotConfig(courseID string, updates map[string]any) error
	Close() error
}

type PostgresCourseRepository struct {
	db *sql.DB
}

func NewPostgresCourseRepository(databaseURL string) (*PostgresCourseRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresCourseRepository{db: db}, nil
}

// CreateCourse inserts the course and its bot config in one
// transaction so a course can never exist without a config row.
func (r *PostgresCourseRepository) CreateCourse(course *models.Course, config *models.BotConfig) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	courseQuery := `
		INSERT INTO courseta.courses (name, code, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	row := tx.QueryRow(courseQuery, course.Name, course.Code, course.Description)
	if err := row.Scan(&course.ID, &course.CreatedAt); err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	policyJSON, err := json.Marshal(config.Policy)
	if err != nil {
		return fmt.Errorf("failed to marshal policy: %w", err)
	}

	configQuery := `
		INSERT INTO courseta.bot_configs (course_id, style_preset, policy, context)
		VALUES ($1, $2, $3, $4)
		RETURNING id, updated_at`

	config.CourseID = course.ID
	row = tx.QueryRow(configQuery, course.ID, config.StylePreset, policyJSON, config.Context)
	if err := row.Scan(&config.ID, &config.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create bot config: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit course creation: %w", err)
	}

	return nil
}

func (r *PostgresCourseRepository) GetCourseByID(id string) (*models.Course, error) {
	query := `
		SELECT id, name, code, description, created_at
		FROM courseta.courses
		WHERE id = $1`

	course := &models.Course{}
	row := r.db.QueryRow(query, id)

	err := row.Scan(&course.ID, &course.Name, &course.Code, &course.Description, &course.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("course with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return course, nil
}

func (r *PostgresCourseRepository) GetAllCourses() ([]*models.Course, error) {
	query := `
		SELECT id, name, code, description, created_at
		FROM courseta.courses
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		course := &models.Course{}
		err := rows.Scan(&course.ID, &course.Name, &course.Code, &course.Description, &course.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over courses: %w", err)
	}

	return courses, nil
}

func (r *PostgresCourseRepository) GetBotConfig(courseID string) (*models.BotConfig, error) {
	query := `
		SELECT id, course_id, style_preset, policy, context, updated_at
		FROM courseta.bot_configs
		WHERE course_id = $1`

	config := &models.BotConfig{}
	var policyJSON []byte
	row := r.db.QueryRow(query, courseID)

	err := row.Scan(&config.ID, &config.CourseID, &config.StylePreset, &policyJSON, &config.Context, &config.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("bot config for course %s not found", courseID)
		}
		return nil, fmt.Errorf("failed to get bot config: %w", err)
	}

	if err := json.Unmarshal(policyJSON, &config.Policy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal policy: %w", err)
	}

	return config, nil
}

func (r *PostgresCourseRepository) UpdateBotConfig(courseID string, updates map[string]any) error {
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
		UPDATE courseta.bot_configs
		SET %s, updated_at = NOW()
		WHERE course_id = $%d`, setClause, argIndex)
	args = append(args, courseID)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update bot config: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("bot config for course %s not found", courseID)
	}

	return nil
}

func (r *PostgresCourseRepository) Close() error {
	return r.db.Close()
}
