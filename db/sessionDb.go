package db

import (
	"database/sql"
	"fmt"

	"courseta/models"

	_ "github.com/lib/pq"
)

type SessionRepository interface {
	CreateSession(session *models.Session) error
	GetSessionByID(id string) (*models.Session, error)
	GetSessionsByCourse(courseID string) ([]*models.Session, error)
	CreateMessage(message *models.Message) error
	GetMessagesBySession(sessionID string) ([]*models.Message, error)
	GetMessagesByCourse(courseID string) ([]*models.Message, error)
	GetRecentUserMessages(courseID string, limit int) ([]string, error)
	UpdateMessageSaved(messageID string, saved bool) error
	Close() error
}

type PostgresSessionRepository struct {
	db *sql.DB
}

func NewPostgresSessionRepository(databaseURL string) (*PostgresSessionRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresSessionRepository{db: db}, nil
}

func (r *PostgresSessionRepository) CreateSession(session *models.Session) error {
	query := `
		INSERT INTO courseta.sessions (course_id, assignment_id, student_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	row := r.db.QueryRow(query, session.CourseID, session.AssignmentID, session.StudentID)

	if err := row.Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *PostgresSessionRepository) GetSessionByID(id string) (*models.Session, error) {
	query := `
		SELECT id, course_id, assignment_id, student_id, created_at
		FROM courseta.sessions
		WHERE id = $1`

	session := &models.Session{}
	row := r.db.QueryRow(query, id)

	err := row.Scan(&session.ID, &session.CourseID, &session.AssignmentID, &session.StudentID, &session.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (r *PostgresSessionRepository) GetSessionsByCourse(courseID string) ([]*models.Session, error) {
	query := `
		SELECT id, course_id, assignment_id, student_id, created_at
		FROM courseta.sessions
		WHERE course_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*models.Session, 0)
	for rows.Next() {
		session := &models.Session{}
		err := rows.Scan(&session.ID, &session.CourseID, &session.AssignmentID, &session.StudentID, &session.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over sessions: %w", err)
	}

	return sessions, nil
}

func (r *PostgresSessionRepository) CreateMessage(message *models.Message) error {
	query := `
		INSERT INTO courseta.messages (session_id, role, content, saved)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	row := r.db.QueryRow(query, message.SessionID, message.Role, message.Content, message.Saved)

	if err := row.Scan(&message.ID, &message.CreatedAt); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

func (r *PostgresSessionRepository) GetMessagesBySession(sessionID string) ([]*models.Message, error) {
	query := `
		SELECT id, session_id, role, content, saved, created_at
		FROM courseta.messages
		WHERE session_id = $1
		ORDER BY created_at ASC`

	return r.queryMessages(query, sessionID)
}

func (r *PostgresSessionRepository) GetMessagesByCourse(courseID string) ([]*models.Message, error) {
	query := `
		SELECT m.id, m.session_id, m.role, m.content, m.saved, m.created_at
		FROM courseta.messages m
		JOIN courseta.sessions s ON s.id = m.session_id
		WHERE s.course_id = $1
		ORDER BY m.created_at ASC`

	return r.queryMessages(query, courseID)
}

// GetRecentUserMessages returns student question text only, newest
// first, for the instructor analytics assistant. No identifiers leave
// this query.
func (r *PostgresSessionRepository) GetRecentUserMessages(courseID string, limit int) ([]string, error) {
	query := `
		SELECT m.content
		FROM courseta.messages m
		JOIN courseta.sessions s ON s.id = m.session_id
		WHERE s.course_id = $1 AND m.role = 'user'
		ORDER BY m.created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(query, courseID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent user messages: %w", err)
	}
	defer rows.Close()

	contents := make([]string, 0)
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan message content: %w", err)
		}
		contents = append(contents, content)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over message contents: %w", err)
	}

	return contents, nil
}

func (r *PostgresSessionRepository) queryMessages(query string, args ...any) ([]*models.Message, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		message := &models.Message{}
		err := rows.Scan(&message.ID, &message.SessionID, &message.Role, &message.Content, &message.Saved, &message.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over messages: %w", err)
	}

	return messages, nil
}

func (r *PostgresSessionRepository) UpdateMessageSaved(messageID string, saved bool) error {
	query := "UPDATE courseta.messages SET saved = $1 WHERE id = $2"

	result, err := r.db.Exec(query, saved, messageID)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("message with id %s not found", messageID)
	}

	return nil
}

func (r *PostgresSessionRepository) Close() error {
	return r.db.Close()
}
