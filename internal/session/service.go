// internal/session/service.go
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	apperrors "docgen-service/internal/common/errors"
	"docgen-service/internal/common/logger"
)

// Session is a saved template editing session: a template name plus the
// payload the caller was working with, retrievable later by id.
type Session struct {
	ID           string                 `json:"sessionId"`
	TemplateName string                 `json:"templateName"`
	Data         map[string]interface{} `json:"data"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// Service persists template sessions in PostgreSQL.
type Service struct {
	db     *sql.DB
	logger logger.Logger
}

func NewService(db *sql.DB, log logger.Logger) *Service {
	return &Service{db: db, logger: log}
}

// EnsureSchema creates the template_sessions table if it does not exist.
// Called once at startup when sessions are enabled.
func (s *Service) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS template_sessions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			template_name TEXT NOT NULL,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure template_sessions schema: %w", err)
	}
	return nil
}

// Create stores a session and returns the database-generated id.
func (s *Service) Create(ctx context.Context, templateName string, data map[string]interface{}) (string, error) {
	if templateName == "" {
		return "", apperrors.NewInvalidRequestError("templateName is required")
	}
	if data == nil {
		return "", apperrors.NewInvalidRequestError("data is required")
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return "", apperrors.NewInvalidRequestError(fmt.Sprintf("session data is not serializable: %v", err))
	}

	var id string
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO template_sessions (template_name, data) VALUES ($1, $2) RETURNING id`,
		templateName, encoded,
	).Scan(&id)
	if err != nil {
		return "", apperrors.NewSessionSaveFailedError(err)
	}

	s.logger.Info("template session saved", map[string]interface{}{
		"sessionId": id,
		"template":  templateName,
	})
	return id, nil
}

// Get retrieves a session by id.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	var (
		sess    Session
		encoded []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, template_name, data, created_at FROM template_sessions WHERE id = $1`,
		id,
	).Scan(&sess.ID, &sess.TemplateName, &encoded, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewSessionNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("failed to load session %s: %w", id, err))
	}

	if err := json.Unmarshal(encoded, &sess.Data); err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("session %s has corrupt data: %w", id, err))
	}
	return &sess, nil
}
