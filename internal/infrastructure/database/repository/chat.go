package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wellmind-backend/internal/domain/models"
	"wellmind-backend/internal/infrastructure/database"
)

// ChatRepository handles chat session and message persistence
type ChatRepository struct {
	db database.DBTX
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db database.DBTX) *ChatRepository {
	return &ChatRepository{db: db}
}

const sessionColumns = `id, user_id, status, started_at, ended_at, created_at, updated_at`
const messageColumns = `id, session_id, sender, content, created_at`

// CreateSession starts a new active session for a user
func (r *ChatRepository) CreateSession(ctx context.Context, userID uuid.UUID) (*models.ChatSession, error) {
	now := time.Now()
	query := `
		INSERT INTO chat_sessions (id, user_id, status, started_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4, $4)
		RETURNING ` + sessionColumns

	return r.scanSession(r.db.QueryRow(ctx, query, uuid.New(), userID, models.SessionActive, now))
}

// GetSession retrieves a session owned by the user
func (r *ChatRepository) GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*models.ChatSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE id = $1 AND user_id = $2`
	return r.scanSession(r.db.QueryRow(ctx, query, sessionID, userID))
}

// ListSessions retrieves all sessions for a user, most recent first
func (r *ChatRepository) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.ChatSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE user_id = $1 ORDER BY started_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.ChatSession
	for rows.Next() {
		var s models.ChatSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Status, &s.StartedAt, &s.EndedAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// CloseSession marks a session closed; closing a closed session is a no-op
func (r *ChatRepository) CloseSession(ctx context.Context, sessionID, userID uuid.UUID) (*models.ChatSession, error) {
	query := `
		UPDATE chat_sessions
		SET status = $3, ended_at = COALESCE(ended_at, NOW()), updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + sessionColumns

	return r.scanSession(r.db.QueryRow(ctx, query, sessionID, userID, models.SessionClosed))
}

// CreateMessage inserts a chat message
func (r *ChatRepository) CreateMessage(ctx context.Context, sessionID uuid.UUID, sender models.MessageSender, content string) (*models.ChatMessage, error) {
	query := `
		INSERT INTO chat_messages (id, session_id, sender, content, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING ` + messageColumns

	var m models.ChatMessage
	err := r.db.QueryRow(ctx, query, uuid.New(), sessionID, sender, content).
		Scan(&m.ID, &m.SessionID, &m.Sender, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &m, nil
}

// ListMessages retrieves all messages in a session in order
func (r *ChatRepository) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	query := `SELECT ` + messageColumns + ` FROM chat_messages WHERE session_id = $1 ORDER BY created_at`
	return r.queryMessages(ctx, query, sessionID)
}

// RecentMessages retrieves the last n messages of a session in
// chronological order, for provider context.
func (r *ChatRepository) RecentMessages(ctx context.Context, sessionID uuid.UUID, n int) ([]models.ChatMessage, error) {
	query := `
		SELECT ` + messageColumns + ` FROM (
			SELECT ` + messageColumns + ` FROM chat_messages
			WHERE session_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at`
	return r.queryMessages(ctx, query, sessionID, n)
}

func (r *ChatRepository) queryMessages(ctx context.Context, query string, args ...any) ([]models.ChatMessage, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *ChatRepository) scanSession(row pgx.Row) (*models.ChatSession, error) {
	var s models.ChatSession
	err := row.Scan(&s.ID, &s.UserID, &s.Status, &s.StartedAt, &s.EndedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	return &s, nil
}
