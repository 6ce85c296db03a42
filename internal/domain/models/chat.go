package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a chat session
type SessionStatus string

const (
	SessionActive SessionStatus = "ACTIVE"
	SessionClosed SessionStatus = "CLOSED"
)

// MessageSender identifies who authored a chat message
type MessageSender string

const (
	SenderUser MessageSender = "USER"
	SenderAI   MessageSender = "AI"
)

// ChatSession is one conversation between a user and the AI
type ChatSession struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Status    SessionStatus `json:"status"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ChatMessage is a single message in a session
type ChatMessage struct {
	ID        uuid.UUID     `json:"id"`
	SessionID uuid.UUID     `json:"session_id"`
	Sender    MessageSender `json:"sender"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
}
