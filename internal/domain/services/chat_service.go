package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wellmind-backend/internal/domain/models"
	"wellmind-backend/internal/domain/services/ai"
	"wellmind-backend/internal/infrastructure/database"
	"wellmind-backend/internal/infrastructure/database/repository"
	"wellmind-backend/pkg/logger"
)

var (
	// ErrSessionNotFound is returned when a session does not exist or
	// belongs to another user.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionClosed is returned when sending a message to a closed session
	ErrSessionClosed = errors.New("session is closed")
	// ErrEmptyMessage is returned when the message content is blank
	ErrEmptyMessage = errors.New("message content is empty")
)

// RiskPublisher delivers committed analysis outcomes to live subscribers
type RiskPublisher interface {
	PublishRisk(ctx context.Context, userID uuid.UUID, result *models.AnalysisResult)
	PublishAlert(ctx context.Context, userID uuid.UUID, result *models.AnalysisResult)
}

// TurnResult is the outcome of one committed chat turn
type TurnResult struct {
	UserMessage *models.ChatMessage    `json:"user_message"`
	AIMessage   *models.ChatMessage    `json:"ai_message"`
	Analysis    *models.AnalysisResult `json:"analysis"`
	Alert       *models.AlertEvent     `json:"alert,omitempty"`
}

// ChatService orchestrates chat sessions and the analysis of each turn
type ChatService struct {
	db            *database.PostgresDB
	repos         *repository.Repositories
	analyzer      *ai.Analyzer
	policy        *AlertPolicy
	publisher     RiskPublisher
	commitRetries int
	logger        *logger.Logger
}

// NewChatService creates a new chat service
func NewChatService(db *database.PostgresDB, repos *repository.Repositories, analyzer *ai.Analyzer, policy *AlertPolicy, publisher RiskPublisher, commitRetries int, log *logger.Logger) *ChatService {
	return &ChatService{
		db:            db,
		repos:         repos,
		analyzer:      analyzer,
		policy:        policy,
		publisher:     publisher,
		commitRetries: commitRetries,
		logger:        log.WithComponent("chat_service"),
	}
}

// StartSession opens a new active session for the user
func (s *ChatService) StartSession(ctx context.Context, userID uuid.UUID) (*models.ChatSession, error) {
	return s.repos.Chat.CreateSession(ctx, userID)
}

// ListSessions returns the user's sessions, most recent first
func (s *ChatService) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.ChatSession, error) {
	return s.repos.Chat.ListSessions(ctx, userID)
}

// SessionDetail bundles a session with its transcript and analyses
type SessionDetail struct {
	Session  *models.ChatSession     `json:"session"`
	Messages []models.ChatMessage    `json:"messages"`
	Analyses []models.AnalysisResult `json:"analyses"`
}

// GetSessionDetail returns a session with its messages and analysis history
func (s *ChatService) GetSessionDetail(ctx context.Context, sessionID, userID uuid.UUID) (*SessionDetail, error) {
	session, err := s.repos.Chat.GetSession(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	messages, err := s.repos.Chat.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	analyses, err := s.repos.Analyses.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{Session: session, Messages: messages, Analyses: analyses}, nil
}

// CloseSession marks the session closed. Closing an already closed
// session succeeds without changing ended_at.
func (s *ChatService) CloseSession(ctx context.Context, sessionID, userID uuid.UUID) (*models.ChatSession, error) {
	session, err := s.repos.Chat.CloseSession(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// SendMessage runs one chat turn: analyze the user's text against recent
// session context, then commit the user message, AI reply, analysis
// result and any alert decision atomically. The provider is called once,
// before the transaction, so commit retries never repeat it.
func (s *ChatService) SendMessage(ctx context.Context, sessionID, userID uuid.UUID, content string) (*TurnResult, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}

	session, err := s.repos.Chat.GetSession(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.Status != models.SessionActive {
		return nil, ErrSessionClosed
	}

	recent, err := s.repos.Chat.RecentMessages(ctx, sessionID, ai.MaxContextTurns)
	if err != nil {
		return nil, err
	}
	turns := make([]ai.Turn, 0, len(recent))
	for _, m := range recent {
		role := "user"
		if m.Sender == models.SenderAI {
			role = "assistant"
		}
		turns = append(turns, ai.Turn{Role: role, Content: m.Content})
	}

	outcome := s.analyzer.AnalyzeText(ctx, content, turns)

	var result TurnResult
	err = commitWithRetry(ctx, s.commitRetries, func() error {
		result = TurnResult{}
		return s.db.WithTx(ctx, func(tx pgx.Tx) error {
			return s.commitTurn(ctx, tx, session, userID, content, outcome, &result)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to commit chat turn: %w", err)
	}

	s.logger.WithUserID(userID.String()).WithSessionID(sessionID.String()).Info().
		Str("risk_level", string(result.Analysis.RiskLevel)).
		Str("status", string(result.Analysis.Status)).
		Bool("alert_recommended", result.Analysis.AlertRecommended).
		Msg("chat turn committed")

	if s.publisher != nil {
		s.publisher.PublishRisk(ctx, userID, result.Analysis)
		if result.Alert != nil && result.Alert.Status == models.AlertSent {
			s.publisher.PublishAlert(ctx, userID, result.Analysis)
		}
	}
	return &result, nil
}

func (s *ChatService) commitTurn(ctx context.Context, tx pgx.Tx, session *models.ChatSession, userID uuid.UUID, content string, outcome models.AnalysisOutcome, result *TurnResult) error {
	repos := s.repos.WithTx(tx)

	userMsg, err := repos.Chat.CreateMessage(ctx, session.ID, models.SenderUser, content)
	if err != nil {
		return err
	}
	aiMsg, err := repos.Chat.CreateMessage(ctx, session.ID, models.SenderAI, outcome.AIMessage)
	if err != nil {
		return err
	}

	analysis := &models.AnalysisResult{
		SessionID:           session.ID,
		TriggeringMessageID: userMsg.ID,
		AnalysisOutcome:     outcome,
	}
	if err := repos.Analyses.Create(ctx, analysis); err != nil {
		return err
	}

	result.UserMessage = userMsg
	result.AIMessage = aiMsg
	result.Analysis = analysis

	if !outcome.AlertRecommended {
		return nil
	}

	// Row lock serializes concurrent turns so the rate limit window is
	// read and advanced consistently.
	profile, err := repos.Profiles.GetForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if profile, err = repos.Profiles.GetOrCreate(ctx, userID); err != nil {
				return err
			}
		} else {
			return err
		}
	}

	contacts, err := repos.Contacts.ListEnabledEmail(ctx, userID)
	if err != nil {
		return err
	}

	event := s.policy.Evaluate(ctx, profile, contacts, analysis)
	if event == nil {
		return nil
	}
	if err := repos.Alerts.Create(ctx, event); err != nil {
		return err
	}
	if event.Status == models.AlertSent && event.SentAt != nil {
		if err := repos.Profiles.SetLastAlertSentAt(ctx, userID, *event.SentAt); err != nil {
			return err
		}
	}
	result.Alert = event
	return nil
}
