package streaming

import (
	"time"

	"github.com/google/uuid"

	"wellmind-backend/internal/domain/models"
)

// EventType represents the type of wellness event
type EventType string

const (
	EventTypeAnalysisResult EventType = "analysis_result"
	EventTypeAlertSent      EventType = "alert_sent"
)

// RiskEvent represents a real-time analysis outcome for one user
type RiskEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`

	// Analysis outcome
	RiskLevel        models.RiskLevel `json:"risk_level"`
	OverallScore     float64          `json:"overall_score"`
	StressScore      int              `json:"stress_score"`
	AnxietyScore     int              `json:"anxiety_score"`
	DepressionScore  int              `json:"depression_score"`
	AlertRecommended bool             `json:"alert_recommended"`
	AnalysisResultID string           `json:"analysis_result_id"`
}

// NewRiskEvent creates a risk event from a committed analysis result
func NewRiskEvent(userID uuid.UUID, result *models.AnalysisResult) *RiskEvent {
	return &RiskEvent{
		ID:               uuid.New().String(),
		Type:             EventTypeAnalysisResult,
		Timestamp:        time.Now(),
		UserID:           userID.String(),
		SessionID:        result.SessionID.String(),
		RiskLevel:        result.RiskLevel,
		OverallScore:     result.OverallScore,
		StressScore:      result.StressScore,
		AnxietyScore:     result.AnxietyScore,
		DepressionScore:  result.DepressionScore,
		AlertRecommended: result.AlertRecommended,
		AnalysisResultID: result.ID.String(),
	}
}

// NewAlertEvent creates an event for a sent alert
func NewAlertEvent(userID uuid.UUID, result *models.AnalysisResult) *RiskEvent {
	event := NewRiskEvent(userID, result)
	event.Type = EventTypeAlertSent
	return event
}

// Subscription represents a client's subscription preferences. UserID is
// set from the authenticated request, never from client input.
type Subscription struct {
	UserID string `json:"-"`

	// Filter by minimum risk level (empty = all)
	MinLevel models.RiskLevel `json:"min_level,omitempty"`

	// Filter by session (empty = all sessions of the user)
	SessionID string `json:"session_id,omitempty"`
}

var riskOrder = map[models.RiskLevel]int{
	models.RiskLow:      1,
	models.RiskMedium:   2,
	models.RiskHigh:     3,
	models.RiskCritical: 4,
}

// Matches checks if an event matches the subscription filters
func (s *Subscription) Matches(event *RiskEvent) bool {
	if s.UserID != "" && event.UserID != s.UserID {
		return false
	}
	if s.MinLevel != "" && riskOrder[event.RiskLevel] < riskOrder[s.MinLevel] {
		return false
	}
	if s.SessionID != "" && event.SessionID != s.SessionID {
		return false
	}
	return true
}
