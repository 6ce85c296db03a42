package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactChannel is the delivery channel for an emergency contact
type ContactChannel string

const (
	ChannelEmail ContactChannel = "EMAIL"
	ChannelSMS   ContactChannel = "SMS"
)

// EmergencyContact is a destination a user has registered for wellness alerts
type EmergencyContact struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	Name        string         `json:"name"`
	Channel     ContactChannel `json:"channel"`
	Destination string         `json:"destination"`
	Enabled     bool           `json:"enabled"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// AlertStatus is the outcome of one alert policy evaluation
type AlertStatus string

const (
	AlertSent             AlertStatus = "SENT"
	AlertFailed           AlertStatus = "FAILED"
	AlertSkippedRateLimit AlertStatus = "SKIPPED_RATE_LIMIT"
	AlertSkippedNoConsent AlertStatus = "SKIPPED_NO_CONSENT"
	AlertSkippedNoContact AlertStatus = "SKIPPED_NO_CONTACTS"
)

// AlertEvent is the audit record of one alert policy decision. A record
// exists for every evaluated outcome that recommended an alert; analyses
// that did not recommend one produce no record at all.
type AlertEvent struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	AnalysisResultID uuid.UUID `json:"analysis_result_id"`

	RiskLevel RiskLevel      `json:"risk_level"`
	Channel   ContactChannel `json:"channel"`

	// SentTo holds the destinations actually targeted; empty unless SENT.
	SentTo []string    `json:"sent_to"`
	Status AlertStatus `json:"status"`

	// Detail holds the transport response or the skip reason.
	Detail string     `json:"detail"`
	SentAt *time.Time `json:"sent_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
