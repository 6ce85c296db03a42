package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds per-user wellness settings and alert consent state.
// LastAlertSentAt is mutated only by a successful alert send.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`

	ConsentAlertsEnabled bool       `json:"consent_alerts_enabled"`
	ConsentAcceptedAt    *time.Time `json:"consent_accepted_at,omitempty"`
	Timezone             string     `json:"timezone"`
	LastAlertSentAt      *time.Time `json:"last_alert_sent_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
