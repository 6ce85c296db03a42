package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel is the discrete risk tier derived from the component scores
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// AnalysisStatus describes how cleanly the model output matched the schema
type AnalysisStatus string

const (
	// AnalysisOK means the model output matched the schema with no corrections
	AnalysisOK AnalysisStatus = "OK"
	// AnalysisRepaired means fields were coerced or defaulted but
	// classification still proceeded on the normalized values
	AnalysisRepaired AnalysisStatus = "REPAIRED"
	// AnalysisFailed means no usable model output existed and a safe
	// default outcome was substituted
	AnalysisFailed AnalysisStatus = "FAILED"
)

// AnalysisOutcome is the finalized result of one analysis pass over one
// user message. Created once per message, immutable thereafter.
type AnalysisOutcome struct {
	StressScore     int `json:"stress_score"`
	AnxietyScore    int `json:"anxiety_score"`
	DepressionScore int `json:"depression_score"`

	// OverallScore is the mean of the three component scores rounded to
	// one decimal place. Derived, never set independently.
	OverallScore float64   `json:"overall_score"`
	RiskLevel    RiskLevel `json:"risk_level"`

	// AlertRecommended is true iff RiskLevel is HIGH or CRITICAL.
	AlertRecommended bool `json:"alert_recommended"`

	Rationale       string   `json:"rationale_short"`
	AIMessage       string   `json:"ai_message"`
	Recommendations []string `json:"recommendations"`

	Status AnalysisStatus `json:"analysis_status"`

	// RawSource holds the original provider reply, or a truncated error
	// description on failure. Kept for audit, never re-parsed.
	RawSource string `json:"raw_llm_json"`
}

// AnalysisResult is a persisted AnalysisOutcome owned by the triggering
// message and session.
type AnalysisResult struct {
	ID                  uuid.UUID `json:"id"`
	SessionID           uuid.UUID `json:"session_id"`
	TriggeringMessageID uuid.UUID `json:"triggering_message_id"`

	AnalysisOutcome

	CreatedAt time.Time `json:"created_at"`
}
