package streaming

import (
	"testing"

	"github.com/google/uuid"

	"wellmind-backend/internal/domain/models"
)

func TestSubscriptionMatches(t *testing.T) {
	userA := uuid.New().String()
	userB := uuid.New().String()
	sessionA := uuid.New().String()
	sessionB := uuid.New().String()

	event := &RiskEvent{
		UserID:    userA,
		SessionID: sessionA,
		RiskLevel: models.RiskHigh,
	}

	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{"empty subscription matches everything", Subscription{}, true},
		{"same user", Subscription{UserID: userA}, true},
		{"other user", Subscription{UserID: userB}, false},
		{"min level below event", Subscription{MinLevel: models.RiskMedium}, true},
		{"min level equal", Subscription{MinLevel: models.RiskHigh}, true},
		{"min level above event", Subscription{MinLevel: models.RiskCritical}, false},
		{"same session", Subscription{SessionID: sessionA}, true},
		{"other session", Subscription{SessionID: sessionB}, false},
		{"all filters pass", Subscription{UserID: userA, MinLevel: models.RiskLow, SessionID: sessionA}, true},
		{"user passes but session fails", Subscription{UserID: userA, SessionID: sessionB}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.Matches(event); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewRiskEvent(t *testing.T) {
	userID := uuid.New()
	result := &models.AnalysisResult{
		ID:        uuid.New(),
		SessionID: uuid.New(),
		AnalysisOutcome: models.AnalysisOutcome{
			StressScore:      8,
			AnxietyScore:     7,
			DepressionScore:  6,
			OverallScore:     7.0,
			RiskLevel:        models.RiskHigh,
			AlertRecommended: true,
		},
	}

	event := NewRiskEvent(userID, result)

	if event.Type != EventTypeAnalysisResult {
		t.Errorf("type = %s", event.Type)
	}
	if event.UserID != userID.String() {
		t.Errorf("user_id = %s, want %s", event.UserID, userID)
	}
	if event.SessionID != result.SessionID.String() {
		t.Errorf("session_id = %s", event.SessionID)
	}
	if event.AnalysisResultID != result.ID.String() {
		t.Errorf("analysis_result_id = %s", event.AnalysisResultID)
	}
	if event.RiskLevel != models.RiskHigh || event.OverallScore != 7.0 {
		t.Errorf("outcome not carried over: %+v", event)
	}
	if !event.AlertRecommended {
		t.Error("alert_recommended should be carried over")
	}
	if event.ID == "" || event.Timestamp.IsZero() {
		t.Error("event must get an id and timestamp")
	}
}
