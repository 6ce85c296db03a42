package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"wellmind-backend/internal/domain/models"
	"wellmind-backend/pkg/logger"
)

type fakeMailer struct {
	response string
	err      error

	sentTo  []string
	subject string
	body    string
	calls   int
}

func (m *fakeMailer) Send(_ context.Context, to []string, subject, body string) (string, error) {
	m.calls++
	m.sentTo = to
	m.subject = subject
	m.body = body
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func newTestPolicy(m Mailer, at time.Time) *AlertPolicy {
	p := NewAlertPolicy(m, 24*time.Hour, logger.NewDevelopment())
	p.now = func() time.Time { return at }
	return p
}

func consentedProfile(at time.Time) *models.Profile {
	accepted := at.Add(-30 * 24 * time.Hour)
	return &models.Profile{
		UserID:               uuid.New(),
		DisplayName:          "Jordan",
		ConsentAlertsEnabled: true,
		ConsentAcceptedAt:    &accepted,
	}
}

func emailContact(enabled bool) models.EmergencyContact {
	return models.EmergencyContact{
		ID:          uuid.New(),
		Name:        "Sam",
		Channel:     models.ChannelEmail,
		Destination: "sam@example.com",
		Enabled:     enabled,
	}
}

func highRiskResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		ID: uuid.New(),
		AnalysisOutcome: models.AnalysisOutcome{
			RiskLevel:        models.RiskHigh,
			AlertRecommended: true,
		},
	}
}

func TestEvaluateNotRecommended(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mailer := &fakeMailer{}
	p := newTestPolicy(mailer, now)

	result := highRiskResult()
	result.RiskLevel = models.RiskLow
	result.AlertRecommended = false

	event := p.Evaluate(context.Background(), consentedProfile(now), []models.EmergencyContact{emailContact(true)}, result)
	if event != nil {
		t.Fatalf("event = %+v, want nil for a non-recommended outcome", event)
	}
	if mailer.calls != 0 {
		t.Errorf("mailer called %d times, want 0", mailer.calls)
	}
}

func TestEvaluateNoConsent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*models.Profile)
	}{
		{"consent disabled", func(p *models.Profile) { p.ConsentAlertsEnabled = false }},
		{"consent never accepted", func(p *models.Profile) { p.ConsentAcceptedAt = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &fakeMailer{}
			policy := newTestPolicy(mailer, now)
			profile := consentedProfile(now)
			tt.mutate(profile)

			event := policy.Evaluate(context.Background(), profile, []models.EmergencyContact{emailContact(true)}, highRiskResult())
			if event == nil {
				t.Fatal("expected a decision record")
			}
			if event.Status != models.AlertSkippedNoConsent {
				t.Errorf("status = %s, want %s", event.Status, models.AlertSkippedNoConsent)
			}
			if event.Detail != "Consent not enabled/accepted." {
				t.Errorf("detail = %q", event.Detail)
			}
			if mailer.calls != 0 {
				t.Errorf("mailer called %d times, want 0", mailer.calls)
			}
		})
	}
}

func TestEvaluateNoContacts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mailer := &fakeMailer{}
	p := newTestPolicy(mailer, now)

	smsOnly := models.EmergencyContact{
		ID:          uuid.New(),
		Name:        "Pat",
		Channel:     models.ChannelSMS,
		Destination: "+15550100",
		Enabled:     true,
	}
	contacts := []models.EmergencyContact{smsOnly, emailContact(false)}

	event := p.Evaluate(context.Background(), consentedProfile(now), contacts, highRiskResult())
	if event == nil {
		t.Fatal("expected a decision record")
	}
	if event.Status != models.AlertSkippedNoContact {
		t.Errorf("status = %s, want %s", event.Status, models.AlertSkippedNoContact)
	}
	if event.Detail != "No enabled email contacts." {
		t.Errorf("detail = %q", event.Detail)
	}
	if mailer.calls != 0 {
		t.Errorf("mailer called %d times, want 0", mailer.calls)
	}
}

func TestEvaluateConsentCheckedBeforeContacts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p := newTestPolicy(&fakeMailer{}, now)

	profile := consentedProfile(now)
	profile.ConsentAlertsEnabled = false

	event := p.Evaluate(context.Background(), profile, nil, highRiskResult())
	if event == nil {
		t.Fatal("expected a decision record")
	}
	if event.Status != models.AlertSkippedNoConsent {
		t.Errorf("status = %s, want consent to win over missing contacts", event.Status)
	}
}

func TestEvaluateRateLimited(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mailer := &fakeMailer{}
	p := newTestPolicy(mailer, now)

	profile := consentedProfile(now)
	lastSent := now.Add(-6 * time.Hour)
	profile.LastAlertSentAt = &lastSent

	event := p.Evaluate(context.Background(), profile, []models.EmergencyContact{emailContact(true)}, highRiskResult())
	if event == nil {
		t.Fatal("expected a decision record")
	}
	if event.Status != models.AlertSkippedRateLimit {
		t.Errorf("status = %s, want %s", event.Status, models.AlertSkippedRateLimit)
	}
	if !strings.Contains(event.Detail, "Rate limited") {
		t.Errorf("detail = %q", event.Detail)
	}
	if mailer.calls != 0 {
		t.Errorf("mailer called %d times, want 0", mailer.calls)
	}
}

func TestEvaluateWindowExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mailer := &fakeMailer{response: "queued"}
	p := newTestPolicy(mailer, now)

	profile := consentedProfile(now)
	lastSent := now.Add(-25 * time.Hour)
	profile.LastAlertSentAt = &lastSent

	event := p.Evaluate(context.Background(), profile, []models.EmergencyContact{emailContact(true)}, highRiskResult())
	if event.Status != models.AlertSent {
		t.Fatalf("status = %s, want %s", event.Status, models.AlertSent)
	}
	if mailer.calls != 1 {
		t.Errorf("mailer called %d times, want 1", mailer.calls)
	}
}

func TestEvaluateCriticalBypassesRateLimit(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mailer := &fakeMailer{response: "queued"}
	p := newTestPolicy(mailer, now)

	profile := consentedProfile(now)
	lastSent := now.Add(-1 * time.Hour)
	profile.LastAlertSentAt = &lastSent

	result := highRiskResult()
	result.RiskLevel = models.RiskCritical

	event := p.Evaluate(context.Background(), profile, []models.EmergencyContact{emailContact(true)}, result)
	if event.Status != models.AlertSent {
		t.Fatalf("status = %s, want CRITICAL to bypass the rate limit", event.Status)
	}
	if mailer.calls != 1 {
		t.Errorf("mailer called %d times, want 1", mailer.calls)
	}
}

func TestEvaluateSent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mailer := &fakeMailer{response: "email delivered to 2 recipient(s)"}
	p := newTestPolicy(mailer, now)

	profile := consentedProfile(now)
	second := emailContact(true)
	second.Destination = "alex@example.com"
	contacts := []models.EmergencyContact{emailContact(true), second}
	result := highRiskResult()

	event := p.Evaluate(context.Background(), profile, contacts, result)
	if event == nil {
		t.Fatal("expected a decision record")
	}
	if event.Status != models.AlertSent {
		t.Fatalf("status = %s, want %s", event.Status, models.AlertSent)
	}
	if len(event.SentTo) != 2 {
		t.Errorf("sent_to = %v, want both enabled destinations", event.SentTo)
	}
	if event.Detail != mailer.response {
		t.Errorf("detail = %q, want the transport response", event.Detail)
	}
	if event.SentAt == nil || !event.SentAt.Equal(now) {
		t.Errorf("sent_at = %v, want %v", event.SentAt, now)
	}
	if event.UserID != profile.UserID {
		t.Errorf("user_id = %s, want %s", event.UserID, profile.UserID)
	}
	if event.AnalysisResultID != result.ID {
		t.Errorf("analysis_result_id = %s, want %s", event.AnalysisResultID, result.ID)
	}
	if event.Channel != models.ChannelEmail {
		t.Errorf("channel = %s", event.Channel)
	}
	if mailer.subject != "Automated Wellness Alert (High Risk Detected)" {
		t.Errorf("subject = %q", mailer.subject)
	}
	if !strings.Contains(mailer.body, "User: Jordan") {
		t.Errorf("body missing display name:\n%s", mailer.body)
	}
	if !strings.Contains(mailer.body, "Risk Level: HIGH") {
		t.Errorf("body missing risk level:\n%s", mailer.body)
	}
	if !strings.Contains(mailer.body, "not a medical diagnosis") {
		t.Errorf("body missing the disclaimer:\n%s", mailer.body)
	}
}

func TestEvaluateSendFailure(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mailer := &fakeMailer{err: errors.New("smtp send failed: connection refused")}
	p := newTestPolicy(mailer, now)

	event := p.Evaluate(context.Background(), consentedProfile(now), []models.EmergencyContact{emailContact(true)}, highRiskResult())
	if event == nil {
		t.Fatal("expected a decision record")
	}
	if event.Status != models.AlertFailed {
		t.Fatalf("status = %s, want %s", event.Status, models.AlertFailed)
	}
	if !strings.Contains(event.Detail, "connection refused") {
		t.Errorf("detail = %q", event.Detail)
	}
	if len(event.SentTo) != 0 {
		t.Errorf("sent_to = %v, want empty on failure", event.SentTo)
	}
	if event.SentAt != nil {
		t.Errorf("sent_at = %v, want nil on failure", event.SentAt)
	}
}

func TestEvaluateFallsBackToUserIDWhenNoDisplayName(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	mailer := &fakeMailer{response: "queued"}
	p := newTestPolicy(mailer, now)

	profile := consentedProfile(now)
	profile.DisplayName = ""

	event := p.Evaluate(context.Background(), profile, []models.EmergencyContact{emailContact(true)}, highRiskResult())
	if event.Status != models.AlertSent {
		t.Fatalf("status = %s", event.Status)
	}
	if !strings.Contains(mailer.body, "User: "+profile.UserID.String()) {
		t.Errorf("body should identify the user by id:\n%s", mailer.body)
	}
}
