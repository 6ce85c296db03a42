package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wellmind-backend/internal/domain/models"
	"wellmind-backend/pkg/logger"
)

// AlertPolicy decides whether a completed analysis triggers a
// notification to the user's emergency contacts. Evaluate is pure with
// respect to persistence: the caller supplies the consent snapshot and
// contact list, and writes back the decision and the last-alert
// timestamp.
type AlertPolicy struct {
	mailer Mailer
	window time.Duration
	logger *logger.Logger

	// now is injectable for tests
	now func() time.Time
}

// NewAlertPolicy creates a policy engine with the given rate-limit window
func NewAlertPolicy(mailer Mailer, window time.Duration, log *logger.Logger) *AlertPolicy {
	if window == 0 {
		window = 24 * time.Hour
	}
	return &AlertPolicy{
		mailer: mailer,
		window: window,
		logger: log.WithComponent("alert-policy"),
		now:    time.Now,
	}
}

// Evaluate applies the policy branches in order; the first applicable
// branch wins and produces exactly one decision record. A nil return
// means the outcome did not recommend an alert and nothing was
// evaluated, not a skip.
func (p *AlertPolicy) Evaluate(ctx context.Context, profile *models.Profile, contacts []models.EmergencyContact, result *models.AnalysisResult) *models.AlertEvent {
	if !result.AlertRecommended {
		return nil
	}

	event := &models.AlertEvent{
		ID:               uuid.New(),
		UserID:           profile.UserID,
		AnalysisResultID: result.ID,
		RiskLevel:        result.RiskLevel,
		Channel:          models.ChannelEmail,
		SentTo:           []string{},
		CreatedAt:        p.now(),
	}

	if !profile.ConsentAlertsEnabled || profile.ConsentAcceptedAt == nil {
		event.Status = models.AlertSkippedNoConsent
		event.Detail = "Consent not enabled/accepted."
		return event
	}

	destinations := enabledEmailDestinations(contacts)
	if len(destinations) == 0 {
		event.Status = models.AlertSkippedNoContact
		event.Detail = "No enabled email contacts."
		return event
	}

	if p.rateLimited(profile, result.RiskLevel) {
		event.Status = models.AlertSkippedRateLimit
		event.Detail = fmt.Sprintf("Rate limited (%s).", p.window)
		return event
	}

	subject, body := composeAlert(displayName(profile), result.RiskLevel, p.now())
	response, err := p.mailer.Send(ctx, destinations, subject, body)
	if err != nil {
		p.logger.Error().Err(err).Str("user_id", profile.UserID.String()).Msg("alert delivery failed")
		event.Status = models.AlertFailed
		event.Detail = err.Error()
		return event
	}

	sentAt := p.now()
	event.Status = models.AlertSent
	event.SentTo = destinations
	event.Detail = response
	event.SentAt = &sentAt

	p.logger.Info().
		Str("user_id", profile.UserID.String()).
		Str("risk_level", string(result.RiskLevel)).
		Int("recipients", len(destinations)).
		Msg("wellness alert sent")

	return event
}

// rateLimited applies the 24h window to non-critical tiers. CRITICAL
// always bypasses the limit: severe risk is never suppressed by
// throttling.
func (p *AlertPolicy) rateLimited(profile *models.Profile, level models.RiskLevel) bool {
	if level == models.RiskCritical {
		return false
	}
	if profile.LastAlertSentAt == nil {
		return false
	}
	return p.now().Sub(*profile.LastAlertSentAt) < p.window
}

func enabledEmailDestinations(contacts []models.EmergencyContact) []string {
	var destinations []string
	for _, c := range contacts {
		if c.Enabled && c.Channel == models.ChannelEmail {
			destinations = append(destinations, c.Destination)
		}
	}
	return destinations
}

func displayName(profile *models.Profile) string {
	if profile.DisplayName != "" {
		return profile.DisplayName
	}
	return profile.UserID.String()
}

func composeAlert(userDisplay string, level models.RiskLevel, at time.Time) (subject, body string) {
	subject = "Automated Wellness Alert (High Risk Detected)"
	body = fmt.Sprintf(
		"This is an automated notification from WellMind.\n\n"+
			"User: %s\n"+
			"Risk Level: %s\n"+
			"Time: %s\n\n"+
			"Note: This is not a medical diagnosis. Please check in with the user if appropriate.\n",
		userDisplay, level, at.Format(time.RFC3339),
	)
	return subject, body
}
