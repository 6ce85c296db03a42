package services

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"wellmind-backend/internal/config"
	"wellmind-backend/pkg/logger"
)

// Mailer delivers a notification to a list of destinations. The
// returned string is the transport response recorded in the audit
// trail.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) (string, error)
}

// SMTPMailer sends alert email over SMTP
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

// NewSMTPMailer creates a mailer from SMTP configuration
func NewSMTPMailer(cfg config.SMTPConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: log.WithComponent("smtp-mailer"),
	}
}

// Send delivers one message to all destinations at once
func (m *SMTPMailer) Send(ctx context.Context, to []string, subject, body string) (string, error) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error().Err(err).Int("recipients", len(to)).Msg("failed to send email")
		return "", fmt.Errorf("smtp send failed: %w", err)
	}

	m.logger.Info().Int("recipients", len(to)).Msg("alert email sent")
	return fmt.Sprintf("email delivered to %d recipient(s)", len(to)), nil
}
