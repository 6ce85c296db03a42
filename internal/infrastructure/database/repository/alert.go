package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"wellmind-backend/internal/domain/models"
	"wellmind-backend/internal/infrastructure/database"
)

// AlertRepository handles alert event persistence
type AlertRepository struct {
	db database.DBTX
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db database.DBTX) *AlertRepository {
	return &AlertRepository{db: db}
}

const alertColumns = `id, user_id, analysis_result_id, risk_level, channel, sent_to, status, detail, sent_at, created_at`

// Create inserts an alert event
func (r *AlertRepository) Create(ctx context.Context, event *models.AlertEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	query := `
		INSERT INTO alert_events (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		event.ID, event.UserID, event.AnalysisResultID,
		event.RiskLevel, event.Channel, event.SentTo,
		event.Status, event.Detail, event.SentAt,
	).Scan(&event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create alert event: %w", err)
	}
	return nil
}

// ListByUser retrieves alert events for a user, most recent first
func (r *AlertRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.AlertEvent, error) {
	query := `SELECT ` + alertColumns + ` FROM alert_events WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert events: %w", err)
	}
	defer rows.Close()

	var events []models.AlertEvent
	for rows.Next() {
		var e models.AlertEvent
		err := rows.Scan(&e.ID, &e.UserID, &e.AnalysisResultID,
			&e.RiskLevel, &e.Channel, &e.SentTo,
			&e.Status, &e.Detail, &e.SentAt, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
