package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wellmind-backend/internal/domain/models"
	"wellmind-backend/internal/infrastructure/database"
)

// ProfileRepository handles profile and consent persistence
type ProfileRepository struct {
	db database.DBTX
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db database.DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `user_id, display_name, consent_alerts_enabled, consent_accepted_at,
	timezone, last_alert_sent_at, created_at, updated_at`

// GetOrCreate returns the profile for a user, creating a default row on
// first access.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := r.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	now := time.Now()
	query := `
		INSERT INTO profiles (user_id, display_name, consent_alerts_enabled, timezone, created_at, updated_at)
		VALUES ($1, '', FALSE, '', $2, $2)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = profiles.updated_at
		RETURNING ` + profileColumns

	return r.scanProfile(r.db.QueryRow(ctx, query, userID, now))
}

// Get retrieves a profile by user ID
func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return r.scanProfile(r.db.QueryRow(ctx, query, userID))
}

// GetForUpdate retrieves a profile with a row lock. Used inside the
// turn transaction so the rate-limit check and the last-alert update
// are read-modify-write consistent per user.
func (r *ProfileRepository) GetForUpdate(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1 FOR UPDATE`
	return r.scanProfile(r.db.QueryRow(ctx, query, userID))
}

// UpdateConsent updates the consent flags and display name
func (r *ProfileRepository) UpdateConsent(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET display_name = $2, consent_alerts_enabled = $3, consent_accepted_at = $4,
			timezone = $5, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + profileColumns

	return r.scanProfile(r.db.QueryRow(ctx, query,
		p.UserID, p.DisplayName, p.ConsentAlertsEnabled, p.ConsentAcceptedAt, p.Timezone,
	))
}

// SetLastAlertSentAt records a successful alert send time
func (r *ProfileRepository) SetLastAlertSentAt(ctx context.Context, userID uuid.UUID, sentAt time.Time) error {
	query := `UPDATE profiles SET last_alert_sent_at = $2, updated_at = NOW() WHERE user_id = $1`
	if _, err := r.db.Exec(ctx, query, userID, sentAt); err != nil {
		return fmt.Errorf("failed to update last alert time: %w", err)
	}
	return nil
}

func (r *ProfileRepository) scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.UserID, &p.DisplayName, &p.ConsentAlertsEnabled, &p.ConsentAcceptedAt,
		&p.Timezone, &p.LastAlertSentAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &p, nil
}
