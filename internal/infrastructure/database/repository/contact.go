package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"wellmind-backend/internal/domain/models"
	"wellmind-backend/internal/infrastructure/database"
)

// ContactRepository handles emergency contact persistence
type ContactRepository struct {
	db database.DBTX
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db database.DBTX) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `id, user_id, name, channel, destination, enabled, created_at, updated_at`

// Create inserts a new emergency contact
func (r *ContactRepository) Create(ctx context.Context, c *models.EmergencyContact) (*models.EmergencyContact, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO emergency_contacts (id, user_id, name, channel, destination, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + contactColumns

	return r.scanContact(r.db.QueryRow(ctx, query,
		c.ID, c.UserID, c.Name, c.Channel, c.Destination, c.Enabled, c.CreatedAt, c.UpdatedAt,
	))
}

// Update modifies an existing contact owned by the user
func (r *ContactRepository) Update(ctx context.Context, c *models.EmergencyContact) (*models.EmergencyContact, error) {
	query := `
		UPDATE emergency_contacts
		SET name = $3, channel = $4, destination = $5, enabled = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + contactColumns

	return r.scanContact(r.db.QueryRow(ctx, query,
		c.ID, c.UserID, c.Name, c.Channel, c.Destination, c.Enabled,
	))
}

// Delete removes a contact owned by the user
func (r *ContactRepository) Delete(ctx context.Context, userID, contactID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM emergency_contacts WHERE id = $1 AND user_id = $2`, contactID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// List retrieves all contacts for a user ordered by name
func (r *ContactRepository) List(ctx context.Context, userID uuid.UUID) ([]models.EmergencyContact, error) {
	query := `SELECT ` + contactColumns + ` FROM emergency_contacts WHERE user_id = $1 ORDER BY name`
	return r.queryContacts(ctx, query, userID)
}

// ListEnabledEmail retrieves the enabled email contacts for a user,
// the destination set the alert policy targets.
func (r *ContactRepository) ListEnabledEmail(ctx context.Context, userID uuid.UUID) ([]models.EmergencyContact, error) {
	query := `SELECT ` + contactColumns + `
		FROM emergency_contacts
		WHERE user_id = $1 AND enabled = TRUE AND channel = 'EMAIL'
		ORDER BY name`
	return r.queryContacts(ctx, query, userID)
}

func (r *ContactRepository) queryContacts(ctx context.Context, query string, args ...any) ([]models.EmergencyContact, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.EmergencyContact
	for rows.Next() {
		var c models.EmergencyContact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Channel, &c.Destination, &c.Enabled, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) scanContact(row pgx.Row) (*models.EmergencyContact, error) {
	var c models.EmergencyContact
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Channel, &c.Destination, &c.Enabled, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}
	return &c, nil
}
