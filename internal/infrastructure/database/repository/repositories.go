package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"wellmind-backend/internal/infrastructure/database"
)

// Repositories bundles all persistence access
type Repositories struct {
	Profiles *ProfileRepository
	Contacts *ContactRepository
	Chat     *ChatRepository
	Analyses *AnalysisRepository
	Alerts   *AlertRepository

	db database.DBTX
}

// NewRepositories creates all repositories bound to the given executor
// (normally the pool)
func NewRepositories(db database.DBTX) *Repositories {
	return &Repositories{
		Profiles: NewProfileRepository(db),
		Contacts: NewContactRepository(db),
		Chat:     NewChatRepository(db),
		Analyses: NewAnalysisRepository(db),
		Alerts:   NewAlertRepository(db),
		db:       db,
	}
}

// Ping verifies connectivity with a trivial query
func (r *Repositories) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRow(ctx, "SELECT 1").Scan(&one)
}

// WithTx returns a copy of the repositories bound to a transaction, so
// a multi-row commit can go through the same repository methods.
func (r *Repositories) WithTx(tx pgx.Tx) *Repositories {
	return NewRepositories(tx)
}
