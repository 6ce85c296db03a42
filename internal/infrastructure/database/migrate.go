package database

import (
	"context"
	"fmt"
)

// schema holds the idempotent DDL for all wellmind tables
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id UUID PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	consent_alerts_enabled BOOLEAN NOT NULL DEFAULT FALSE,
	consent_accepted_at TIMESTAMPTZ,
	timezone TEXT NOT NULL DEFAULT 'UTC',
	last_alert_sent_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS emergency_contacts (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	name TEXT NOT NULL,
	channel TEXT NOT NULL,
	destination TEXT NOT NULL,
	enabled BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_emergency_contacts_user ON emergency_contacts (user_id);

CREATE TABLE IF NOT EXISTS chat_sessions (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	status TEXT NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	ended_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_chat_sessions_user ON chat_sessions (user_id, started_at DESC);

CREATE TABLE IF NOT EXISTS chat_messages (
	id UUID PRIMARY KEY,
	session_id UUID NOT NULL REFERENCES chat_sessions (id),
	sender TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages (session_id, created_at);

CREATE TABLE IF NOT EXISTS analysis_results (
	id UUID PRIMARY KEY,
	session_id UUID NOT NULL REFERENCES chat_sessions (id),
	triggering_message_id UUID NOT NULL REFERENCES chat_messages (id),
	stress_score INT NOT NULL,
	anxiety_score INT NOT NULL,
	depression_score INT NOT NULL,
	overall_score DOUBLE PRECISION NOT NULL,
	risk_level TEXT NOT NULL,
	alert_recommended BOOLEAN NOT NULL,
	rationale_short TEXT NOT NULL DEFAULT '',
	ai_message TEXT NOT NULL DEFAULT '',
	recommendations TEXT[] NOT NULL DEFAULT '{}',
	analysis_status TEXT NOT NULL,
	raw_llm_json TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_analysis_results_session ON analysis_results (session_id, created_at);

CREATE TABLE IF NOT EXISTS alert_events (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	analysis_result_id UUID NOT NULL REFERENCES analysis_results (id),
	risk_level TEXT NOT NULL,
	channel TEXT NOT NULL,
	sent_to TEXT[] NOT NULL DEFAULT '{}',
	status TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	sent_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_alert_events_user ON alert_events (user_id, created_at DESC);
`

// Migrate applies the schema. Safe to run on every startup.
func (db *PostgresDB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	db.logger.Info().Msg("database schema ready")
	return nil
}
