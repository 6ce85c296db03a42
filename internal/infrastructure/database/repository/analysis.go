package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wellmind-backend/internal/domain/models"
	"wellmind-backend/internal/infrastructure/database"
)

// AnalysisRepository handles analysis result persistence and aggregates
type AnalysisRepository struct {
	db database.DBTX
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db database.DBTX) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const analysisColumns = `id, session_id, triggering_message_id, stress_score, anxiety_score, depression_score,
	overall_score, risk_level, alert_recommended, rationale_short, ai_message, recommendations,
	analysis_status, raw_llm_json, created_at`

// Create inserts an analysis result
func (r *AnalysisRepository) Create(ctx context.Context, result *models.AnalysisResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	query := `
		INSERT INTO analysis_results (` + analysisColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		result.ID, result.SessionID, result.TriggeringMessageID,
		result.StressScore, result.AnxietyScore, result.DepressionScore,
		result.OverallScore, result.RiskLevel, result.AlertRecommended,
		result.Rationale, result.AIMessage, result.Recommendations,
		result.Status, result.RawSource,
	).Scan(&result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create analysis result: %w", err)
	}
	return nil
}

// ListBySession retrieves analysis results for a session in order
func (r *AnalysisRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.AnalysisResult, error) {
	query := `SELECT ` + analysisColumns + ` FROM analysis_results WHERE session_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis results: %w", err)
	}
	defer rows.Close()

	var results []models.AnalysisResult
	for rows.Next() {
		var a models.AnalysisResult
		err := rows.Scan(&a.ID, &a.SessionID, &a.TriggeringMessageID,
			&a.StressScore, &a.AnxietyScore, &a.DepressionScore,
			&a.OverallScore, &a.RiskLevel, &a.AlertRecommended,
			&a.Rationale, &a.AIMessage, &a.Recommendations,
			&a.Status, &a.RawSource, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis result: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// DailyAverages computes per-day mean scores for a user over the last
// days days, successful analyses only.
func (r *AnalysisRepository) DailyAverages(ctx context.Context, userID uuid.UUID, days int) ([]models.DashboardPoint, error) {
	query := `
		SELECT date_trunc('day', a.created_at)::date AS day,
			AVG(a.stress_score), AVG(a.anxiety_score), AVG(a.depression_score), AVG(a.overall_score),
			COUNT(*) FILTER (WHERE a.risk_level = 'HIGH'),
			COUNT(*) FILTER (WHERE a.risk_level = 'CRITICAL'),
			COUNT(*)
		FROM analysis_results a
		JOIN chat_sessions s ON s.id = a.session_id
		WHERE s.user_id = $1
			AND a.analysis_status <> 'FAILED'
			AND a.created_at >= NOW() - make_interval(days => $2)
		GROUP BY day
		ORDER BY day`

	rows, err := r.db.Query(ctx, query, userID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily averages: %w", err)
	}
	defer rows.Close()

	var points []models.DashboardPoint
	for rows.Next() {
		var p models.DashboardPoint
		var day time.Time
		err := rows.Scan(&day, &p.StressAvg, &p.AnxietyAvg, &p.DepressionAvg, &p.OverallAvg,
			&p.HighCount, &p.CriticalCount, &p.Total)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily average: %w", err)
		}
		p.Date = day.Format("2006-01-02")
		points = append(points, p)
	}
	return points, rows.Err()
}

// Summary holds window-wide aggregates for a user's dashboard
type Summary struct {
	StressAvg     float64
	AnxietyAvg    float64
	DepressionAvg float64
	OverallAvg    float64
	SessionCount  int
}

// Summarize computes window-wide averages and the number of distinct
// sessions with successful analyses.
func (r *AnalysisRepository) Summarize(ctx context.Context, userID uuid.UUID, days int) (*Summary, error) {
	query := `
		SELECT COALESCE(AVG(a.stress_score), 0), COALESCE(AVG(a.anxiety_score), 0),
			COALESCE(AVG(a.depression_score), 0), COALESCE(AVG(a.overall_score), 0),
			COUNT(DISTINCT a.session_id)
		FROM analysis_results a
		JOIN chat_sessions s ON s.id = a.session_id
		WHERE s.user_id = $1
			AND a.analysis_status <> 'FAILED'
			AND a.created_at >= NOW() - make_interval(days => $2)`

	var sum Summary
	err := r.db.QueryRow(ctx, query, userID, days).
		Scan(&sum.StressAvg, &sum.AnxietyAvg, &sum.DepressionAvg, &sum.OverallAvg, &sum.SessionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize analyses: %w", err)
	}
	return &sum, nil
}

// RecentRecommendations returns the recommendation lists of the latest
// successful analyses, newest first.
func (r *AnalysisRepository) RecentRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([][]string, error) {
	query := `
		SELECT a.recommendations
		FROM analysis_results a
		JOIN chat_sessions s ON s.id = a.session_id
		WHERE s.user_id = $1 AND a.analysis_status <> 'FAILED'
		ORDER BY a.created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var lists [][]string
	for rows.Next() {
		var recs []string
		if err := rows.Scan(&recs); err != nil {
			return nil, fmt.Errorf("failed to scan recommendations: %w", err)
		}
		lists = append(lists, recs)
	}
	return lists, rows.Err()
}

// Latest retrieves the most recent successful analysis outcome for a user
func (r *AnalysisRepository) Latest(ctx context.Context, userID uuid.UUID) (*models.LatestOutcome, error) {
	query := `
		SELECT a.overall_score, a.risk_level, a.created_at
		FROM analysis_results a
		JOIN chat_sessions s ON s.id = a.session_id
		WHERE s.user_id = $1 AND a.analysis_status <> 'FAILED'
		ORDER BY a.created_at DESC
		LIMIT 1`

	var latest models.LatestOutcome
	err := r.db.QueryRow(ctx, query, userID).Scan(&latest.OverallScore, &latest.RiskLevel, &latest.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &latest, nil
}

// RiskCounts returns per-level analysis counts for a user over the window
func (r *AnalysisRepository) RiskCounts(ctx context.Context, userID uuid.UUID, days int) (map[models.RiskLevel]int, error) {
	query := `
		SELECT a.risk_level, COUNT(*)
		FROM analysis_results a
		JOIN chat_sessions s ON s.id = a.session_id
		WHERE s.user_id = $1
			AND a.analysis_status <> 'FAILED'
			AND a.created_at >= NOW() - make_interval(days => $2)
		GROUP BY a.risk_level`

	rows, err := r.db.Query(ctx, query, userID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.RiskLevel]int)
	for rows.Next() {
		var level models.RiskLevel
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, fmt.Errorf("failed to scan risk count: %w", err)
		}
		counts[level] = n
	}
	return counts, rows.Err()
}
