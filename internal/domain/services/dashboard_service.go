package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"wellmind-backend/internal/domain/models"
	"wellmind-backend/internal/domain/services/ai"
	"wellmind-backend/internal/infrastructure/cache"
	"wellmind-backend/internal/infrastructure/database/repository"
	"wellmind-backend/pkg/logger"
)

const (
	defaultRangeDays   = 30
	maxRangeDays       = 365
	maxRecommendations = 6
)

// DashboardService aggregates analysis history into per-user trend metrics
type DashboardService struct {
	analyses *repository.AnalysisRepository
	cache    *cache.RedisCache
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewDashboardService creates a new dashboard service. The cache is
// optional; without it every request hits Postgres.
func NewDashboardService(analyses *repository.AnalysisRepository, c *cache.RedisCache, ttl time.Duration, log *logger.Logger) *DashboardService {
	return &DashboardService{
		analyses: analyses,
		cache:    c,
		cacheTTL: ttl,
		logger:   log.WithComponent("dashboard_service"),
	}
}

// Metrics computes the dashboard payload for a user over the given
// window in days, clamped to at most a year. A missing window uses the
// default.
func (s *DashboardService) Metrics(ctx context.Context, userID uuid.UUID, days int) (*models.DashboardMetrics, error) {
	days = clampRangeDays(days)

	if s.cache != nil {
		var cached models.DashboardMetrics
		err := s.cache.GetCachedDashboard(ctx, userID.String(), days, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("dashboard cache read failed")
		}
	}

	metrics, err := s.build(ctx, userID, days)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheDashboard(ctx, userID.String(), days, metrics, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("dashboard cache write failed")
		}
	}
	return metrics, nil
}

// Invalidate drops cached dashboards for a user after new analyses land
func (s *DashboardService) Invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDashboard(ctx, userID.String()); err != nil {
		s.logger.Warn().Err(err).Msg("dashboard cache invalidation failed")
	}
}

func (s *DashboardService) build(ctx context.Context, userID uuid.UUID, days int) (*models.DashboardMetrics, error) {
	points, err := s.analyses.DailyAverages(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	summary, err := s.analyses.Summarize(ctx, userID, days)
	if err != nil {
		return nil, err
	}

	metrics := &models.DashboardMetrics{
		RangeDays:       days,
		Points:          points,
		TotalSessions:   summary.SessionCount,
		AvgOverallScore: round1(summary.OverallAvg),
	}
	metrics.AvgMetrics.Stress = round1(summary.StressAvg)
	metrics.AvgMetrics.Anxiety = round1(summary.AnxietyAvg)
	metrics.AvgMetrics.Depression = round1(summary.DepressionAvg)

	if summary.SessionCount > 0 {
		_, level := ai.Classify(
			int(math.Round(summary.StressAvg)),
			int(math.Round(summary.AnxietyAvg)),
			int(math.Round(summary.DepressionAvg)),
		)
		metrics.AvgRiskLevel = level
	}

	counts, err := s.analyses.RiskCounts(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	metrics.RiskCounts = counts
	metrics.MostCommonRiskLevel = mostCommonLevel(counts)

	latest, err := s.analyses.Latest(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	metrics.Latest = latest

	lists, err := s.analyses.RecentRecommendations(ctx, userID, 3)
	if err != nil {
		return nil, err
	}
	metrics.RecentRecommendations = dedupeRecommendations(lists, maxRecommendations)

	return metrics, nil
}

// dedupeRecommendations flattens newest-first recommendation lists,
// keeping first occurrences up to max.
func dedupeRecommendations(lists [][]string, max int) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, max)
	for _, list := range lists {
		for _, rec := range list {
			if _, ok := seen[rec]; ok {
				continue
			}
			seen[rec] = struct{}{}
			out = append(out, rec)
			if len(out) == max {
				return out
			}
		}
	}
	return out
}

func clampRangeDays(days int) int {
	if days <= 0 {
		return defaultRangeDays
	}
	if days > maxRangeDays {
		return maxRangeDays
	}
	return days
}

// mostCommonLevel picks the level with the highest count; ties go to
// the more severe level.
func mostCommonLevel(counts map[models.RiskLevel]int) models.RiskLevel {
	order := []models.RiskLevel{models.RiskCritical, models.RiskHigh, models.RiskMedium, models.RiskLow}
	var best models.RiskLevel
	bestCount := 0
	for _, level := range order {
		if counts[level] > bestCount {
			best = level
			bestCount = counts[level]
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
