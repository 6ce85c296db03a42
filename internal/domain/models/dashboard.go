package models

import "time"

// DashboardPoint is one day of aggregated analysis scores
type DashboardPoint struct {
	Date          string  `json:"date"`
	StressAvg     float64 `json:"stress_avg"`
	AnxietyAvg    float64 `json:"anxiety_avg"`
	DepressionAvg float64 `json:"depression_avg"`
	OverallAvg    float64 `json:"overall_avg"`
	HighCount     int     `json:"high_count"`
	CriticalCount int     `json:"critical_count"`
	Total         int     `json:"total"`
}

// LatestOutcome summarizes the most recent analysis for a user
type LatestOutcome struct {
	RiskLevel    RiskLevel `json:"risk_level"`
	OverallScore float64   `json:"overall_score"`
	CreatedAt    time.Time `json:"created_at"`
}

// DashboardMetrics is the aggregated dashboard payload for one user
type DashboardMetrics struct {
	RangeDays int              `json:"range_days"`
	Points    []DashboardPoint `json:"points"`
	Latest    *LatestOutcome   `json:"latest,omitempty"`

	AvgRiskLevel        RiskLevel         `json:"avg_risk_level,omitempty"`
	MostCommonRiskLevel RiskLevel         `json:"most_common_risk_level,omitempty"`
	RiskCounts          map[RiskLevel]int `json:"risk_counts"`

	TotalSessions   int     `json:"total_sessions"`
	AvgOverallScore float64 `json:"avg_overall_score"`
	AvgMetrics      struct {
		Stress     float64 `json:"stress"`
		Anxiety    float64 `json:"anxiety"`
		Depression float64 `json:"depression"`
	} `json:"avg_metrics"`

	RecentRecommendations []string `json:"recent_recommendations"`
}
