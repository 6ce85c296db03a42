package ai

import (
	"math"

	"wellmind-backend/internal/domain/models"
)

// Classify maps the three component scores to the overall score and the
// risk tier. Pure and deterministic.
//
// The overall score is the mean of the three scores rounded to one
// decimal place. Tier rules are evaluated in order, first match wins,
// so a single extreme sub-score escalates the tier even when the mean
// is moderate.
func Classify(stress, anxiety, depression int) (float64, models.RiskLevel) {
	overall := math.Round(float64(stress+anxiety+depression)/3*10) / 10

	switch {
	case overall >= 9.0 || depression >= 9:
		return overall, models.RiskCritical
	case overall >= 7.0 || stress >= 8 || anxiety >= 8 || depression >= 8:
		return overall, models.RiskHigh
	case overall >= 4.0:
		return overall, models.RiskMedium
	default:
		return overall, models.RiskLow
	}
}

// AlertRecommended reports whether a tier is severe enough to consider
// notifying emergency contacts.
func AlertRecommended(level models.RiskLevel) bool {
	return level == models.RiskHigh || level == models.RiskCritical
}
