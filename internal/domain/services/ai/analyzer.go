package ai

import (
	"context"
	"encoding/json"
	"strings"

	"wellmind-backend/internal/domain/models"
	"wellmind-backend/pkg/logger"
)

const (
	// maxInputChars bounds the user text sent to the provider
	maxInputChars = 8000
	// maxErrorChars bounds error text stored in the audit field
	maxErrorChars = 1000
)

// Analyzer drives one analysis pass: provider call, JSON extraction,
// normalization and classification. Every failure mode is converted
// into a safe FAILED outcome; AnalyzeText never returns an error.
type Analyzer struct {
	provider Provider
	logger   *logger.Logger
}

// NewAnalyzer creates an analyzer on top of the given provider
func NewAnalyzer(p Provider, log *logger.Logger) *Analyzer {
	return &Analyzer{
		provider: p,
		logger:   log.WithComponent("analyzer"),
	}
}

// AnalyzeText scores one user message. The call blocks for the duration
// of the provider call; the provider enforces its own timeout.
func (a *Analyzer) AnalyzeText(ctx context.Context, userText string, turns []Turn) models.AnalysisOutcome {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		a.logger.Warn().Msg("empty user text provided")
		return failedOutcome(
			"No text provided for analysis.",
			"Please share what's on your mind.",
			[]string{"Try writing a message about how you're feeling."},
			"",
		)
	}
	userText = truncate(userText, maxInputChars)

	raw, err := a.provider.Analyze(ctx, userText, turns)
	if err != nil {
		a.logger.Error().Err(err).Msg("provider error")
		return failedOutcome(
			"Analysis failed due to provider error.",
			"I had trouble analyzing that message. Please try again.",
			genericRecommendations(),
			truncate(err.Error(), maxErrorChars),
		)
	}

	var obj map[string]any
	if jsonErr := json.Unmarshal([]byte(raw), &obj); jsonErr != nil {
		// One more repair attempt on the raw text before giving up
		repaired, ok := RepairJSON(raw)
		if ok {
			jsonErr = json.Unmarshal([]byte(repaired), &obj)
		}
		if !ok || jsonErr != nil {
			a.logger.Error().Str("raw", truncate(raw, 500)).Msg("invalid JSON from provider")
			return failedOutcome(
				"Analysis failed due to invalid response format.",
				"I had trouble processing that message. Please try again.",
				genericRecommendations(),
				truncate(raw, maxErrorChars),
			)
		}
		raw = repaired
	}

	fields, errs := Normalize(obj)
	overall, level := Classify(fields.StressScore, fields.AnxietyScore, fields.DepressionScore)

	status := models.AnalysisOK
	if len(errs) > 0 {
		status = models.AnalysisRepaired
		a.logger.Warn().Strs("schema_errors", errs).Msg("model reply repaired")
	}

	// A repaired outcome still classifies on the normalized values; a
	// partially valid analysis is never discarded for cosmetic schema
	// violations.
	return models.AnalysisOutcome{
		StressScore:      fields.StressScore,
		AnxietyScore:     fields.AnxietyScore,
		DepressionScore:  fields.DepressionScore,
		OverallScore:     overall,
		RiskLevel:        level,
		AlertRecommended: AlertRecommended(level),
		Rationale:        fields.Rationale,
		AIMessage:        fields.AIMessage,
		Recommendations:  fields.Recommendations,
		Status:           status,
		RawSource:        raw,
	}
}

func failedOutcome(rationale, aiMessage string, recommendations []string, rawSource string) models.AnalysisOutcome {
	return models.AnalysisOutcome{
		StressScore:      0,
		AnxietyScore:     0,
		DepressionScore:  0,
		OverallScore:     0,
		RiskLevel:        models.RiskLow,
		AlertRecommended: false,
		Rationale:        rationale,
		AIMessage:        aiMessage,
		Recommendations:  recommendations,
		Status:           models.AnalysisFailed,
		RawSource:        rawSource,
	}
}

// genericRecommendations are the safe suggestions shown when analysis
// fails; the user never sees an empty response.
func genericRecommendations() []string {
	return []string{
		"Try rephrasing your message.",
		"Keep it short and specific.",
		"If urgent, contact a professional.",
	}
}
