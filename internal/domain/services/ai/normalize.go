package ai

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizedFields is the bounded, coerced form of one model reply
type NormalizedFields struct {
	StressScore     int
	AnxietyScore    int
	DepressionScore int
	Rationale       string
	AIMessage       string
	Recommendations []string
}

const (
	minScore = 0
	maxScore = 10

	minRecommendations = 3
	maxRecommendations = 6
)

var requiredKeys = []string{
	"stress_score", "anxiety_score", "depression_score",
	"rationale_short", "ai_message", "recommendations",
}

// Normalize coerces a parsed model reply into a safe, bounded record.
// It never fails: every violation is recorded as an error string and a
// usable value is substituted. The caller decides OK vs REPAIRED from
// the error list.
func Normalize(obj map[string]any) (NormalizedFields, []string) {
	var errs []string

	// Presence check is independent of type coercion; a field can be
	// both missing and later defaulted.
	for _, k := range requiredKeys {
		if _, ok := obj[k]; !ok {
			errs = append(errs, fmt.Sprintf("missing key: %s", k))
		}
	}

	fields := NormalizedFields{
		StressScore:     clampScore(coerceInt(obj["stress_score"])),
		AnxietyScore:    clampScore(coerceInt(obj["anxiety_score"])),
		DepressionScore: clampScore(coerceInt(obj["depression_score"])),
	}

	fields.Rationale = coerceString(obj, "rationale_short", &errs)
	fields.AIMessage = coerceString(obj, "ai_message", &errs)

	recs, ok := obj["recommendations"].([]any)
	if obj["recommendations"] != nil && !ok {
		errs = append(errs, "recommendations must be an array")
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	fields.Recommendations = make([]string, 0, len(recs))
	for _, r := range recs {
		fields.Recommendations = append(fields.Recommendations, stringify(r))
	}
	// A short list is returned as-is, not padded
	if len(fields.Recommendations) < minRecommendations {
		errs = append(errs, fmt.Sprintf("recommendations must have at least %d items", minRecommendations))
	}

	return fields, errs
}

func clampScore(n int) int {
	if n < minScore {
		return minScore
	}
	if n > maxScore {
		return maxScore
	}
	return n
}

// coerceInt converts a decoded JSON value to an integer, substituting
// zero when the value cannot be read as a number.
func coerceInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return int(f)
		}
	}
	return 0
}

func coerceString(obj map[string]any, key string, errs *[]string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	s, isString := v.(string)
	if !isString {
		*errs = append(*errs, fmt.Sprintf("%s must be string", key))
		s = stringify(v)
	}
	return strings.TrimSpace(s)
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
