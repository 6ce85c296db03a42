package ai

import (
	"reflect"
	"testing"
)

func validReply() map[string]any {
	return map[string]any{
		"stress_score":     float64(5),
		"anxiety_score":    float64(4),
		"depression_score": float64(3),
		"rationale_short":  "Moderate stress signals.",
		"ai_message":       "That sounds like a lot to carry.",
		"recommendations":  []any{"Take a walk.", "Breathe slowly.", "Talk to a friend."},
	}
}

func TestNormalizeValidReply(t *testing.T) {
	fields, errs := Normalize(validReply())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if fields.StressScore != 5 || fields.AnxietyScore != 4 || fields.DepressionScore != 3 {
		t.Errorf("scores = %d/%d/%d, want 5/4/3",
			fields.StressScore, fields.AnxietyScore, fields.DepressionScore)
	}
	if fields.Rationale != "Moderate stress signals." {
		t.Errorf("rationale = %q", fields.Rationale)
	}
	if len(fields.Recommendations) != 3 {
		t.Errorf("recommendations = %v", fields.Recommendations)
	}
}

func TestNormalizeMissingKeys(t *testing.T) {
	fields, errs := Normalize(map[string]any{})

	if len(errs) < len(requiredKeys) {
		t.Fatalf("expected an error per missing key, got %v", errs)
	}
	for _, want := range []string{
		"missing key: stress_score",
		"missing key: recommendations",
	} {
		found := false
		for _, e := range errs {
			if e == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("errors %v missing %q", errs, want)
		}
	}
	if fields.StressScore != 0 || fields.AnxietyScore != 0 || fields.DepressionScore != 0 {
		t.Errorf("missing scores should default to zero, got %+v", fields)
	}
}

func TestNormalizeScoreCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"float", float64(7.6), 7},
		{"int", 6, 6},
		{"numeric string", "8", 8},
		{"float string", "7.2", 7},
		{"garbage string", "high", 0},
		{"nil", nil, 0},
		{"above range", float64(15), 10},
		{"below range", float64(-3), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := validReply()
			obj["stress_score"] = tt.value
			fields, _ := Normalize(obj)
			if fields.StressScore != tt.want {
				t.Errorf("stress_score %v normalized to %d, want %d", tt.value, fields.StressScore, tt.want)
			}
		})
	}
}

func TestNormalizeStringFields(t *testing.T) {
	obj := validReply()
	obj["rationale_short"] = float64(5)
	obj["ai_message"] = "  padded  "

	fields, errs := Normalize(obj)

	if fields.Rationale != "5" {
		t.Errorf("rationale = %q, want stringified value", fields.Rationale)
	}
	if fields.AIMessage != "padded" {
		t.Errorf("ai_message = %q, want trimmed", fields.AIMessage)
	}

	found := false
	for _, e := range errs {
		if e == "rationale_short must be string" {
			found = true
		}
	}
	if !found {
		t.Errorf("errors %v missing type violation for rationale_short", errs)
	}
}

func TestNormalizeRecommendations(t *testing.T) {
	t.Run("not an array", func(t *testing.T) {
		obj := validReply()
		obj["recommendations"] = "walk more"
		fields, errs := Normalize(obj)
		if len(fields.Recommendations) != 0 {
			t.Errorf("recommendations = %v, want empty", fields.Recommendations)
		}
		found := false
		for _, e := range errs {
			if e == "recommendations must be an array" {
				found = true
			}
		}
		if !found {
			t.Errorf("errors %v missing array violation", errs)
		}
	})

	t.Run("truncated to six", func(t *testing.T) {
		obj := validReply()
		obj["recommendations"] = []any{"a", "b", "c", "d", "e", "f", "g", "h"}
		fields, errs := Normalize(obj)
		if len(errs) != 0 {
			t.Errorf("unexpected errors: %v", errs)
		}
		want := []string{"a", "b", "c", "d", "e", "f"}
		if !reflect.DeepEqual(fields.Recommendations, want) {
			t.Errorf("recommendations = %v, want %v", fields.Recommendations, want)
		}
	})

	t.Run("short list kept without padding", func(t *testing.T) {
		obj := validReply()
		obj["recommendations"] = []any{"a", "b"}
		fields, errs := Normalize(obj)
		if !reflect.DeepEqual(fields.Recommendations, []string{"a", "b"}) {
			t.Errorf("recommendations = %v", fields.Recommendations)
		}
		if len(errs) == 0 {
			t.Error("expected a minimum-length violation")
		}
	})
}

func TestNormalizeIdempotent(t *testing.T) {
	obj := validReply()
	first, _ := Normalize(obj)

	again := map[string]any{
		"stress_score":     float64(first.StressScore),
		"anxiety_score":    float64(first.AnxietyScore),
		"depression_score": float64(first.DepressionScore),
		"rationale_short":  first.Rationale,
		"ai_message":       first.AIMessage,
	}
	recs := make([]any, len(first.Recommendations))
	for i, r := range first.Recommendations {
		recs[i] = r
	}
	again["recommendations"] = recs

	second, errs := Normalize(again)
	if len(errs) != 0 {
		t.Fatalf("re-normalizing normalized output produced errors: %v", errs)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalization not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}
