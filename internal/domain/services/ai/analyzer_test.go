package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"wellmind-backend/internal/domain/models"
	"wellmind-backend/pkg/logger"
)

type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Analyze(ctx context.Context, userText string, turns []Turn) (string, error) {
	return f.reply, f.err
}

func newTestAnalyzer(p Provider) *Analyzer {
	return NewAnalyzer(p, logger.NewDevelopment())
}

func TestAnalyzeTextEmptyInput(t *testing.T) {
	a := newTestAnalyzer(&StubProvider{})

	outcome := a.AnalyzeText(context.Background(), "   ", nil)

	if outcome.Status != models.AnalysisFailed {
		t.Fatalf("status = %v, want FAILED", outcome.Status)
	}
	if outcome.RiskLevel != models.RiskLow {
		t.Errorf("risk level = %v, want LOW", outcome.RiskLevel)
	}
	if outcome.AlertRecommended {
		t.Error("empty input must never recommend an alert")
	}
	if outcome.Rationale != "No text provided for analysis." {
		t.Errorf("rationale = %q", outcome.Rationale)
	}
	if len(outcome.Recommendations) == 0 {
		t.Error("failed outcome must still carry recommendations")
	}
}

func TestAnalyzeTextStubSuccess(t *testing.T) {
	a := newTestAnalyzer(&StubProvider{})

	outcome := a.AnalyzeText(context.Background(), "I had a rough day", nil)

	if outcome.Status != models.AnalysisOK {
		t.Fatalf("status = %v, want OK", outcome.Status)
	}
	if outcome.StressScore != 3 || outcome.AnxietyScore != 3 || outcome.DepressionScore != 2 {
		t.Errorf("scores = %d/%d/%d", outcome.StressScore, outcome.AnxietyScore, outcome.DepressionScore)
	}
	if outcome.OverallScore != 2.7 {
		t.Errorf("overall = %v, want 2.7", outcome.OverallScore)
	}
	if outcome.RiskLevel != models.RiskLow {
		t.Errorf("risk level = %v, want LOW", outcome.RiskLevel)
	}
	if outcome.AlertRecommended {
		t.Error("low risk must not recommend an alert")
	}
	if outcome.RawSource == "" {
		t.Error("raw source must be preserved on success")
	}
}

func TestAnalyzeTextProviderError(t *testing.T) {
	a := newTestAnalyzer(&fakeProvider{err: errors.New("connection refused")})

	outcome := a.AnalyzeText(context.Background(), "hello", nil)

	if outcome.Status != models.AnalysisFailed {
		t.Fatalf("status = %v, want FAILED", outcome.Status)
	}
	if outcome.Rationale != "Analysis failed due to provider error." {
		t.Errorf("rationale = %q", outcome.Rationale)
	}
	if !strings.Contains(outcome.RawSource, "connection refused") {
		t.Errorf("raw source should carry the error text, got %q", outcome.RawSource)
	}
	if outcome.AlertRecommended {
		t.Error("failed analysis must never recommend an alert")
	}
}

func TestAnalyzeTextUnparseableReply(t *testing.T) {
	a := newTestAnalyzer(&fakeProvider{reply: "I am sorry, I cannot help with that."})

	outcome := a.AnalyzeText(context.Background(), "hello", nil)

	if outcome.Status != models.AnalysisFailed {
		t.Fatalf("status = %v, want FAILED", outcome.Status)
	}
	if outcome.Rationale != "Analysis failed due to invalid response format." {
		t.Errorf("rationale = %q", outcome.Rationale)
	}
	if outcome.RawSource != "I am sorry, I cannot help with that." {
		t.Errorf("raw source = %q", outcome.RawSource)
	}
}

func TestAnalyzeTextRepairedReply(t *testing.T) {
	// Schema violations that normalization can absorb: string score,
	// missing rationale.
	reply := `{"stress_score": "8", "anxiety_score": 2, "depression_score": 1,
		"ai_message": "Hang in there.",
		"recommendations": ["Rest.", "Hydrate.", "Step outside."]}`
	a := newTestAnalyzer(&fakeProvider{reply: reply})

	outcome := a.AnalyzeText(context.Background(), "deadline pressure", nil)

	if outcome.Status != models.AnalysisRepaired {
		t.Fatalf("status = %v, want REPAIRED", outcome.Status)
	}
	if outcome.StressScore != 8 {
		t.Errorf("stress = %d, want 8 after coercion", outcome.StressScore)
	}
	if outcome.RiskLevel != models.RiskHigh {
		t.Errorf("risk level = %v, want HIGH (stress >= 8)", outcome.RiskLevel)
	}
	if !outcome.AlertRecommended {
		t.Error("repaired outcome must stay alert-eligible")
	}
}

func TestAnalyzeTextMalformedButRepairable(t *testing.T) {
	// Trailing comma keeps json.Unmarshal from parsing directly; the
	// repair pass recovers it.
	reply := `{"stress_score": 2, "anxiety_score": 2, "depression_score": 1,
		"rationale_short": "Mild workload stress.",
		"ai_message": "Sounds manageable.",
		"recommendations": ["Rest.", "Hydrate.", "Step outside."],}`
	a := newTestAnalyzer(&fakeProvider{reply: reply})

	outcome := a.AnalyzeText(context.Background(), "busy week", nil)

	if outcome.Status != models.AnalysisOK {
		t.Fatalf("status = %v, want OK after repair, rationale %q", outcome.Status, outcome.Rationale)
	}
	if outcome.StressScore != 2 {
		t.Errorf("stress = %d, want 2", outcome.StressScore)
	}
}

func TestAnalyzeTextCriticalOutcome(t *testing.T) {
	reply := `{"stress_score": 9, "anxiety_score": 9, "depression_score": 9,
		"rationale_short": "Severe distress across all dimensions.",
		"ai_message": "I'm really concerned about how you're feeling.",
		"recommendations": ["Reach out to someone now.", "Call a helpline.", "You are not alone."]}`
	a := newTestAnalyzer(&fakeProvider{reply: reply})

	outcome := a.AnalyzeText(context.Background(), "I can't go on", nil)

	if outcome.Status != models.AnalysisOK {
		t.Fatalf("status = %v, want OK", outcome.Status)
	}
	if outcome.RiskLevel != models.RiskCritical {
		t.Errorf("risk level = %v, want CRITICAL", outcome.RiskLevel)
	}
	if !outcome.AlertRecommended {
		t.Error("critical outcome must recommend an alert")
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short ascii untouched", "hello", 10, "hello"},
		{"ascii cut", "hello", 3, "hel"},
		{"multibyte untouched", "héllo", 5, "héllo"},
		{"multibyte cut on rune boundary", strings.Repeat("é", 10), 4, strings.Repeat("é", 4)},
		{"cut never splits a rune", "aaé", 3, "aaé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.max)
			}
		})
	}
}
