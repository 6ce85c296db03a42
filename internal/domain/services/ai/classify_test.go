package ai

import (
	"math"
	"testing"

	"wellmind-backend/internal/domain/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		stress      int
		anxiety     int
		depression  int
		wantOverall float64
		wantLevel   models.RiskLevel
	}{
		{"all zero", 0, 0, 0, 0, models.RiskLow},
		{"low", 2, 3, 1, 2.0, models.RiskLow},
		{"medium at boundary", 4, 4, 4, 4.0, models.RiskMedium},
		{"high by mean", 7, 7, 7, 7.0, models.RiskHigh},
		{"critical by mean", 9, 9, 9, 9.0, models.RiskCritical},
		{"critical by depression alone", 0, 0, 9, 3.0, models.RiskCritical},
		{"high by stress alone", 8, 0, 0, 2.7, models.RiskHigh},
		{"high by anxiety alone", 0, 8, 0, 2.7, models.RiskHigh},
		{"high by depression eight", 0, 0, 8, 2.7, models.RiskHigh},
		{"depression nine beats high rules", 8, 8, 9, 8.3, models.RiskCritical},
		{"max scores", 10, 10, 10, 10.0, models.RiskCritical},
		{"rounding to one decimal", 1, 1, 2, 1.3, models.RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overall, level := Classify(tt.stress, tt.anxiety, tt.depression)
			if math.Abs(overall-tt.wantOverall) > 1e-9 {
				t.Errorf("Classify(%d,%d,%d) overall = %v, want %v",
					tt.stress, tt.anxiety, tt.depression, overall, tt.wantOverall)
			}
			if level != tt.wantLevel {
				t.Errorf("Classify(%d,%d,%d) level = %v, want %v",
					tt.stress, tt.anxiety, tt.depression, level, tt.wantLevel)
			}
		})
	}
}

func TestClassifyOverallBounds(t *testing.T) {
	for s := 0; s <= 10; s++ {
		for a := 0; a <= 10; a++ {
			for d := 0; d <= 10; d++ {
				overall, level := Classify(s, a, d)
				if overall < 0 || overall > 10 {
					t.Fatalf("Classify(%d,%d,%d) overall out of range: %v", s, a, d, overall)
				}
				switch level {
				case models.RiskLow, models.RiskMedium, models.RiskHigh, models.RiskCritical:
				default:
					t.Fatalf("Classify(%d,%d,%d) unknown level %q", s, a, d, level)
				}
			}
		}
	}
}

func TestAlertRecommended(t *testing.T) {
	tests := []struct {
		level models.RiskLevel
		want  bool
	}{
		{models.RiskLow, false},
		{models.RiskMedium, false},
		{models.RiskHigh, true},
		{models.RiskCritical, true},
	}

	for _, tt := range tests {
		if got := AlertRecommended(tt.level); got != tt.want {
			t.Errorf("AlertRecommended(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
