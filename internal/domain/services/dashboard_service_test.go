package services

import (
	"reflect"
	"testing"

	"wellmind-backend/internal/domain/models"
)

func TestDedupeRecommendations(t *testing.T) {
	tests := []struct {
		name  string
		lists [][]string
		max   int
		want  []string
	}{
		{
			name:  "empty input",
			lists: nil,
			max:   6,
			want:  []string{},
		},
		{
			name:  "duplicates removed across lists",
			lists: [][]string{{"breathe", "walk"}, {"walk", "journal"}},
			max:   6,
			want:  []string{"breathe", "walk", "journal"},
		},
		{
			name:  "newest list wins on order",
			lists: [][]string{{"sleep"}, {"breathe", "sleep"}},
			max:   6,
			want:  []string{"sleep", "breathe"},
		},
		{
			name:  "truncated at max",
			lists: [][]string{{"a", "b", "c"}, {"d", "e"}},
			max:   4,
			want:  []string{"a", "b", "c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dedupeRecommendations(tt.lists, tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("dedupeRecommendations() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampRangeDays(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero uses default", 0, 30},
		{"negative uses default", -5, 30},
		{"minimum kept", 1, 1},
		{"in range kept", 7, 7},
		{"maximum kept", 365, 365},
		{"over maximum clamped", 500, 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampRangeDays(tt.in); got != tt.want {
				t.Errorf("clampRangeDays(%d) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMostCommonLevel(t *testing.T) {
	tests := []struct {
		name   string
		counts map[models.RiskLevel]int
		want   models.RiskLevel
	}{
		{"empty", map[models.RiskLevel]int{}, ""},
		{"single level", map[models.RiskLevel]int{models.RiskLow: 5}, models.RiskLow},
		{"clear majority", map[models.RiskLevel]int{models.RiskLow: 2, models.RiskMedium: 7, models.RiskHigh: 1}, models.RiskMedium},
		{"tie goes to more severe", map[models.RiskLevel]int{models.RiskLow: 3, models.RiskHigh: 3}, models.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mostCommonLevel(tt.counts); got != tt.want {
				t.Errorf("mostCommonLevel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2.666666, 2.7},
		{7.04, 7.0},
		{0, 0},
		{9.95, 10.0},
	}
	for _, tt := range tests {
		if got := round1(tt.in); got != tt.want {
			t.Errorf("round1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
