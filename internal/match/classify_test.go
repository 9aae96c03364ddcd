package match

import (
	"errors"
	"testing"

	"attest/internal/services"
)

func TestNewClassifierValidation(t *testing.T) {
	tests := []struct {
		name               string
		lowBand, threshold float64
		wantErr            bool
	}{
		{"defaults", 0.3, 0.5, false},
		{"zero low band", 0, 0.5, false},
		{"threshold at one", 0.3, 1, false},
		{"negative low band", -0.1, 0.5, true},
		{"low band equals threshold", 0.5, 0.5, true},
		{"low band above threshold", 0.6, 0.5, true},
		{"threshold above one", 0.3, 1.1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClassifier(tt.lowBand, tt.threshold)
			if tt.wantErr {
				if !errors.Is(err, services.ErrConfiguration) {
					t.Errorf("expected ErrConfiguration, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCategorizeBands(t *testing.T) {
	classifier, err := NewClassifier(0.3, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		score float64
		want  Category
	}{
		{0.0, CategorySkipped}, // exactly zero is skipped, never not_visible
		{0.01, CategoryNotVisible},
		{0.29, CategoryNotVisible},
		{0.3, CategoryAltered}, // closed lower bound
		{0.35, CategoryAltered},
		{0.49, CategoryAltered},
	}
	for _, tt := range tests {
		if got := classifier.Categorize(tt.score); got != tt.want {
			t.Errorf("Categorize(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
