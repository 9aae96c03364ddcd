package match

import (
	"fmt"

	"attest/internal/services"
)

// DefaultLowBand is the default boundary between negligible and recognizable
// overlap for deviation classification.
const DefaultLowBand = 0.3

// Category sub-classifies a deviation by how much accidental overlap the
// evidence showed.
type Category string

const (
	// CategorySkipped means no lexical overlap anywhere in the evidence.
	CategorySkipped Category = "skipped"
	// CategoryNotVisible means negligible accidental overlap.
	CategoryNotVisible Category = "not_visible"
	// CategoryAltered means a recognizable but insufficient match: the kind
	// of action happened, but the context or target differs.
	CategoryAltered Category = "altered"
)

// DeviationRecord carries the classification of one deviating step.
type DeviationRecord struct {
	Category Category
}

// Classifier maps an unconfirmed step's best score into a deviation category.
// The bands form a strict partition of [0, threshold):
//
//	score == 0.0            -> skipped
//	0.0 < score < lowBand   -> not_visible
//	lowBand <= score        -> altered
type Classifier struct {
	lowBand   float64
	threshold float64
}

// NewClassifier validates the band boundaries once, up front. The invariant
// 0 <= lowBand < threshold <= 1 must hold or the bands are inconsistent.
func NewClassifier(lowBand, threshold float64) (*Classifier, error) {
	if lowBand < 0 || lowBand >= threshold || threshold > 1 {
		return nil, services.Wrap(services.ErrConfiguration, "match", "new classifier",
			fmt.Sprintf("bands require 0 <= low_band < threshold <= 1, got low_band=%v threshold=%v", lowBand, threshold), nil)
	}
	return &Classifier{lowBand: lowBand, threshold: threshold}, nil
}

// Categorize returns the deviation category for a best score below the
// threshold. It applies only to deviation results.
func (c *Classifier) Categorize(bestScore float64) Category {
	switch {
	case bestScore == 0:
		return CategorySkipped
	case bestScore < c.lowBand:
		return CategoryNotVisible
	default:
		return CategoryAltered
	}
}
