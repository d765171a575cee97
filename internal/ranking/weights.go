// Package ranking composes the final candidate score and explains it: per-skill
// contributions, missing skills, the skill match heatmap and a seniority band.
package ranking

import (
	"fmt"
	"math"

	"github.com/jonathan/candidate-ranker/internal/skills"
	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	// Default weights of the final score terms
	defaultSemanticWeight   = 0.6
	defaultOverlapWeight    = 0.3
	defaultExperienceWeight = 0.1

	// DefaultRequiredYears is the experience baseline when the query names none
	DefaultRequiredYears = 3.0

	defaultMaxMissing       = 10
	defaultTopContributions = 5
	defaultHeatmapRequired  = 10
	defaultHeatmapCandidate = 15

	weightTolerance = 1e-6
)

// Weights configures the final score blend
type Weights struct {
	Semantic   float64 `json:"semantic" koanf:"semantic" validate:"gte=0,lte=1"`
	Overlap    float64 `json:"overlap" koanf:"overlap" validate:"gte=0,lte=1"`
	Experience float64 `json:"experience" koanf:"experience" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the standard 0.6/0.3/0.1 blend
func DefaultWeights() Weights {
	return Weights{
		Semantic:   defaultSemanticWeight,
		Overlap:    defaultOverlapWeight,
		Experience: defaultExperienceWeight,
	}
}

// Validate rejects negative weights and weights not summing to 1
func (w Weights) Validate() error {
	if w.Semantic < 0 || w.Overlap < 0 || w.Experience < 0 {
		return &types.InputError{Field: "score_weights", Message: "weights must not be negative"}
	}
	if sum := w.Semantic + w.Overlap + w.Experience; math.Abs(sum-1) > weightTolerance {
		return &types.InputError{
			Field:   "score_weights",
			Message: fmt.Sprintf("must sum to 1.0, got %.6f", sum),
		}
	}
	return nil
}

// Config is the validated scoring configuration of one query
type Config struct {
	Weights Weights `json:"weights" koanf:"weights"`
	// HardSoftWeighting weights overlap by skill class instead of counting every skill as 1
	HardSoftWeighting    bool           `json:"hard_soft_weighting" koanf:"hard_soft_weighting"`
	ClassWeights         skills.Weights `json:"class_weights" koanf:"class_weights"`
	DefaultRequiredYears float64        `json:"default_required_years" koanf:"default_required_years"`
	MaxMissing           int            `json:"max_missing" koanf:"max_missing"`
	TopContributions     int            `json:"top_contributions" koanf:"top_contributions"`
	HeatmapRequired      int            `json:"heatmap_required" koanf:"heatmap_required"`
	HeatmapCandidate     int            `json:"heatmap_candidate" koanf:"heatmap_candidate"`
}

// DefaultConfig returns the standard scoring configuration
func DefaultConfig() Config {
	return Config{
		Weights:              DefaultWeights(),
		HardSoftWeighting:    true,
		ClassWeights:         skills.DefaultWeights(),
		DefaultRequiredYears: DefaultRequiredYears,
		MaxMissing:           defaultMaxMissing,
		TopContributions:     defaultTopContributions,
		HeatmapRequired:      defaultHeatmapRequired,
		HeatmapCandidate:     defaultHeatmapCandidate,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.ClassWeights.Hard < 0 || c.ClassWeights.Soft < 0 {
		return &types.InputError{Field: "class_weights", Message: "weights must not be negative"}
	}
	if c.DefaultRequiredYears <= 0 {
		return &types.InputError{Field: "default_required_years", Message: "must be positive"}
	}
	if c.MaxMissing <= 0 || c.TopContributions <= 0 || c.HeatmapRequired <= 0 || c.HeatmapCandidate <= 0 {
		return &types.InputError{Field: "limits", Message: "result caps must be positive"}
	}
	return nil
}
