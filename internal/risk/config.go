// Package risk scores candidates along four independent hiring-risk dimensions:
// skill concentration, resume volatility, skill freshness and overfitting.
package risk

import (
	"fmt"
	"math"
	"time"

	"github.com/jonathan/candidate-ranker/internal/parsing"
	"github.com/jonathan/candidate-ranker/internal/skills"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// defaultDeprecated lists outdated technologies
var defaultDeprecated = []string{
	"flash", "silverlight", "vb6", "asp.net web forms", "angularjs", "backbone.js",
	"jquery mobile", "svn", "cvs", "mercurial", "python 2.7", "php 5", "java 6", "java 7",
	"internet explorer", "coffeescript",
}

// defaultNiche lists rare or highly specialized technologies
var defaultNiche = []string{
	"cobol", "fortran", "pascal", "ada", "lotus notes", "coldfusion", "perl",
}

// Weights is the share of each dimension in the overall score
type Weights struct {
	Concentration float64 `json:"concentration" koanf:"concentration" validate:"gte=0,lte=1"`
	Volatility    float64 `json:"volatility" koanf:"volatility" validate:"gte=0,lte=1"`
	Freshness     float64 `json:"freshness" koanf:"freshness" validate:"gte=0,lte=1"`
	Overfitting   float64 `json:"overfitting" koanf:"overfitting" validate:"gte=0,lte=1"`
}

// Thresholds are the inclusive lower bounds of the medium and high levels
type Thresholds struct {
	Medium float64 `json:"medium" koanf:"medium"`
	High   float64 `json:"high" koanf:"high"`
}

func (t Thresholds) level(score float64) types.RiskLevel {
	switch {
	case score >= t.High:
		return types.RiskHigh
	case score >= t.Medium:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}

// Config tunes the assessor. Domains, Deprecated and Niche are caller supplied.
type Config struct {
	// Domains maps a skill to its coarse domain. Unmapped skills fall back to their first word.
	Domains    map[string]string `json:"domains,omitempty" koanf:"domains"`
	Deprecated []string          `json:"deprecated,omitempty" koanf:"deprecated"`
	Niche      []string          `json:"niche,omitempty" koanf:"niche"`
	Weights    Weights           `json:"weights" koanf:"weights"`

	TenureBaselineMonths float64 `json:"tenure_baseline_months" koanf:"tenure_baseline_months" validate:"gt=0"`
	ShortStintMonths     float64 `json:"short_stint_months" koanf:"short_stint_months" validate:"gt=0"`
	// VeryShortStintMonths marks stints that force a high volatility level when two or more occur.
	// Zero disables the override.
	VeryShortStintMonths float64 `json:"very_short_stint_months" koanf:"very_short_stint_months" validate:"gte=0"`
	JobCountBaseline     float64 `json:"job_count_baseline" koanf:"job_count_baseline" validate:"gt=0"`
	// NicheRatioHigh forces a high overfitting level once this share of skills is niche
	NicheRatioHigh float64 `json:"niche_ratio_high" koanf:"niche_ratio_high" validate:"gte=0,lte=1"`

	Concentration Thresholds `json:"concentration_levels" koanf:"concentration_levels"`
	Volatility    Thresholds `json:"volatility_levels" koanf:"volatility_levels"`
	Freshness     Thresholds `json:"freshness_levels" koanf:"freshness_levels"`
	Overfitting   Thresholds `json:"overfitting_levels" koanf:"overfitting_levels"`
	Overall       Thresholds `json:"overall_levels" koanf:"overall_levels"`

	// Now is the clock used to close ongoing work intervals. Defaults to time.Now.
	Now func() time.Time `json:"-" koanf:"-"`
}

// DefaultConfig returns the standard risk configuration
func DefaultConfig() Config {
	return Config{
		Domains:    skills.DefaultDomains(),
		Deprecated: append([]string(nil), defaultDeprecated...),
		Niche:      append([]string(nil), defaultNiche...),
		Weights: Weights{
			Concentration: 0.25,
			Volatility:    0.35,
			Freshness:     0.25,
			Overfitting:   0.15,
		},
		TenureBaselineMonths: 36,
		ShortStintMonths:     12,
		VeryShortStintMonths: 6,
		JobCountBaseline:     8,
		NicheRatioHigh:       0.4,
		Concentration:        Thresholds{Medium: 0.4, High: 0.7},
		Volatility:           Thresholds{Medium: 0.35, High: 0.6},
		Freshness:            Thresholds{Medium: 0.25, High: 0.5},
		Overfitting:          Thresholds{Medium: 0.25, High: 0.5},
		Overall:              Thresholds{Medium: 0.35, High: 0.6},
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	w := c.Weights
	if w.Concentration < 0 || w.Volatility < 0 || w.Freshness < 0 || w.Overfitting < 0 {
		return &types.InputError{Field: "risk.weights", Message: "weights must not be negative"}
	}
	if sum := w.Concentration + w.Volatility + w.Freshness + w.Overfitting; math.Abs(sum-1) > 1e-6 {
		return &types.InputError{Field: "risk.weights", Message: fmt.Sprintf("must sum to 1.0, got %.6f", sum)}
	}
	if c.TenureBaselineMonths <= 0 || c.ShortStintMonths <= 0 || c.JobCountBaseline <= 0 {
		return &types.InputError{Field: "risk", Message: "tenure, short stint and job count baselines must be positive"}
	}
	if c.NicheRatioHigh < 0 || c.NicheRatioHigh > 1 {
		return &types.InputError{Field: "risk.niche_ratio_high", Message: "must be in [0,1]"}
	}
	for name, t := range map[string]Thresholds{
		"concentration": c.Concentration,
		"volatility":    c.Volatility,
		"freshness":     c.Freshness,
		"overfitting":   c.Overfitting,
		"overall":       c.Overall,
	} {
		if t.Medium < 0 || t.High > 1 || t.Medium > t.High {
			return &types.InputError{
				Field:   "risk." + name + "_levels",
				Message: "thresholds must satisfy 0 <= medium <= high <= 1",
			}
		}
	}
	return nil
}

// set builds a canonical lookup set
func set(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		if c := parsing.CanonicalSkill(s); c != "" {
			m[c] = true
		}
	}
	return m
}
