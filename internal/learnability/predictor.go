// Package learnability predicts which missing required skills a candidate could acquire
// from the skills they already hold, using adjacency in the skill co-occurrence graph.
package learnability

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	// DefaultThreshold is the minimum learnability for a skill to be reported
	DefaultThreshold = 0.5
	// DefaultRelatedThreshold is the adjacency above which a known skill counts as related
	DefaultRelatedThreshold = 0.3
	// DefaultMaxRelated caps the related known skills listed per learnable skill
	DefaultMaxRelated = 3
	// DefaultMaxResults caps the learnable skills reported per candidate
	DefaultMaxResults = 10

	highConfidence          = 0.85
	lowConfidence           = 0.65
	highConfidenceThreshold = 0.7
)

// Adjacency is the read side of the skill graph the predictor needs
type Adjacency interface {
	Adjacency(a, b string) float64
}

// rampBucket maps a learnability lower bound to a ramp-up window
type rampBucket struct {
	min  float64
	ramp types.RampTime
}

var rampBuckets = []rampBucket{
	{0.8, types.RampTime{MinWeeks: 2, MaxWeeks: 4}},
	{0.6, types.RampTime{MinWeeks: 4, MaxWeeks: 8}},
	{0.4, types.RampTime{MinWeeks: 8, MaxWeeks: 12}},
	{0.2, types.RampTime{MinWeeks: 12, MaxWeeks: 16}},
	{0.0, types.RampTime{MinWeeks: 16, MaxWeeks: 24}},
}

// Config tunes the predictor
type Config struct {
	Threshold        float64 `json:"threshold" koanf:"threshold" validate:"gte=0,lte=1"`
	RelatedThreshold float64 `json:"related_threshold" koanf:"related_threshold" validate:"gte=0,lte=1"`
	MaxRelated       int     `json:"max_related" koanf:"max_related" validate:"gte=1"`
	MaxResults       int     `json:"max_results" koanf:"max_results" validate:"gte=1"`
}

// DefaultConfig returns the standard predictor configuration
func DefaultConfig() Config {
	return Config{
		Threshold:        DefaultThreshold,
		RelatedThreshold: DefaultRelatedThreshold,
		MaxRelated:       DefaultMaxRelated,
		MaxResults:       DefaultMaxResults,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return &types.InputError{Field: "learnability.threshold", Message: "must be in [0,1]"}
	}
	if c.RelatedThreshold < 0 || c.RelatedThreshold > 1 {
		return &types.InputError{Field: "learnability.related_threshold", Message: "must be in [0,1]"}
	}
	if c.MaxRelated <= 0 || c.MaxResults <= 0 {
		return &types.InputError{Field: "learnability", Message: "result caps must be positive"}
	}
	return nil
}

// Predictor finds learnable missing skills
type Predictor struct {
	cfg Config
}

// NewPredictor validates the configuration and creates a Predictor
func NewPredictor(cfg Config) (*Predictor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Predictor{cfg: cfg}, nil
}

// Learnability returns the mean of the nonzero adjacencies between the known skills and
// the missing skill, or 0 when none is positive.
func Learnability(g Adjacency, known []string, missing string) float64 {
	sum := 0.0
	n := 0
	for _, k := range known {
		if adj := g.Adjacency(k, missing); adj > 0 {
			sum += adj
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// RampTime buckets a learnability score into a ramp-up window. Bounds are inclusive.
func RampTime(learnability float64) types.RampTime {
	for _, b := range rampBuckets {
		if learnability >= b.min {
			return b.ramp
		}
	}
	return rampBuckets[len(rampBuckets)-1].ramp
}

// Confidence returns the confidence of a learnability prediction
func Confidence(learnability float64) float64 {
	if learnability > highConfidenceThreshold {
		return highConfidence
	}
	return lowConfidence
}

type relatedSkill struct {
	skill     string
	adjacency float64
}

// Predict reports the required skills missing from known whose learnability reaches the
// configured threshold, ordered by descending learnability and then query order.
// Skills are expected in canonical form.
func (p *Predictor) Predict(g Adjacency, known, required []string) []types.LearnableSkill {
	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[k] = true
	}

	var learnable []types.LearnableSkill
	for _, m := range required {
		if knownSet[m] {
			continue
		}
		score := Learnability(g, known, m)
		if score == 0 || score < p.cfg.Threshold {
			continue
		}

		related := p.relatedKnown(g, known, m)
		learnable = append(learnable, types.LearnableSkill{
			Skill:         m,
			Learnability:  score,
			RelatedSkills: related,
			RampWeeks:     RampTime(score),
			Confidence:    Confidence(score),
			Reason:        reason(score, related),
		})
	}

	sort.SliceStable(learnable, func(i, j int) bool {
		return learnable[i].Learnability > learnable[j].Learnability
	})
	if len(learnable) > p.cfg.MaxResults {
		learnable = learnable[:p.cfg.MaxResults]
	}
	return learnable
}

func (p *Predictor) relatedKnown(g Adjacency, known []string, missing string) []string {
	var related []relatedSkill
	for _, k := range known {
		if adj := g.Adjacency(k, missing); adj > p.cfg.RelatedThreshold {
			related = append(related, relatedSkill{skill: k, adjacency: adj})
		}
	}
	sort.SliceStable(related, func(i, j int) bool {
		return related[i].adjacency > related[j].adjacency
	})
	if len(related) > p.cfg.MaxRelated {
		related = related[:p.cfg.MaxRelated]
	}

	out := make([]string, len(related))
	for i, r := range related {
		out[i] = r.skill
	}
	return out
}

func reason(score float64, related []string) string {
	from := "existing skills"
	if len(related) > 0 {
		from = strings.Join(related, ", ")
	}
	switch {
	case score >= 0.7:
		return fmt.Sprintf("Strong skill adjacency with %s", from)
	case score >= 0.5:
		return fmt.Sprintf("Moderate skill transfer from %s", from)
	default:
		return fmt.Sprintf("Some overlap with %s", from)
	}
}
