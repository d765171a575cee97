package risk

import (
	"math"
	"time"

	"github.com/jonathan/candidate-ranker/internal/parsing"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Recommendation templates keyed by overall level
const (
	RecommendLow    = "Low risk: strong candidate profile. Standard hiring process recommended."
	RecommendMedium = "Moderate risk: address specific concerns in interview. May need onboarding support."
	RecommendHigh   = "Proceed with caution: multiple elevated risk factors. Consider an extended trial period or additional interviews."
)

// Assessor computes risk profiles. It holds no mutable state and is safe for concurrent use.
type Assessor struct {
	cfg        Config
	domains    map[string]string
	deprecated map[string]bool
	niche      map[string]bool
	now        func() time.Time
}

// NewAssessor validates the configuration and creates an Assessor
func NewAssessor(cfg Config) (*Assessor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	domains := make(map[string]string, len(cfg.Domains))
	for skill, domain := range cfg.Domains {
		if s := parsing.CanonicalSkill(skill); s != "" {
			domains[s] = parsing.NormalizeToken(domain)
		}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Assessor{
		cfg:        cfg,
		domains:    domains,
		deprecated: set(cfg.Deprecated),
		niche:      set(cfg.Niche),
		now:        now,
	}, nil
}

// Assess scores the candidate on all four dimensions. Factors are always returned in the
// order concentration, volatility, freshness, overfitting.
func (a *Assessor) Assess(c *types.Candidate) types.RiskProfile {
	skills := parsing.NormalizeSkills(c.Skills)
	recent := parsing.NormalizeSkills(c.RecentSkills)

	factors := []types.RiskFactor{
		a.concentration(skills),
		a.volatility(c.WorkHistory, a.now()),
		a.freshness(skills, recent),
		a.overfitting(skills),
	}

	w := a.cfg.Weights
	overall := clamp01(factors[0].Score*w.Concentration +
		factors[1].Score*w.Volatility +
		factors[2].Score*w.Freshness +
		factors[3].Score*w.Overfitting)

	level := a.cfg.Overall.level(overall)
	return types.RiskProfile{
		Overall:        overall,
		Level:          level,
		Factors:        factors,
		Recommendation: Recommendation(level),
		Confidence:     confidence(len(skills) > 0, len(c.WorkHistory), len(recent) > 0),
	}
}

// Recommendation returns the fixed recommendation text for a level
func Recommendation(level types.RiskLevel) string {
	switch level {
	case types.RiskHigh:
		return RecommendHigh
	case types.RiskMedium:
		return RecommendMedium
	default:
		return RecommendLow
	}
}

// confidence reflects how much of the profile the assessment could see
func confidence(hasSkills bool, historyLen int, hasRecent bool) float64 {
	c := 0.1
	if hasSkills {
		c += 0.3
	}
	switch {
	case historyLen >= 2:
		c += 0.4
	case historyLen == 1:
		c += 0.2
	}
	if hasRecent {
		c += 0.2
	}
	return math.Min(c, 1)
}
