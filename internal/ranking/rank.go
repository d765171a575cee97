package ranking

import (
	"github.com/jonathan/candidate-ranker/internal/skills"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Composer combines semantic similarity, skill overlap and experience match into the
// final score and its explanation. A Composer is immutable and safe for concurrent use.
type Composer struct {
	cfg        Config
	classifier *skills.Classifier
}

// NewComposer validates the configuration and creates a Composer
func NewComposer(cfg Config, classifier *skills.Classifier) (*Composer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if classifier == nil {
		classifier = skills.NewClassifier()
	}
	return &Composer{cfg: cfg, classifier: classifier}, nil
}

// Config returns the composer's configuration
func (c *Composer) Config() Config {
	return c.cfg
}

// Compose scores a candidate against a query. Both are expected to carry canonical
// skill tokens. semantic must already be in [0,1].
func (c *Composer) Compose(query *types.JobQuery, candidate *types.Candidate, semantic float64) types.ScoreBreakdown {
	semantic = clamp01(semantic)

	has := make(map[string]bool, len(candidate.Skills))
	for _, s := range candidate.Skills {
		has[s] = true
	}

	reqs := c.requirements(query.RequiredSkills)
	overlap, matched := computeSkillOverlapScore(reqs, has)
	ratios := experienceRatios(reqs, has, candidate.SkillYears, query.RequiredYears, c.cfg.DefaultRequiredYears)
	experience := computeExperienceMatchScore(ratios)

	w := c.cfg.Weights
	final := clamp01(w.Semantic*semantic + w.Overlap*overlap + w.Experience*experience)

	breakdown := types.ScoreBreakdown{
		Semantic:        semantic,
		SkillOverlap:    overlap,
		ExperienceMatch: experience,
		Final:           final,
		MatchedSkills:   matched,
		MissingSkills:   missingSkills(reqs, has, c.cfg.MaxMissing),
		Heatmap:         BuildHeatmap(query.RequiredSkills, candidate.Skills, c.cfg.HeatmapRequired, c.cfg.HeatmapCandidate),
		Seniority:       ClassifySeniority(candidate.SkillYears),
	}

	breakdown.Contributions = c.computeContributions(contributionInput{
		reqs:            reqs,
		has:             has,
		candidateSkills: candidate.Skills,
		requiredSkills:  query.RequiredSkills,
		semantic:        semantic,
		ratios:          ratios,
		final:           final,
	})
	top := min(len(breakdown.Contributions), c.cfg.TopContributions)
	breakdown.TopContributions = breakdown.Contributions[:top]

	if len(query.RequiredSkills) == 0 {
		breakdown.AddGap("required_skills", "query has no required skills")
	}
	if len(matched) > 0 && len(candidate.SkillYears) == 0 {
		breakdown.AddGap("skill_years", "no experience data, experience match defaults to 0")
	}

	return breakdown
}
