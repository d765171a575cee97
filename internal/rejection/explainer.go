// Package rejection explains why a scored candidate fell below the minimum final score,
// suggests learning paths for the missing required skills and estimates whether the
// candidate is worth reconsidering once those skills are acquired.
package rejection

import (
	"fmt"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/learnability"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Reason categories
const (
	CategoryMissingSkills  = "missing_skills"
	CategorySkillGaps      = "skill_gaps"
	CategoryExperienceGap  = "experience_gap"
	CategoryPoorMatch      = "poor_match"
	CategoryBelowThreshold = "below_threshold"
)

// Recommendation templates keyed by reconsideration band
const (
	RecommendHigh  = "High priority: reconsider in %d weeks, strong learning potential."
	RecommendTrack = "Worth tracking: reconsider in %d weeks if the missing skills are acquired."
	RecommendPool  = "Keep in the talent pool: reconsider in %d or more weeks."
	RecommendNone  = "Not recommended: significant skill gaps, unlikely to be viable soon."
)

const (
	// MaxLearningPaths caps the missing skills considered for learning paths
	MaxLearningPaths = 8

	maxListedSkills  = 5
	poorMatchScore   = 0.4
	criticalMissing  = 5
	highMissing      = 3
	experienceHigh   = 0.5
	experienceMedium = 0.75

	closenessWeight    = 0.4
	learnabilityWeight = 0.4
	criticalPenalty    = 0.5
	highPenalty        = 0.3
	// readyFraction is the share of the total ramp-up expected before a review
	readyFraction = 0.7
)

// fitBand maps a reconsideration lower bound to a probability of fit and recommendation
type fitBand struct {
	min            float64
	probability    float64
	recommendation string
}

var fitBands = []fitBand{
	{0.7, 0.85, RecommendHigh},
	{0.5, 0.65, RecommendTrack},
	{0.3, 0.45, RecommendPool},
	{0.0, 0.20, RecommendNone},
}

// Explainer builds rejection explanations. It holds no mutable state and is safe for
// concurrent use.
type Explainer struct {
	predictor *learnability.Predictor
}

// NewExplainer creates an Explainer. Learning paths use the adjacency settings of cfg but
// report every missing skill with nonzero learnability.
func NewExplainer(cfg learnability.Config) (*Explainer, error) {
	cfg.Threshold = 0
	cfg.MaxResults = MaxLearningPaths
	p, err := learnability.NewPredictor(cfg)
	if err != nil {
		return nil, err
	}
	return &Explainer{predictor: p}, nil
}

// Explain builds the rejection of a ranked candidate whose final score is below
// threshold. known are the candidate's canonical skills; query must be normalized.
func (x *Explainer) Explain(g learnability.Adjacency, known []string, query *types.JobQuery, rc *types.RankedCandidate, threshold float64) types.Rejection {
	b := rc.Breakdown

	missing := make([]string, len(b.MissingSkills))
	for i, m := range b.MissingSkills {
		missing[i] = m.Skill
	}
	if len(missing) > MaxLearningPaths {
		missing = missing[:MaxLearningPaths]
	}

	reasons := rejectionReasons(b, missing, len(query.RequiredYears) > 0, threshold)
	paths := x.predictor.Predict(g, known, missing)

	return types.Rejection{
		CandidateID:     rc.Candidate.ID,
		Final:           b.Final,
		Threshold:       threshold,
		Reasons:         reasons,
		LearningPaths:   paths,
		Reconsideration: reconsider(b.Final, threshold, missing, paths, reasons),
	}
}

func rejectionReasons(b types.ScoreBreakdown, missing []string, yearsRequired bool, threshold float64) []types.RejectionReason {
	var reasons []types.RejectionReason

	n := len(b.MissingSkills)
	switch {
	case n >= criticalMissing:
		reasons = append(reasons, types.RejectionReason{
			Category:    CategoryMissingSkills,
			Severity:    types.SeverityCritical,
			Description: fmt.Sprintf("Missing %d required skills: %s", n, listSkills(missing)),
		})
	case n >= highMissing:
		reasons = append(reasons, types.RejectionReason{
			Category:    CategoryMissingSkills,
			Severity:    types.SeverityHigh,
			Description: fmt.Sprintf("Missing %d required skills: %s", n, listSkills(missing)),
		})
	case n >= 1:
		reasons = append(reasons, types.RejectionReason{
			Category:    CategorySkillGaps,
			Severity:    types.SeverityMedium,
			Description: fmt.Sprintf("Missing some skills: %s", listSkills(missing)),
		})
	}

	if yearsRequired {
		switch {
		case b.ExperienceMatch < experienceHigh:
			reasons = append(reasons, types.RejectionReason{
				Category:    CategoryExperienceGap,
				Severity:    types.SeverityHigh,
				Description: fmt.Sprintf("Experience covers %.0f%% of the required years", b.ExperienceMatch*100),
			})
		case b.ExperienceMatch < experienceMedium:
			reasons = append(reasons, types.RejectionReason{
				Category:    CategoryExperienceGap,
				Severity:    types.SeverityMedium,
				Description: fmt.Sprintf("Experience covers %.0f%% of the preferred years", b.ExperienceMatch*100),
			})
		}
	}

	if b.Final < poorMatchScore {
		reasons = append(reasons, types.RejectionReason{
			Category:    CategoryPoorMatch,
			Severity:    types.SeverityCritical,
			Description: fmt.Sprintf("Final score %.0f%% is well below the threshold of %.0f%%", b.Final*100, threshold*100),
		})
	} else {
		reasons = append(reasons, types.RejectionReason{
			Category:    CategoryBelowThreshold,
			Severity:    types.SeverityHigh,
			Description: fmt.Sprintf("Final score %.0f%% is below the threshold of %.0f%%", b.Final*100, threshold*100),
		})
	}
	return reasons
}

// reconsider weighs how close the candidate came and how learnable the missing skills are,
// less a penalty per critical or high severity reason. Missing skills without a learning
// path count as unlearnable.
func reconsider(final, threshold float64, missing []string, paths []types.LearnableSkill, reasons []types.RejectionReason) types.Reconsideration {
	closeness := 0.0
	if threshold > 0 {
		closeness = final / threshold
	}

	learned := make(map[string]float64, len(paths))
	for _, p := range paths {
		learned[p.Skill] = p.Learnability
	}
	avg := 0.0
	weeks := 0
	for _, m := range missing {
		avg += learned[m]
		weeks += learnability.RampTime(learned[m]).MaxWeeks
	}
	if len(missing) > 0 {
		avg /= float64(len(missing))
	}

	penalty := 0.0
	for _, r := range reasons {
		switch r.Severity {
		case types.SeverityCritical:
			penalty += criticalPenalty
		case types.SeverityHigh:
			penalty += highPenalty
		}
	}

	score := clamp01(closenessWeight*closeness + learnabilityWeight*avg - penalty)
	ready := int(float64(weeks) * readyFraction)

	band := fitBands[len(fitBands)-1]
	for _, fb := range fitBands {
		if score >= fb.min {
			band = fb
			break
		}
	}
	recommendation := band.recommendation
	if strings.Contains(recommendation, "%d") {
		recommendation = fmt.Sprintf(recommendation, ready)
	}

	return types.Reconsideration{
		Score:            score,
		ReadyInWeeks:     ready,
		ProbabilityOfFit: band.probability,
		Recommendation:   recommendation,
	}
}

func listSkills(skills []string) string {
	if len(skills) > maxListedSkills {
		skills = skills[:maxListedSkills]
	}
	return strings.Join(skills, ", ")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
