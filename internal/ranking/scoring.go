package ranking

import (
	"math"

	"github.com/jonathan/candidate-ranker/internal/skills"
)

// requirement is a required skill with its class and overlap weight
type requirement struct {
	skill    string
	class    skills.Class
	weight   float64 // weight used by the overlap term
	priority float64 // class weight, used to order missing skills
	position int
}

func (c *Composer) requirements(required []string) []requirement {
	reqs := make([]requirement, 0, len(required))
	for i, s := range required {
		priority := c.classifier.Weight(s, c.cfg.ClassWeights)
		weight := 1.0
		if c.cfg.HardSoftWeighting {
			weight = priority
		}
		reqs = append(reqs, requirement{skill: s, class: c.classifier.Classify(s), weight: weight, priority: priority, position: i})
	}
	return reqs
}

// computeSkillOverlapScore returns matched weight over total required weight and the
// matched skills in query order.
func computeSkillOverlapScore(reqs []requirement, has map[string]bool) (float64, []string) {
	if len(reqs) == 0 {
		return 0.0, nil
	}

	var total, matchedWeight float64
	var matched []string
	for _, r := range reqs {
		total += r.weight
		if has[r.skill] {
			matchedWeight += r.weight
			matched = append(matched, r.skill)
		}
	}

	// Normalize by total possible weight
	if total == 0 {
		return 0.0, matched
	}
	return matchedWeight / total, matched
}

// experienceRatios returns min(years/required_years, 1) per requirement. Missing skills
// and skills without years yield 0.
func experienceRatios(reqs []requirement, has map[string]bool, years, required map[string]float64, baseline float64) []float64 {
	ratios := make([]float64, len(reqs))
	for i, r := range reqs {
		if !has[r.skill] {
			continue
		}
		req := required[r.skill]
		if req <= 0 {
			req = baseline
		}
		ratios[i] = math.Min(math.Max(years[r.skill], 0)/req, 1.0)
	}
	return ratios
}

// computeExperienceMatchScore averages the per-requirement experience ratios
func computeExperienceMatchScore(ratios []float64) float64 {
	if len(ratios) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, r := range ratios {
		sum += r
	}
	return sum / float64(len(ratios))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
