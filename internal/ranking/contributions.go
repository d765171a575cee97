package ranking

import (
	"math"
	"sort"

	"github.com/jonathan/candidate-ranker/internal/skills"
	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	// ProfileResidual carries score mass that no skill can hold, such as semantic
	// similarity of a candidate without skills
	ProfileResidual = "[profile]"

	// semanticFloor is the minimum share weight of a candidate skill unrelated to the query
	semanticFloor = 0.1
)

// contributionInput gathers the term values a breakdown is derived from
type contributionInput struct {
	reqs            []requirement
	has             map[string]bool
	candidateSkills []string
	requiredSkills  []string
	semantic        float64
	ratios          []float64
	final           float64
}

// computeContributions attributes the final score to skills. Matched requirements get
// their overlap share plus experience share, and semantic similarity is spread over the
// candidate's skills by how well each matches the query. Missing requirements carry the
// negative of the overlap share they would have earned. Positive shares are then scaled
// so that all contributions sum to the final score.
func (c *Composer) computeContributions(in contributionInput) []types.SkillContribution {
	w := c.cfg.Weights
	positive := make(map[string]float64)
	negative := make(map[string]float64)
	order := make([]string, 0, len(in.candidateSkills)+len(in.reqs))
	seen := make(map[string]bool)
	track := func(s string) {
		if !seen[s] {
			seen[s] = true
			order = append(order, s)
		}
	}

	totalWeight := 0.0
	for _, r := range in.reqs {
		totalWeight += r.weight
	}

	for i, r := range in.reqs {
		track(r.skill)
		share := 0.0
		if totalWeight > 0 {
			share = w.Overlap * r.weight / totalWeight
		}
		if in.has[r.skill] {
			positive[r.skill] += share
			positive[r.skill] += w.Experience * in.ratios[i] / float64(len(in.reqs))
		} else {
			negative[r.skill] -= share
		}
	}

	semanticMass := w.Semantic * in.semantic
	relevance := make(map[string]float64, len(in.candidateSkills))
	relevanceTotal := 0.0
	for _, s := range in.candidateSkills {
		track(s)
		rel := math.Max(bestTier(s, in.requiredSkills), semanticFloor)
		relevance[s] = rel
		relevanceTotal += rel
	}
	if relevanceTotal > 0 {
		for s, rel := range relevance {
			positive[s] += semanticMass * rel / relevanceTotal
		}
	}

	posSum, negSum := 0.0, 0.0
	for _, v := range positive {
		posSum += v
	}
	for _, v := range negative {
		negSum -= v
	}

	contributions := make([]types.SkillContribution, 0, len(order)+1)
	if posSum > 0 {
		scale := (in.final + negSum) / posSum
		for _, s := range order {
			contributions = append(contributions, types.SkillContribution{
				Skill:        s,
				Contribution: positive[s]*scale + negative[s],
			})
		}
	} else {
		for _, s := range order {
			contributions = append(contributions, types.SkillContribution{Skill: s, Contribution: negative[s]})
		}
		if residual := in.final + negSum; residual != 0 {
			contributions = append(contributions, types.SkillContribution{Skill: ProfileResidual, Contribution: residual})
		}
	}

	sort.SliceStable(contributions, func(i, j int) bool {
		ai, aj := math.Abs(contributions[i].Contribution), math.Abs(contributions[j].Contribution)
		if ai != aj {
			return ai > aj
		}
		return contributions[i].Skill < contributions[j].Skill
	})
	return contributions
}

// missingSkills returns required skills the candidate lacks, hard before soft and then
// in query order, capped at limit.
func missingSkills(reqs []requirement, has map[string]bool, limit int) []types.MissingSkill {
	missing := make([]requirement, 0)
	for _, r := range reqs {
		if !has[r.skill] {
			missing = append(missing, r)
		}
	}
	sort.SliceStable(missing, func(i, j int) bool {
		if missing[i].priority != missing[j].priority {
			return missing[i].priority > missing[j].priority
		}
		return missing[i].class == skills.ClassHard && missing[j].class == skills.ClassSoft
	})
	if len(missing) > limit {
		missing = missing[:limit]
	}

	out := make([]types.MissingSkill, len(missing))
	for i, r := range missing {
		out[i] = types.MissingSkill{Skill: r.skill, Class: string(r.class), Weight: r.priority}
	}
	return out
}
