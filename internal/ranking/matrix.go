package ranking

import (
	"sort"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/parsing"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// MatchTier compares a required skill with a candidate skill after case and whitespace
// normalization. Equal tokens are exact, a token contained in the other is partial.
func MatchTier(required, candidate string) types.HeatmapTier {
	r := parsing.NormalizeToken(required)
	c := parsing.NormalizeToken(candidate)
	if r == "" || c == "" {
		return types.TierNone
	}
	if r == c {
		return types.TierExact
	}
	if strings.Contains(r, c) || strings.Contains(c, r) {
		return types.TierPartial
	}
	return types.TierNone
}

// BuildHeatmap builds the required x candidate match matrix. Required skills keep query
// order, which is their importance order, and are capped at maxRequired. Candidate skills
// are ordered by their best match against the kept required skills, stable on input
// order, and capped at maxCandidate.
func BuildHeatmap(required, candidate []string, maxRequired, maxCandidate int) types.Heatmap {
	if len(required) > maxRequired {
		required = required[:maxRequired]
	}
	candidate = append([]string(nil), candidate...)
	best := make(map[string]float64, len(candidate))
	for _, c := range candidate {
		best[c] = bestTier(c, required)
	}
	sort.SliceStable(candidate, func(i, j int) bool {
		return best[candidate[i]] > best[candidate[j]]
	})
	if len(candidate) > maxCandidate {
		candidate = candidate[:maxCandidate]
	}

	hm := types.Heatmap{
		RequiredSkills:  append([]string(nil), required...),
		CandidateSkills: candidate,
		Tiers:           make([][]types.HeatmapTier, len(required)),
		Values:          make([][]float64, len(required)),
	}
	for i, r := range required {
		hm.Tiers[i] = make([]types.HeatmapTier, len(candidate))
		hm.Values[i] = make([]float64, len(candidate))
		for j, c := range candidate {
			tier := MatchTier(r, c)
			hm.Tiers[i][j] = tier
			hm.Values[i][j] = tier.Value()
		}
	}
	return hm
}

// bestTier returns the strongest match value of a candidate skill against any required skill
func bestTier(skill string, required []string) float64 {
	best := 0.0
	for _, r := range required {
		if v := MatchTier(r, skill).Value(); v > best {
			best = v
			if best == 1.0 {
				break
			}
		}
	}
	return best
}
