package parsing

import "github.com/jonathan/candidate-ranker/internal/types"

// NormalizeCandidate returns a copy of the candidate with canonical skill tokens.
// Vectors and work history are shared with the input and must not be mutated.
func NormalizeCandidate(c types.Candidate) types.Candidate {
	out := c
	out.Skills = NormalizeSkills(c.Skills)
	out.SkillYears = NormalizeYears(c.SkillYears)
	out.RecentSkills = NormalizeSkills(c.RecentSkills)
	return out
}

// NormalizeCandidates normalizes every candidate of a corpus snapshot
func NormalizeCandidates(candidates []types.Candidate) []types.Candidate {
	out := make([]types.Candidate, len(candidates))
	for i, c := range candidates {
		out[i] = NormalizeCandidate(c)
	}
	return out
}

// NormalizeQuery returns a copy of the query with canonical required skills
func NormalizeQuery(q types.JobQuery) types.JobQuery {
	out := q
	out.RequiredSkills = NormalizeSkills(q.RequiredSkills)
	out.RequiredYears = NormalizeYears(q.RequiredYears)
	return out
}
