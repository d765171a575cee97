package ranking

import (
	"fmt"
	"testing"

	"github.com/jonathan/candidate-ranker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contributionSum(b types.ScoreBreakdown) float64 {
	sum := 0.0
	for _, c := range b.Contributions {
		sum += c.Contribution
	}
	return sum
}

func TestCompose_ScenarioOrdering(t *testing.T) {
	c := newTestComposer(t, nil)
	query := &types.JobQuery{RequiredSkills: []string{"python", "docker", "kubernetes"}}

	c1 := c.Compose(query, &types.Candidate{ID: "1", Skills: []string{"python", "docker", "aws"}}, 0.8)
	c2 := c.Compose(query, &types.Candidate{ID: "2", Skills: []string{"python", "docker"}}, 0.7)
	c3 := c.Compose(query, &types.Candidate{ID: "3", Skills: []string{"java"}}, 0.1)

	assert.Greater(t, c1.Final, c2.Final)
	assert.Greater(t, c2.Final, c3.Final)

	for _, b := range []types.ScoreBreakdown{c1, c2, c3} {
		missing := make([]string, 0, len(b.MissingSkills))
		for _, m := range b.MissingSkills {
			missing = append(missing, m.Skill)
		}
		assert.Contains(t, missing, "kubernetes")
	}
	assert.Len(t, c1.MissingSkills, 1)
	assert.Len(t, c3.MissingSkills, 3)
}

func TestCompose_FinalFormula(t *testing.T) {
	c := newTestComposer(t, nil)
	query := &types.JobQuery{
		RequiredSkills: []string{"go", "postgres"},
		RequiredYears:  map[string]float64{"go": 4},
	}
	candidate := &types.Candidate{
		ID:         "c",
		Skills:     []string{"go", "docker"},
		SkillYears: map[string]float64{"go": 2},
	}

	b := c.Compose(query, candidate, 0.5)

	assert.InDelta(t, 0.5, b.SkillOverlap, 1e-9)
	assert.InDelta(t, 0.25, b.ExperienceMatch, 1e-9)
	assert.InDelta(t, 0.6*0.5+0.3*0.5+0.1*0.25, b.Final, 1e-9)
	assert.Equal(t, []string{"go"}, b.MatchedSkills)
	assert.Equal(t, "Junior", b.Seniority.Level)
}

func TestCompose_ContributionsSumToFinal(t *testing.T) {
	c := newTestComposer(t, nil)

	queries := []*types.JobQuery{
		{RequiredSkills: []string{"python", "docker", "kubernetes"}},
		{RequiredSkills: []string{"communication", "go", "leadership"}, RequiredYears: map[string]float64{"go": 2}},
		{RequiredSkills: nil},
		{RequiredSkills: []string{"java"}},
	}
	candidates := []*types.Candidate{
		{ID: "a", Skills: []string{"python", "docker", "aws"}, SkillYears: map[string]float64{"python": 5, "docker": 1}},
		{ID: "b", Skills: []string{"go", "communication"}},
		{ID: "c", Skills: nil},
		{ID: "d", Skills: []string{"javascript", "react"}},
	}
	semantics := []float64{0, 0.35, 1}

	for qi, q := range queries {
		for _, cand := range candidates {
			for _, s := range semantics {
				t.Run(fmt.Sprintf("q%d_%s_%.2f", qi, cand.ID, s), func(t *testing.T) {
					b := c.Compose(q, cand, s)
					assert.InDelta(t, b.Final, contributionSum(b), 1e-6)
					assert.GreaterOrEqual(t, b.Final, 0.0)
					assert.LessOrEqual(t, b.Final, 1.0)
				})
			}
		}
	}
}

func TestCompose_MissingSkillsAreNegative(t *testing.T) {
	c := newTestComposer(t, nil)
	query := &types.JobQuery{RequiredSkills: []string{"python", "kubernetes"}}

	b := c.Compose(query, &types.Candidate{ID: "c", Skills: []string{"python"}}, 0.6)

	var k8s, py *types.SkillContribution
	for i := range b.Contributions {
		switch b.Contributions[i].Skill {
		case "kubernetes":
			k8s = &b.Contributions[i]
		case "python":
			py = &b.Contributions[i]
		}
	}
	require.NotNil(t, k8s)
	require.NotNil(t, py)
	assert.Less(t, k8s.Contribution, 0.0)
	assert.Greater(t, py.Contribution, 0.0)
}

func TestCompose_ResidualWithoutSkills(t *testing.T) {
	c := newTestComposer(t, nil)
	query := &types.JobQuery{RequiredSkills: []string{"go"}}

	b := c.Compose(query, &types.Candidate{ID: "c"}, 0.5)

	assert.InDelta(t, 0.3, b.Final, 1e-9)
	assert.InDelta(t, b.Final, contributionSum(b), 1e-9)
	skills := make([]string, 0, len(b.Contributions))
	for _, sc := range b.Contributions {
		skills = append(skills, sc.Skill)
	}
	assert.Contains(t, skills, ProfileResidual)
}

func TestCompose_TopContributionsOrdered(t *testing.T) {
	c := newTestComposer(t, nil)
	query := &types.JobQuery{RequiredSkills: []string{"go", "python", "java", "rust", "sql", "aws"}}
	candidate := &types.Candidate{ID: "c", Skills: []string{"go", "python", "docker"}}

	b := c.Compose(query, candidate, 0.4)

	require.Len(t, b.TopContributions, 5)
	for i := 1; i < len(b.Contributions); i++ {
		prev := b.Contributions[i-1].Contribution
		cur := b.Contributions[i].Contribution
		assert.GreaterOrEqual(t, abs(prev), abs(cur))
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestCompose_MissingSkillsOrder(t *testing.T) {
	c := newTestComposer(t, nil)
	query := &types.JobQuery{RequiredSkills: []string{"communication", "python", "teamwork", "go"}}

	b := c.Compose(query, &types.Candidate{ID: "c", Skills: []string{"java"}}, 0)

	got := make([]string, 0, len(b.MissingSkills))
	for _, m := range b.MissingSkills {
		got = append(got, m.Skill)
	}
	assert.Equal(t, []string{"python", "go", "communication", "teamwork"}, got)
	assert.Equal(t, "hard", b.MissingSkills[0].Class)
	assert.Equal(t, "soft", b.MissingSkills[2].Class)
}

func TestCompose_MissingSkillsCapped(t *testing.T) {
	c := newTestComposer(t, nil)
	required := make([]string, 14)
	for i := range required {
		required[i] = fmt.Sprintf("skill-%02d", i)
	}

	b := c.Compose(&types.JobQuery{RequiredSkills: required}, &types.Candidate{ID: "c"}, 0)

	require.Len(t, b.MissingSkills, 10)
	assert.Equal(t, "skill-00", b.MissingSkills[0].Skill)
	assert.Equal(t, "skill-09", b.MissingSkills[9].Skill)
}

func TestCompose_DataGaps(t *testing.T) {
	c := newTestComposer(t, nil)

	b := c.Compose(&types.JobQuery{RequiredSkills: []string{"go"}}, &types.Candidate{ID: "c", Skills: []string{"go"}}, 0)
	assert.True(t, b.LowConfidence)
	require.Len(t, b.DataQuality, 1)
	assert.Equal(t, "skill_years", b.DataQuality[0].Field)

	b = c.Compose(&types.JobQuery{}, &types.Candidate{ID: "c", Skills: []string{"go"}}, 0.2)
	assert.True(t, b.LowConfidence)
	assert.Equal(t, "required_skills", b.DataQuality[0].Field)
	assert.Equal(t, 0.0, b.SkillOverlap)
	assert.InDelta(t, 0.12, b.Final, 1e-9)
}
