package filter

import (
	"testing"

	"github.com/jonathan/candidate-ranker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCandidate() *types.RankedCandidate {
	return &types.RankedCandidate{
		Candidate: types.Candidate{
			ID:         "c1",
			Name:       "Ada",
			Skills:     []string{"go", "docker", "aws"},
			SkillYears: map[string]float64{"go": 5},
		},
		Breakdown: types.ScoreBreakdown{
			Semantic:      0.8,
			SkillOverlap:  0.5,
			Final:         0.62,
			MatchedSkills: []string{"go"},
			MissingSkills: []types.MissingSkill{{Skill: "kubernetes", Class: "hard", Weight: 1}},
			Seniority:     types.Seniority{Level: "Mid"},
		},
	}
}

func TestCompile_Empty(t *testing.T) {
	f, err := Compile("")
	require.NoError(t, err)
	assert.Nil(t, f)

	ok, err := f.Match(sampleCandidate())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"Syntax", "candidate.final >"},
		{"UnknownVariable", "item.score > 0.5"},
		{"NotBool", `"a" + "b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr)
			var inErr *types.InputError
			require.ErrorAs(t, err, &inErr)
			assert.Equal(t, "filter", inErr.Field)
		})
	}
}

func TestFilter_Match(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		expected bool
	}{
		{"FinalAbove", "candidate.final > 0.5", true},
		{"FinalBelow", "candidate.final > 0.7", false},
		{"SkillPresent", `"go" in candidate.skills`, true},
		{"SkillAbsent", `"rust" in candidate.skills`, false},
		{"Missing", `"kubernetes" in candidate.missing`, true},
		{"Years", `candidate.skill_years["go"] >= 5.0`, true},
		{"Combined", `candidate.seniority == "Mid" && candidate.semantic >= 0.8`, true},
		{"NoRisk", `candidate.risk_level == ""`, true},
		{"Size", "size(candidate.matched) == 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expr)
			require.NoError(t, err)

			ok, err := f.Match(sampleCandidate())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
			assert.Equal(t, tt.expr, f.String())
		})
	}
}

func TestFilter_MatchRisk(t *testing.T) {
	rc := sampleCandidate()
	rc.Risk = &types.RiskProfile{Overall: 0.7, Level: types.RiskHigh}

	f, err := Compile(`candidate.risk_level != "high"`)
	require.NoError(t, err)

	ok, err := f.Match(rc)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilter_MatchEvalError(t *testing.T) {
	f, err := Compile(`candidate.skill_years["rust"] > 1.0`)
	require.NoError(t, err)

	_, err = f.Match(sampleCandidate())
	assert.Error(t, err)
}
