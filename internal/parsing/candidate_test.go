package parsing

import (
	"testing"

	"github.com/jonathan/candidate-ranker/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCandidate(t *testing.T) {
	in := types.Candidate{
		ID:           "c1",
		Skills:       []string{"Golang", "Docker", "docker"},
		SkillYears:   map[string]float64{"Golang": 4},
		RecentSkills: []string{"K8s"},
	}

	out := NormalizeCandidate(in)

	assert.Equal(t, "c1", out.ID)
	assert.Equal(t, []string{"go", "docker"}, out.Skills)
	assert.Equal(t, map[string]float64{"go": 4}, out.SkillYears)
	assert.Equal(t, []string{"kubernetes"}, out.RecentSkills)
	// input untouched
	assert.Equal(t, []string{"Golang", "Docker", "docker"}, in.Skills)
}

func TestNormalizeQuery(t *testing.T) {
	q := NormalizeQuery(types.JobQuery{
		RequiredSkills: []string{"Python", " docker ", "k8s"},
		RequiredYears:  map[string]float64{"Python": 5},
	})

	assert.Equal(t, []string{"python", "docker", "kubernetes"}, q.RequiredSkills)
	assert.Equal(t, 5.0, q.RequiredYears["python"])
}

func TestNormalizeCandidates(t *testing.T) {
	out := NormalizeCandidates([]types.Candidate{
		{ID: "a", Skills: []string{"Java"}},
		{ID: "b", Skills: []string{"RUST"}},
	})

	assert.Len(t, out, 2)
	assert.Equal(t, []string{"java"}, out[0].Skills)
	assert.Equal(t, []string{"rust"}, out[1].Skills)
}
