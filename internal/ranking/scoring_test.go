package ranking

import (
	"testing"

	"github.com/jonathan/candidate-ranker/internal/skills"
	"github.com/jonathan/candidate-ranker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComposer(t *testing.T, mutate func(*Config)) *Composer {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := NewComposer(cfg, nil)
	require.NoError(t, err)
	return c
}

func hasSet(skills ...string) map[string]bool {
	m := make(map[string]bool, len(skills))
	for _, s := range skills {
		m[s] = true
	}
	return m
}

func TestComputeSkillOverlapScore_HardSoftWeighting(t *testing.T) {
	c := newTestComposer(t, nil)
	reqs := c.requirements([]string{"python", "communication"})

	score, matched := computeSkillOverlapScore(reqs, hasSet("communication"))

	assert.InDelta(t, 0.3/1.3, score, 1e-9)
	assert.Equal(t, []string{"communication"}, matched)
}

func TestComputeSkillOverlapScore_Unweighted(t *testing.T) {
	c := newTestComposer(t, func(cfg *Config) { cfg.HardSoftWeighting = false })
	reqs := c.requirements([]string{"python", "communication"})

	score, _ := computeSkillOverlapScore(reqs, hasSet("communication"))

	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestComputeSkillOverlapScore_CustomClassWeights(t *testing.T) {
	c := newTestComposer(t, func(cfg *Config) { cfg.ClassWeights = skills.Weights{Hard: 1, Soft: 0.5} })
	reqs := c.requirements([]string{"python", "communication"})

	require.Len(t, reqs, 2)
	assert.Equal(t, skills.ClassSoft, reqs[1].class)
	assert.Equal(t, 0.5, reqs[1].priority)

	score, _ := computeSkillOverlapScore(reqs, hasSet("python"))
	assert.InDelta(t, 1/1.5, score, 1e-9)
}

func TestComputeSkillOverlapScore_NoRequirements(t *testing.T) {
	score, matched := computeSkillOverlapScore(nil, hasSet("go"))

	assert.Equal(t, 0.0, score)
	assert.Empty(t, matched)
}

func TestComputeExperienceMatchScore(t *testing.T) {
	c := newTestComposer(t, nil)
	reqs := c.requirements([]string{"python", "docker", "kubernetes"})

	ratios := experienceRatios(reqs,
		hasSet("python", "docker"),
		map[string]float64{"python": 10, "docker": 1.5},
		map[string]float64{"python": 5},
		DefaultRequiredYears,
	)

	assert.Equal(t, []float64{1.0, 0.5, 0.0}, ratios)
	assert.InDelta(t, 0.5, computeExperienceMatchScore(ratios), 1e-9)
	assert.Equal(t, 0.0, computeExperienceMatchScore(nil))
}

func TestWeights_Validate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())

	err := Weights{Semantic: 0.5, Overlap: 0.3, Experience: 0.1}.Validate()
	var inErr *types.InputError
	require.ErrorAs(t, err, &inErr)
	assert.Equal(t, "score_weights", inErr.Field)

	err = Weights{Semantic: 1.2, Overlap: -0.2}.Validate()
	require.ErrorAs(t, err, &inErr)
}

func TestNewComposer_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultRequiredYears = 0

	_, err := NewComposer(cfg, nil)
	var inErr *types.InputError
	require.ErrorAs(t, err, &inErr)
	assert.Equal(t, "default_required_years", inErr.Field)
}
