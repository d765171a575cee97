package graph

import (
	"errors"
	"testing"

	"github.com/jonathan/candidate-ranker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioCorpus() []types.Candidate {
	return []types.Candidate{
		{ID: "c1", Skills: []string{"python", "docker", "aws"}},
		{ID: "c2", Skills: []string{"python", "docker"}},
		{ID: "c3", Skills: []string{"java"}},
	}
}

func TestBuild_Counts(t *testing.T) {
	g := Build(scenarioCorpus())

	assert.Equal(t, 2, g.Frequency("python"))
	assert.Equal(t, 2, g.Frequency("docker"))
	assert.Equal(t, 1, g.Frequency("aws"))
	assert.Equal(t, 1, g.Frequency("java"))
	assert.Equal(t, 0, g.Frequency("kubernetes"))

	assert.Equal(t, 2, g.CoOccurrence("python", "docker"))
	assert.Equal(t, 2, g.CoOccurrence("docker", "python"))
	assert.Equal(t, 1, g.CoOccurrence("docker", "aws"))
	assert.Equal(t, 0, g.CoOccurrence("java", "python"))
	assert.Equal(t, 3, g.ResumeCount())
}

func TestBuild_FrequencyOncePerCandidate(t *testing.T) {
	g := Build([]types.Candidate{
		{ID: "c1", Skills: []string{"Go", "golang", "go"}},
	})

	assert.Equal(t, 1, g.Frequency("go"))
	assert.Equal(t, 0, g.CoOccurrence("go", "go"))
	require.NoError(t, g.Validate())
}

func TestAdjacency(t *testing.T) {
	g := Build(scenarioCorpus())

	assert.InDelta(t, 1.0, g.Adjacency("python", "docker"), 1e-12)
	assert.InDelta(t, 1.0, g.Adjacency("aws", "docker"), 1e-12)
	assert.Equal(t, 0.0, g.Adjacency("java", "python"))
	assert.Equal(t, 0.0, g.Adjacency("kubernetes", "docker"))
}

func TestAdjacency_SymmetricAndBounded(t *testing.T) {
	corpus := []types.Candidate{
		{ID: "1", Skills: []string{"go", "docker", "kubernetes", "aws"}},
		{ID: "2", Skills: []string{"go", "postgres"}},
		{ID: "3", Skills: []string{"docker", "kubernetes"}},
		{ID: "4", Skills: []string{"python", "aws", "docker"}},
		{ID: "5", Skills: []string{"java", "spring", "docker"}},
	}
	g := Build(corpus)

	skills := []string{"go", "docker", "kubernetes", "aws", "postgres", "python", "java", "spring", "rust"}
	for _, a := range skills {
		for _, b := range skills {
			ab := g.Adjacency(a, b)
			assert.Equal(t, ab, g.Adjacency(b, a), "%s/%s", a, b)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.LessOrEqual(t, ab, 1.0)
		}
	}
}

func TestBuild_Idempotent(t *testing.T) {
	first := Build(scenarioCorpus())
	second := Build(scenarioCorpus())

	assert.Equal(t, first.Data(), second.Data())
}

func TestStats(t *testing.T) {
	stats := Build(scenarioCorpus()).Stats()

	assert.Equal(t, 4, stats.SkillCount)
	// python-docker, python-aws, docker-aws
	assert.Equal(t, 3, stats.EdgeCount)
	assert.Equal(t, 3, stats.ResumeCount)
}

func TestStats_Empty(t *testing.T) {
	stats := Build(nil).Stats()

	assert.Equal(t, types.GraphStats{}, stats)
}

func TestRelatedSkills(t *testing.T) {
	g := Build([]types.Candidate{
		{ID: "1", Skills: []string{"docker", "kubernetes"}},
		{ID: "2", Skills: []string{"docker", "kubernetes", "aws"}},
		{ID: "3", Skills: []string{"docker", "python"}},
		{ID: "4", Skills: []string{"python"}},
		{ID: "5", Skills: []string{"python"}},
	})

	related := g.RelatedSkills("Docker", 0)
	require.Len(t, related, 3)
	assert.Equal(t, "aws", related[0].Skill)
	assert.InDelta(t, 1.0, related[0].Adjacency, 1e-12)
	assert.Equal(t, "kubernetes", related[1].Skill)
	assert.InDelta(t, 1.0, related[1].Adjacency, 1e-12)
	assert.Equal(t, "python", related[2].Skill)
	assert.InDelta(t, 1.0/3.0, related[2].Adjacency, 1e-12)

	assert.Len(t, g.RelatedSkills("docker", 1), 1)
	assert.Nil(t, g.RelatedSkills("cobol", 5))
}

func TestFromData_RoundTrip(t *testing.T) {
	g := Build(scenarioCorpus())

	restored, err := FromData(g.Data())
	require.NoError(t, err)
	assert.Equal(t, g.Stats(), restored.Stats())
	assert.Equal(t, g.Adjacency("python", "docker"), restored.Adjacency("python", "docker"))
}

func TestFromData_Asymmetric(t *testing.T) {
	d := Data{
		CoOccurrence: map[string]map[string]int{
			"go":     {"docker": 1},
			"docker": {"go": 2},
		},
		Frequencies: map[string]int{"go": 2, "docker": 2},
		ResumeCount: 2,
	}

	_, err := FromData(d)
	require.Error(t, err)

	var consErr *types.ConsistencyError
	assert.True(t, errors.As(err, &consErr))
	assert.Contains(t, err.Error(), "asymmetric")
}

func TestFromData_CoOccurrenceExceedsFrequency(t *testing.T) {
	d := Data{
		CoOccurrence: map[string]map[string]int{
			"go":     {"docker": 3},
			"docker": {"go": 3},
		},
		Frequencies: map[string]int{"go": 1, "docker": 3},
		ResumeCount: 3,
	}

	_, err := FromData(d)
	var consErr *types.ConsistencyError
	require.ErrorAs(t, err, &consErr)
	assert.Contains(t, err.Error(), "exceeds skill frequency")
}
