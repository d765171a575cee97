package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-ranker/internal/types"
)

func TestRebuildGraphCommand_PersistsToCacheDir(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpus(t, dir)
	cacheDir := filepath.Join(dir, "cache")
	statsPath := filepath.Join(dir, "stats.json")

	output, err := runCLI(t, "rebuild-graph", "--corpus", corpusPath, "--cache-dir", cacheDir, "--out", statsPath)
	require.NoError(t, err)
	assert.Contains(t, output, "Rebuilt skill graph")
	assert.Contains(t, output, "from 3 resumes")

	data, err := os.ReadFile(statsPath)
	require.NoError(t, err)
	var stats types.GraphStats
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, 4, stats.SkillCount)
	assert.Equal(t, 3, stats.EdgeCount)
	assert.Equal(t, 3, stats.ResumeCount)
	assert.NotEmpty(t, stats.Version)

	assert.FileExists(t, filepath.Join(cacheDir, "latest"))
	assert.FileExists(t, filepath.Join(cacheDir, "graph-"+stats.Version+".json"))
}

func TestRebuildGraphCommand_WithoutCache(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpus(t, dir)

	output, err := runCLI(t, "rebuild-graph", "--corpus", corpusPath)
	require.NoError(t, err)
	assert.Contains(t, output, "4 skills, 3 edges")
}

func TestRebuildGraphCommand_Verbose(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpus(t, dir)

	output, err := runCLI(t, "rebuild-graph", "--corpus", corpusPath, "-v")
	require.NoError(t, err)
	assert.Contains(t, output, "SKILL GRAPH")
}

func TestRebuildGraphCommand_DuplicateCandidates(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeJSONFile(t, filepath.Join(dir, "corpus.json"), types.Corpus{Candidates: []types.Candidate{
		{ID: "1", Skills: []string{"go"}},
		{ID: "1", Skills: []string{"rust"}},
	}})

	_, err := runCLI(t, "rebuild-graph", "--corpus", corpusPath, "--cache-dir", filepath.Join(dir, "cache"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to rebuild graph")
	assert.NoFileExists(t, filepath.Join(dir, "cache", "latest"))
}

func TestRebuildGraphCommand_NoSource(t *testing.T) {
	_, err := runCLI(t, "rebuild-graph")
	require.ErrorIs(t, err, errNoSource)
}
