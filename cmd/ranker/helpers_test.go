package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-ranker/internal/config"
	"github.com/jonathan/candidate-ranker/internal/corpus"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// isolateEnv clears infrastructure variables a developer .env may set
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		config.EnvDatabaseURL,
		config.EnvRedisAddr,
		config.EnvGeminiKey,
		config.EnvLogJSON,
		config.EnvWorkers,
	} {
		t.Setenv(name, "")
	}
}

// runCLI executes the root command in-process and returns its stdout
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolateEnv(t)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func testCorpus() []types.Candidate {
	return []types.Candidate{
		{ID: "1", Name: "Ada", Skills: []string{"python", "docker", "aws"}, Embedding: []float64{1, 0}},
		{ID: "2", Skills: []string{"Python", "Docker"}, Embedding: []float64{0.8, 0.6}},
		{ID: "3", Skills: []string{"java"}, Embedding: []float64{0, 1}},
	}
}

func writeCorpus(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "corpus.json")
	require.NoError(t, corpus.Write(path, testCorpus()))
	return path
}

func writeQuery(t *testing.T, dir string, query types.JobQuery) string {
	t.Helper()
	return writeJSONFile(t, filepath.Join(dir, "query.json"), query)
}

func writeJSONFile(t *testing.T, path string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func testQuery() types.JobQuery {
	return types.JobQuery{
		ID:             "backend",
		Text:           "Backend engineer",
		RequiredSkills: []string{"python", "docker", "kubernetes"},
		Embedding:      []float64{1, 0},
	}
}

func readRankResult(t *testing.T, path string) types.RankResult {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var result types.RankResult
	require.NoError(t, json.Unmarshal(data, &result))
	return result
}

func resultIDs(result types.RankResult) []string {
	out := make([]string, len(result.Candidates))
	for i, c := range result.Candidates {
		out[i] = c.Candidate.ID
	}
	return out
}
