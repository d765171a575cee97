package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-ranker/internal/engine"
)

func TestRankCommand_Success(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpus(t, dir)
	queryPath := writeQuery(t, dir, testQuery())
	outPath := filepath.Join(dir, "out", "result.json")

	output, err := runCLI(t, "rank", "--corpus", corpusPath, "--query", queryPath, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, output, "Successfully ranked 3 candidates")

	result := readRankResult(t, outPath)
	assert.Equal(t, []string{"1", "2", "3"}, resultIDs(result))
	assert.Equal(t, 3, result.Considered)
	assert.NotEmpty(t, result.RequestID)
	assert.NotEmpty(t, result.SnapshotVersion)
	for _, rc := range result.Candidates {
		assert.Nil(t, rc.Risk)
	}
}

func TestRankCommand_TopKAndRisk(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpus(t, dir)
	queryPath := writeQuery(t, dir, testQuery())
	outPath := filepath.Join(dir, "result.json")

	_, err := runCLI(t, "rank", "--corpus", corpusPath, "--query", queryPath, "--out", outPath,
		"--top-k", "1", "--risk")
	require.NoError(t, err)

	result := readRankResult(t, outPath)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "1", result.Candidates[0].Candidate.ID)
	assert.NotNil(t, result.Candidates[0].Risk)
}

func TestRankCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpus(t, dir)
	queryPath := writeQuery(t, dir, testQuery())
	outPath := filepath.Join(dir, "result.json")

	_, err := runCLI(t, "rank", "--corpus", corpusPath, "--query", queryPath, "--out", outPath,
		"--filter", `"java" in candidate.skills`)
	require.NoError(t, err)

	result := readRankResult(t, outPath)
	assert.Equal(t, []string{"3"}, resultIDs(result))
}

func TestRankCommand_InvalidFilter(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpus(t, dir)
	queryPath := writeQuery(t, dir, testQuery())

	_, err := runCLI(t, "rank", "--corpus", corpusPath, "--query", queryPath,
		"--out", filepath.Join(dir, "result.json"), "--filter", "candidate.final >")
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "result.json"))
}

func TestRankCommand_MinSimilarityAndRejections(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpus(t, dir)
	queryPath := writeQuery(t, dir, testQuery())
	outPath := filepath.Join(dir, "result.json")

	output, err := runCLI(t, "rank", "--corpus", corpusPath, "--query", queryPath, "--out", outPath,
		"--min-similarity", "0.7", "--explain-rejections", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, output, "BELOW THRESHOLD")

	result := readRankResult(t, outPath)
	assert.Equal(t, []string{"1"}, resultIDs(result))
	require.Len(t, result.Rejections, 2)
	assert.Equal(t, "2", result.Rejections[0].CandidateID)
	assert.Equal(t, 0.7, result.Rejections[0].Threshold)

	flag := newRankCmd(&globalOptions{}).Flags().Lookup("min-similarity")
	require.NotNil(t, flag)
	assert.Contains(t, flag.Usage, "final score")
}

func TestRankCommand_Verbose(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpus(t, dir)
	queryPath := writeQuery(t, dir, testQuery())

	output, err := runCLI(t, "rank", "--corpus", corpusPath, "--query", queryPath,
		"--out", filepath.Join(dir, "result.json"), "--risk", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, output, "Ada (1)")
}

func TestRankCommand_MetricsOut(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpus(t, dir)
	queryPath := writeQuery(t, dir, testQuery())
	metricsPath := filepath.Join(dir, "metrics.prom")

	_, err := runCLI(t, "rank", "--corpus", corpusPath, "--query", queryPath,
		"--out", filepath.Join(dir, "result.json"), "--metrics-out", metricsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), engine.MetricRankRequestsTotal)
	assert.Contains(t, string(data), engine.MetricSnapshotCandidates)
}

func TestRankCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpus(t, dir)
	queryPath := writeQuery(t, dir, testQuery())
	outPath := filepath.Join(dir, "result.json")
	configPath := filepath.Join(dir, "ranker.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("rank:\n  top_k: 2\n"), 0644))

	_, err := runCLI(t, "--config", configPath, "rank", "--corpus", corpusPath, "--query", queryPath, "--out", outPath)
	require.NoError(t, err)

	result := readRankResult(t, outPath)
	assert.Len(t, result.Candidates, 2)
}

func TestRankCommand_MissingQueryFlag(t *testing.T) {
	_, err := runCLI(t, "rank", "--corpus", "corpus.json", "--out", "out.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestRankCommand_NoSource(t *testing.T) {
	dir := t.TempDir()
	queryPath := writeQuery(t, dir, testQuery())

	_, err := runCLI(t, "rank", "--query", queryPath, "--out", filepath.Join(dir, "result.json"))
	require.ErrorIs(t, err, errNoSource)
}

func TestRankCommand_InvalidCorpus(t *testing.T) {
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "corpus.json")
	require.NoError(t, os.WriteFile(corpusPath, []byte(`{"candidates": [{"name": "no id"}]}`), 0644))
	queryPath := writeQuery(t, dir, testQuery())

	_, err := runCLI(t, "rank", "--corpus", corpusPath, "--query", queryPath, "--out", filepath.Join(dir, "result.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")
}

func TestRankCommand_QueryNotFound(t *testing.T) {
	dir := t.TempDir()
	corpusPath := writeCorpus(t, dir)

	_, err := runCLI(t, "rank", "--corpus", corpusPath, "--query", filepath.Join(dir, "missing.json"),
		"--out", filepath.Join(dir, "result.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read query file")
}
