package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-ranker/internal/engine"
	"github.com/jonathan/candidate-ranker/internal/lexical"
	"github.com/jonathan/candidate-ranker/internal/risk"
	"github.com/jonathan/candidate-ranker/internal/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDatabaseURL, EnvRedisAddr, EnvGeminiKey, EnvLogJSON, EnvWorkers} {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultsOnly(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, engine.DefaultTopK, cfg.Rank.TopK)
	assert.Equal(t, engine.DefaultPrefilterN, cfg.Rank.PrefilterN)
	assert.True(t, cfg.Rank.HardSoftWeighting)
	assert.Equal(t, 10*time.Second, cfg.Rank.EmbedTimeout)
	assert.Equal(t, lexical.DefaultParams(), cfg.BM25)
	assert.Equal(t, risk.DefaultConfig().Weights, cfg.Risk.Weights)
	assert.ElementsMatch(t, risk.DefaultConfig().Deprecated, cfg.Risk.Deprecated)
	assert.Equal(t, 0.7, cfg.Rank.Blend.Semantic)
}

func TestLoad_YAMLOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "ranker.yaml", `
workers: 4
cache_dir: /tmp/graphs
bm25:
  k1: 1.2
rank:
  top_k: 5
  hard_soft_weighting: false
  embed_timeout: 2s
  blend:
    lexical: 0.5
    semantic: 0.5
  filter: candidate.final > 0.5
risk:
  deprecated: [cobol]
  domains:
    node.js: web
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "/tmp/graphs", cfg.CacheDir)
	assert.Equal(t, 1.2, cfg.BM25.K1)
	assert.Equal(t, lexical.DefaultB, cfg.BM25.B, "unset keys keep their defaults")
	assert.Equal(t, 5, cfg.Rank.TopK)
	assert.False(t, cfg.Rank.HardSoftWeighting)
	assert.Equal(t, 2*time.Second, cfg.Rank.EmbedTimeout)
	assert.Equal(t, 0.5, cfg.Rank.Blend.Lexical)
	assert.Equal(t, "candidate.final > 0.5", cfg.Rank.Filter)
	assert.Equal(t, []string{"cobol"}, cfg.Risk.Deprecated, "lists replace the default")
	assert.Equal(t, "web", cfg.Risk.Domains["node.js"])
	assert.NotEmpty(t, cfg.Risk.Domains["kubernetes"], "domain maps merge with the default")
}

func TestLoad_JSONFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "ranker.json", `{"rank": {"top_k": 3, "min_similarity": 0.25}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Rank.TopK)
	assert.Equal(t, 0.25, cfg.Rank.MinSimilarity)
}

func TestLoad_FileNotFound(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("/nonexistent/path/ranker.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to load config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "ranker.yaml", "rank: [unclosed")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "ranker.yaml", "database_url: postgres://file\nworkers: 2\n")
	t.Setenv(EnvDatabaseURL, "postgres://env")
	t.Setenv(EnvRedisAddr, "localhost:6379")
	t.Setenv(EnvGeminiKey, "secret")
	t.Setenv(EnvLogJSON, "true")
	t.Setenv(EnvWorkers, "8")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "secret", cfg.GeminiAPIKey)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want error
	}{
		{"workers", EnvWorkers, "many", ErrInvalidWorkers},
		{"log json", EnvLogJSON, "maybe", ErrInvalidLogJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load("")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"negative workers", func(c *Config) { c.Workers = -1 }, "Config.Workers"},
		{"zero top k", func(c *Config) { c.Rank.TopK = 0 }, "Config.Rank.TopK"},
		{"blend sum", func(c *Config) { c.Rank.Blend.Lexical = 0.9 }, "blend_weights"},
		{"risk weights", func(c *Config) { c.Risk.Weights.Volatility = 0.9 }, "risk.weights"},
		{"bm25 b", func(c *Config) { c.BM25.B = 2 }, "Config.BM25.B"},
		{"embedding dimension", func(c *Config) { c.Embedding.Dimension = -1 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")

			var inErr *types.InputError
			if tt.field != "" {
				require.True(t, errors.As(err, &inErr))
				assert.Equal(t, tt.field, inErr.Field)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	flags := &Config{DatabaseURL: "postgres://flag"}
	file := Config{DatabaseURL: "postgres://file", RedisAddr: "redis:6379", CacheDir: "/cache", Workers: 3}

	merged := flags.MergeWithDefaults(file)

	assert.Equal(t, "postgres://flag", merged.DatabaseURL)
	assert.Equal(t, "redis:6379", merged.RedisAddr)
	assert.Equal(t, "/cache", merged.CacheDir)
	assert.Equal(t, 3, merged.Workers)
	assert.Equal(t, "", flags.RedisAddr, "receiver is not modified")
}

func TestRankDefaults(t *testing.T) {
	cfg := Defaults()
	cfg.Rank.TopK = 7
	cfg.Rank.IncludeRisk = true
	cfg.Rank.ExplainRejections = true
	cfg.Rank.Filter = `"go" in candidate.skills`

	opts := cfg.RankDefaults()

	assert.Equal(t, 7, opts.TopK)
	assert.True(t, opts.IncludeRisk)
	assert.True(t, opts.ExplainRejections)
	assert.True(t, opts.HardSoftWeighting)
	assert.Equal(t, cfg.Scoring.Weights, opts.ScoreWeights)
	assert.Equal(t, cfg.Learnability.Threshold, opts.LearnabilityThreshold)
	assert.Equal(t, `"go" in candidate.skills`, opts.Filter)
}

func TestEngineConfig_BuildsEngine(t *testing.T) {
	cfg := Defaults()
	cfg.Workers = 2

	ecfg := cfg.EngineConfig()
	assert.Equal(t, 2, ecfg.Workers)
	assert.Equal(t, cfg.RiskConfig().Weights, ecfg.Risk.Weights)

	e, err := engine.New(ecfg)
	require.NoError(t, err)
	assert.Nil(t, e.Snapshot())
}
