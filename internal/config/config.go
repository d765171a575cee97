// Package config loads the ranker configuration: a YAML or JSON file layered over the
// built-in defaults, with environment overrides for infrastructure settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jonathan/candidate-ranker/internal/embedding"
	"github.com/jonathan/candidate-ranker/internal/engine"
	"github.com/jonathan/candidate-ranker/internal/learnability"
	"github.com/jonathan/candidate-ranker/internal/lexical"
	"github.com/jonathan/candidate-ranker/internal/ranking"
	"github.com/jonathan/candidate-ranker/internal/risk"
	"github.com/jonathan/candidate-ranker/internal/semantic"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Skill names such as "node.js" contain dots, so keys are delimited by slashes
const keyDelim = "/"

// Environment variables that override file values
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvRedisAddr   = "REDIS_ADDR"
	EnvGeminiKey   = "GEMINI_API_KEY"
	EnvLogJSON     = "RANKER_LOG_JSON"
	EnvWorkers     = "RANKER_WORKERS"
)

var (
	// ErrInvalidWorkers is returned when RANKER_WORKERS is not an integer
	ErrInvalidWorkers = errors.New("RANKER_WORKERS must be a valid integer")
	// ErrInvalidLogJSON is returned when RANKER_LOG_JSON is not a boolean
	ErrInvalidLogJSON = errors.New("RANKER_LOG_JSON must be a valid boolean")
)

// Config represents the ranker configuration. Every tuning constant of the engine is
// reachable from here.
type Config struct {
	// Infrastructure
	DatabaseURL  string `json:"database_url,omitempty" koanf:"database_url"`
	RedisAddr    string `json:"redis_addr,omitempty" koanf:"redis_addr"`
	CacheDir     string `json:"cache_dir,omitempty" koanf:"cache_dir"`
	GeminiAPIKey string `json:"gemini_api_key,omitempty" koanf:"gemini_api_key"`
	LogJSON      bool   `json:"log_json" koanf:"log_json"`
	// Workers bounds per-query fan-out; zero selects GOMAXPROCS
	Workers int `json:"workers" koanf:"workers" validate:"gte=0"`

	Embedding    embedding.Config    `json:"embedding" koanf:"embedding"`
	BM25         lexical.Params      `json:"bm25" koanf:"bm25"`
	Scoring      ranking.Config      `json:"scoring" koanf:"scoring"`
	Learnability learnability.Config `json:"learnability" koanf:"learnability"`
	Risk         risk.Config         `json:"risk" koanf:"risk"`
	Rank         RankSettings        `json:"rank" koanf:"rank"`
}

// RankSettings are the per-query defaults applied when a caller does not override them
type RankSettings struct {
	TopK                  int                     `json:"top_k" koanf:"top_k" validate:"gte=1"`
	MinSimilarity         float64                 `json:"min_similarity" koanf:"min_similarity" validate:"gte=0,lte=1"`
	PrefilterN            int                     `json:"prefilter_n" koanf:"prefilter_n" validate:"gte=1"`
	RerankDepth           int                     `json:"rerank_depth" koanf:"rerank_depth" validate:"gte=0"`
	HardSoftWeighting     bool                    `json:"hard_soft_weighting" koanf:"hard_soft_weighting"`
	IncludeLearnability   bool                    `json:"include_learnability" koanf:"include_learnability"`
	IncludeRisk           bool                    `json:"include_risk" koanf:"include_risk"`
	ExplainRejections     bool                    `json:"explain_rejections" koanf:"explain_rejections"`
	Blend                 semantic.BlendWeights   `json:"blend" koanf:"blend"`
	Sections              semantic.SectionWeights `json:"sections" koanf:"sections"`
	EmbedTimeout          time.Duration           `json:"embed_timeout" koanf:"embed_timeout" validate:"gte=0"`
	Filter                string                  `json:"filter,omitempty" koanf:"filter"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Embedding:    embedding.DefaultConfig(),
		BM25:         lexical.DefaultParams(),
		Scoring:      ranking.DefaultConfig(),
		Learnability: learnability.DefaultConfig(),
		Risk:         risk.DefaultConfig(),
		Rank: RankSettings{
			TopK:              engine.DefaultTopK,
			PrefilterN:        engine.DefaultPrefilterN,
			HardSoftWeighting: true,
			Blend:             semantic.DefaultBlendWeights(),
			Sections:          semantic.DefaultSectionWeights(),
			EmbedTimeout:      10 * time.Second,
		},
	}
}

// Load reads the configuration. Values are layered as defaults, then the file at path
// (skipped when path is empty), then environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(keyDelim)

	if err := k.Load(structProvider{Defaults()}, nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		// Resolve path relative to current directory if not absolute
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.DatabaseURL = getEnvOrDefault(EnvDatabaseURL, c.DatabaseURL)
	c.RedisAddr = getEnvOrDefault(EnvRedisAddr, c.RedisAddr)
	c.GeminiAPIKey = getEnvOrDefault(EnvGeminiKey, c.GeminiAPIKey)

	if v := os.Getenv(EnvLogJSON); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLogJSON, v)
		}
		c.LogJSON = b
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidWorkers, v)
		}
		c.Workers = n
	}
	return nil
}

// getEnvOrDefault returns the environment variable value if set, otherwise the current value
func getEnvOrDefault(envKey, current string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return current
}

// Validate checks ranges and that every weight group sums to 1
func (c *Config) Validate() error {
	if err := types.ValidateStruct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	checks := []func() error{
		c.Embedding.Validate,
		c.BM25.Validate,
		c.Scoring.Validate,
		c.Learnability.Validate,
		c.Risk.Validate,
		c.Rank.Blend.Validate,
		c.Rank.Sections.Validate,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty infrastructure fields filled from
// defaults. This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.CacheDir == "" {
		result.CacheDir = defaults.CacheDir
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// RankDefaults returns the per-query options configured for Rank
func (c *Config) RankDefaults() engine.RankOptions {
	return engine.RankOptions{
		TopK:                  c.Rank.TopK,
		MinSimilarity:         c.Rank.MinSimilarity,
		IncludeLearnability:   c.Rank.IncludeLearnability,
		IncludeRisk:           c.Rank.IncludeRisk,
		ExplainRejections:     c.Rank.ExplainRejections,
		HardSoftWeighting:     c.Rank.HardSoftWeighting,
		ScoreWeights:          c.Scoring.Weights,
		BlendWeights:          c.Rank.Blend,
		SectionWeights:        c.Rank.Sections,
		ClassWeights:          c.Scoring.ClassWeights,
		PrefilterN:            c.Rank.PrefilterN,
		RerankDepth:           c.Rank.RerankDepth,
		LearnabilityThreshold: c.Learnability.Threshold,
		EmbedTimeout:          c.Rank.EmbedTimeout,
		Filter:                c.Rank.Filter,
	}
}

// RiskConfig returns the risk assessor configuration
func (c *Config) RiskConfig() risk.Config {
	return c.Risk
}

// EngineConfig returns the engine configuration without its runtime collaborators
// (logger, metrics, embedder), which the caller supplies.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		BM25:         c.BM25,
		Scoring:      c.Scoring,
		Learnability: c.Learnability,
		Risk:         c.RiskConfig(),
		Workers:      c.Workers,
	}
}

// structProvider exposes a struct to koanf through its JSON form, whose keys match the
// koanf tags.
type structProvider struct {
	v any
}

func (p structProvider) ReadBytes() ([]byte, error) {
	return json.Marshal(p.v)
}

func (p structProvider) Read() (map[string]any, error) {
	data, err := json.Marshal(p.v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
