package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/config"
	"github.com/jonathan/candidate-ranker/internal/corpus"
	"github.com/jonathan/candidate-ranker/internal/db"
	"github.com/jonathan/candidate-ranker/internal/embedding"
	"github.com/jonathan/candidate-ranker/internal/engine"
	"github.com/jonathan/candidate-ranker/internal/graphstore"
	"github.com/jonathan/candidate-ranker/internal/logger"
	"github.com/jonathan/candidate-ranker/internal/observability"
)

// errNoSource is returned when neither a corpus file nor a database is configured
var errNoSource = errors.New("either --corpus or --database-url is required")

// app holds the runtime collaborators of one command invocation
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	registry   *prometheus.Registry
	metrics    *engine.Metrics
	printer    *observability.Printer
	verbose    bool
	metricsOut string
	closers    []func() error
}

func (g *globalOptions) newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(g.logJSON || cfg.LogJSON, g.verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics := engine.NewMetrics()
	if err := metrics.Register(registry); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return &app{
		cfg:        cfg,
		log:        log,
		registry:   registry,
		metrics:    metrics,
		printer:    observability.NewPrinter(cmd.OutOrStdout()),
		verbose:    g.verbose,
		metricsOut: g.metricsOut,
	}, nil
}

func (a *app) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// close releases resources in reverse order and writes the metrics file
func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if a.metricsOut != "" {
		if err := a.writeMetrics(); err != nil {
			errs = append(errs, err)
		}
	}
	_ = a.log.Sync()
	return errors.Join(errs...)
}

func (a *app) writeMetrics() error {
	f, err := os.Create(a.metricsOut)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer f.Close()
	if err := observability.WriteMetrics(f, a.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// newEngine creates an engine from the configuration. With embed set, query and
// candidate text without vectors is embedded through Gemini.
func (a *app) newEngine(ctx context.Context, embed bool) (*engine.Engine, error) {
	cfg := a.cfg.EngineConfig()
	cfg.Logger = a.log
	cfg.Metrics = a.metrics

	if embed {
		embedder, err := embedding.NewEmbedder(ctx, a.cfg.Embedding, a.cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		a.onClose(embedder.Close)
		cfg.Embedder = embedder
	}

	return engine.New(cfg)
}

// sourceFlags select where the corpus is read from
type sourceFlags struct {
	corpusPath  string
	databaseURL string
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.corpusPath, "corpus", "", "Path to corpus JSON file")
	cmd.Flags().StringVar(&s.databaseURL, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
}

// corpusSource resolves the corpus source. A corpus file wins over the database; the
// database handle is returned only when it is the source.
func (a *app) corpusSource(ctx context.Context, s sourceFlags) (engine.CorpusSource, *db.DB, error) {
	if s.corpusPath != "" {
		return corpus.NewFileSource(s.corpusPath), nil, nil
	}

	flags := config.Config{DatabaseURL: s.databaseURL}
	merged := flags.MergeWithDefaults(*a.cfg)
	if merged.DatabaseURL == "" {
		return nil, nil, errNoSource
	}

	database, err := db.Connect(ctx, merged.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	a.onClose(func() error {
		database.Close()
		return nil
	})
	if err := database.Migrate(ctx); err != nil {
		return nil, nil, err
	}
	return database, database, nil
}

// graphStores opens the configured graph caches: the cache directory first, then Redis
func (a *app) graphStores(ctx context.Context, cacheDir, redisAddr string) ([]graphstore.Store, error) {
	flags := config.Config{CacheDir: cacheDir, RedisAddr: redisAddr}
	merged := flags.MergeWithDefaults(*a.cfg)

	var stores []graphstore.Store
	if merged.CacheDir != "" {
		fs, err := graphstore.NewFileStore(merged.CacheDir)
		if err != nil {
			return nil, err
		}
		stores = append(stores, fs)
	}
	if merged.RedisAddr != "" {
		rs, err := graphstore.NewRedisStore(ctx, merged.RedisAddr, 0)
		if err != nil {
			return nil, err
		}
		a.onClose(rs.Close)
		stores = append(stores, rs)
	}
	return stores, nil
}

// writeJSON writes v as indented JSON, creating the parent directory
func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
