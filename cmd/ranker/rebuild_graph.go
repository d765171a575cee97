package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/db"
	"github.com/jonathan/candidate-ranker/internal/graphstore"
)

type rebuildGraphOptions struct {
	source    sourceFlags
	outPath   string
	cacheDir  string
	redisAddr string
}

func newRebuildGraphCmd(g *globalOptions) *cobra.Command {
	o := &rebuildGraphOptions{}

	cmd := &cobra.Command{
		Use:   "rebuild-graph",
		Short: "Rebuild the skill co-occurrence graph from the corpus",
		Long: `Rebuild-graph builds the skill graph from the corpus and persists it to the graph
cache (a directory and/or Redis). Rebuilds from the database are audited in the
graph_rebuilds table.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRebuildGraph(cmd, g, o)
		},
	}

	o.source.register(cmd)
	cmd.Flags().StringVarP(&o.outPath, "out", "o", "", "Write graph statistics JSON to this file")
	cmd.Flags().StringVar(&o.cacheDir, "cache-dir", "", "Directory of the graph cache")
	cmd.Flags().StringVar(&o.redisAddr, "redis-addr", "", "Redis address of the graph cache (overrides REDIS_ADDR)")

	return cmd
}

func runRebuildGraph(cmd *cobra.Command, g *globalOptions, o *rebuildGraphOptions) (err error) {
	ctx := cmd.Context()

	a, err := g.newApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	src, database, err := a.corpusSource(ctx, o.source)
	if err != nil {
		return err
	}
	stores, err := a.graphStores(ctx, o.cacheDir, o.redisAddr)
	if err != nil {
		return err
	}

	e, err := a.newEngine(ctx, false)
	if err != nil {
		return err
	}

	start := time.Now()
	stats, rebuildErr := e.Refresh(ctx, src)
	if database != nil {
		audit := db.NewGraphRebuild(stats, time.Since(start), rebuildErr)
		if err := database.RecordGraphRebuild(ctx, audit); err != nil {
			a.log.Warn("failed to record graph rebuild", zap.Error(err))
		}
	}
	if rebuildErr != nil {
		return fmt.Errorf("failed to rebuild graph: %w", rebuildErr)
	}

	rec := graphstore.NewRecord(e.Snapshot().Graph, stats)
	for _, store := range stores {
		if err := store.Save(ctx, rec); err != nil {
			return fmt.Errorf("failed to persist graph: %w", err)
		}
	}
	if len(stores) == 0 {
		a.log.Warn("no graph cache configured; graph was built but not persisted")
	}

	if o.outPath != "" {
		if err := writeJSON(o.outPath, stats); err != nil {
			return err
		}
	}

	if a.verbose {
		a.printer.PrintGraphStats(stats)
	}

	a.log.Info("graph rebuilt",
		zap.String("version", stats.Version),
		zap.Int("skills", stats.SkillCount),
		zap.Int("edges", stats.EdgeCount),
		zap.Int("caches", len(stores)),
	)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt skill graph %s: %d skills, %d edges from %d resumes\n",
		stats.Version, stats.SkillCount, stats.EdgeCount, stats.ResumeCount)
	return nil
}
