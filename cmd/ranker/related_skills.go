package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/graph"
	"github.com/jonathan/candidate-ranker/internal/graphstore"
	"github.com/jonathan/candidate-ranker/internal/parsing"
)

type relatedSkillsOptions struct {
	source    sourceFlags
	skill     string
	topK      int
	outPath   string
	cacheDir  string
	redisAddr string
}

func newRelatedSkillsCmd(g *globalOptions) *cobra.Command {
	o := &relatedSkillsOptions{}

	cmd := &cobra.Command{
		Use:   "related-skills",
		Short: "List the skills most related to a skill",
		Long: `Related-skills reads the skill graph from the graph cache, or builds it from the
corpus when no cached graph exists, and lists the skills with the highest adjacency.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRelatedSkills(cmd, g, o)
		},
	}

	o.source.register(cmd)
	cmd.Flags().StringVarP(&o.skill, "skill", "s", "", "Skill to look up")
	cmd.Flags().IntVarP(&o.topK, "top-k", "k", 10, "Number of related skills")
	cmd.Flags().StringVarP(&o.outPath, "out", "o", "", "Write related skills JSON to this file")
	cmd.Flags().StringVar(&o.cacheDir, "cache-dir", "", "Directory of the graph cache")
	cmd.Flags().StringVar(&o.redisAddr, "redis-addr", "", "Redis address of the graph cache (overrides REDIS_ADDR)")

	mustMarkRequired(cmd, "skill")

	return cmd
}

func runRelatedSkills(cmd *cobra.Command, g *globalOptions, o *relatedSkillsOptions) (err error) {
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

	if o.topK < 1 {
		return fmt.Errorf("--top-k must be positive, got %d", o.topK)
	}

	sg, err := a.loadGraph(ctx, o)
	if err != nil {
		return err
	}

	skill := parsing.CanonicalSkill(o.skill)
	related := sg.RelatedSkills(skill, o.topK)
	if related == nil {
		related = []graph.Related{}
	}

	if o.outPath != "" {
		if err := writeJSON(o.outPath, related); err != nil {
			return err
		}
	}

	a.printer.PrintRelatedSkills(skill, related)
	return nil
}

// loadGraph returns the newest cached graph, building one from the corpus on a miss
func (a *app) loadGraph(ctx context.Context, o *relatedSkillsOptions) (*graph.Graph, error) {
	stores, err := a.graphStores(ctx, o.cacheDir, o.redisAddr)
	if err != nil {
		return nil, err
	}

	for _, store := range stores {
		rec, err := store.Load(ctx)
		if errors.Is(err, graphstore.ErrCacheMiss) {
			continue
		}
		if err != nil {
			return nil, err
		}
		a.log.Debug("graph loaded from cache", zap.String("version", rec.Version))
		return rec.Restore()
	}

	src, _, err := a.corpusSource(ctx, o.source)
	if errors.Is(err, errNoSource) {
		return nil, errors.New("no cached graph found; pass --corpus or --database-url to build one")
	}
	if err != nil {
		return nil, err
	}

	e, err := a.newEngine(ctx, false)
	if err != nil {
		return nil, err
	}
	if _, err := e.Refresh(ctx, src); err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	return e.Snapshot().Graph, nil
}
