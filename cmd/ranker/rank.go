package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	schemafiles "github.com/jonathan/candidate-ranker/schemas"

	"github.com/jonathan/candidate-ranker/internal/logger"
	"github.com/jonathan/candidate-ranker/internal/schemas"
	"github.com/jonathan/candidate-ranker/internal/types"
)

type rankOptions struct {
	source        sourceFlags
	queryPath     string
	outPath       string
	topK          int
	minSimilarity float64
	learnability  bool
	risk          bool
	explain       bool
	noHardSoft    bool
	filter        string
	embed         bool
}

func newRankCmd(g *globalOptions) *cobra.Command {
	o := &rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank candidates against a job query",
		Long: `Rank loads the corpus, builds the skill graph and scores every candidate against
the job query, writing the ranked and explained result as JSON.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRank(cmd, g, o)
		},
	}

	o.source.register(cmd)
	cmd.Flags().StringVarP(&o.queryPath, "query", "q", "", "Path to job query JSON file")
	cmd.Flags().StringVarP(&o.outPath, "out", "o", "", "Path to output rank result JSON file")
	cmd.Flags().IntVarP(&o.topK, "top-k", "k", 0, "Number of candidates to return")
	cmd.Flags().Float64Var(&o.minSimilarity, "min-similarity", 0, "Drop candidates whose final score is below this value")
	cmd.Flags().BoolVar(&o.learnability, "learnability", false, "Predict how quickly missing skills can be learned")
	cmd.Flags().BoolVar(&o.risk, "risk", false, "Include the hiring risk profile")
	cmd.Flags().BoolVar(&o.explain, "explain-rejections", false, "Explain candidates dropped by --min-similarity")
	cmd.Flags().BoolVar(&o.noHardSoft, "no-hard-soft", false, "Weight every skill equally regardless of class")
	cmd.Flags().StringVar(&o.filter, "filter", "", "CEL expression over candidate, e.g. 'candidate.final > 0.5'")
	cmd.Flags().BoolVar(&o.embed, "embed", false, "Embed texts without vectors via Gemini (requires GEMINI_API_KEY)")

	mustMarkRequired(cmd, "query", "out")

	return cmd
}

func runRank(cmd *cobra.Command, g *globalOptions, o *rankOptions) (err error) {
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

	query, err := a.loadQuery(o.queryPath)
	if err != nil {
		return err
	}

	opts := a.cfg.RankDefaults()
	flags := cmd.Flags()
	if flags.Changed("top-k") {
		opts.TopK = o.topK
	}
	if flags.Changed("min-similarity") {
		opts.MinSimilarity = o.minSimilarity
	}
	if o.learnability {
		opts.IncludeLearnability = true
	}
	if o.risk {
		opts.IncludeRisk = true
	}
	if o.explain {
		opts.ExplainRejections = true
	}
	if o.noHardSoft {
		opts.HardSoftWeighting = false
	}
	if flags.Changed("filter") {
		opts.Filter = o.filter
	}

	src, _, err := a.corpusSource(ctx, o.source)
	if err != nil {
		return err
	}

	e, err := a.newEngine(ctx, o.embed)
	if err != nil {
		return err
	}
	if _, err := e.Refresh(ctx, src); err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	a.log.Debug("ranking",
		zap.String("query", logger.Truncate(query.Text, 80)),
		zap.Strings("required_skills", query.RequiredSkills),
		zap.String("filter", opts.Filter),
	)

	result, err := e.Rank(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("failed to rank candidates: %w", err)
	}

	if err := writeJSON(o.outPath, result); err != nil {
		return err
	}

	// Validate the output; a mismatch is reported but does not fail the command
	data, _ := json.Marshal(result)
	if err := schemas.ValidateEmbedded(schemafiles.RankResult, data); err != nil {
		a.log.Warn("rank result failed schema validation", zap.Error(err))
	}

	if a.verbose {
		a.printRankDetails(result)
	}

	a.log.Info("rank complete",
		zap.String("request_id", result.RequestID),
		zap.Int("considered", result.Considered),
		zap.Int("returned", len(result.Candidates)),
		zap.Duration("duration", result.Duration),
	)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully ranked %d candidates to %s\n", len(result.Candidates), o.outPath)
	return nil
}

// loadQuery reads a job query file. Schema violations are logged and the query is still
// attempted, since Rank validates what it needs.
func (a *app) loadQuery(path string) (types.JobQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.JobQuery{}, fmt.Errorf("failed to read query file: %w", err)
	}

	if err := schemas.ValidateEmbedded(schemafiles.JobQuery, data); err != nil {
		a.log.Warn("job query failed schema validation", zap.String("path", path), zap.Error(err))
	}

	var query types.JobQuery
	if err := json.Unmarshal(data, &query); err != nil {
		return types.JobQuery{}, fmt.Errorf("failed to parse query file: %w", err)
	}
	return query, nil
}

func (a *app) printRankDetails(result *types.RankResult) {
	a.printer.PrintRankResult(result)
	for i := range result.Candidates {
		rc := &result.Candidates[i]
		if len(rc.Learnability) > 0 {
			a.printer.PrintLearnability(rc.Candidate.ID, rc.Learnability)
		}
		if rc.Risk != nil {
			a.printer.PrintRiskProfile(rc.Candidate.ID, rc.Risk)
		}
	}
	a.printer.PrintRejections(result.Rejections)
}
