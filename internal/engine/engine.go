// Package engine orchestrates the ranking pipeline: lexical pre-filter, semantic rerank,
// score composition and the optional learnability and risk stages, all against an
// immutable corpus snapshot that is swapped atomically on rebuild.
package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-ranker/internal/graph"
	"github.com/jonathan/candidate-ranker/internal/learnability"
	"github.com/jonathan/candidate-ranker/internal/lexical"
	"github.com/jonathan/candidate-ranker/internal/parsing"
	"github.com/jonathan/candidate-ranker/internal/ranking"
	"github.com/jonathan/candidate-ranker/internal/risk"
	"github.com/jonathan/candidate-ranker/internal/semantic"
	"github.com/jonathan/candidate-ranker/internal/skills"
	"github.com/jonathan/candidate-ranker/internal/types"
)

var (
	// ErrRebuildInProgress is returned when a rebuild is requested while another is running
	ErrRebuildInProgress = errors.New("snapshot rebuild already in progress")
	// ErrNoSnapshot is returned when the engine is used before any snapshot was built
	ErrNoSnapshot error = &types.InputError{Field: "snapshot", Message: "corpus snapshot not built"}
)

// CorpusSource delivers a corpus snapshot
type CorpusSource interface {
	LoadCorpus(ctx context.Context) ([]types.Candidate, error)
}

// Config configures an Engine. Zero-valued sections select their defaults.
type Config struct {
	Logger       *zap.Logger
	Metrics      *Metrics
	Embedder     semantic.Embedder
	Classifier   *skills.Classifier
	BM25         lexical.Params
	Scoring      ranking.Config
	Learnability learnability.Config
	Risk         risk.Config
	// Workers bounds per-query fan-out. Defaults to GOMAXPROCS.
	Workers int
}

// Engine ranks candidates against job queries. It is safe for concurrent use: queries
// read the current snapshot without locking and at most one rebuild runs at a time.
type Engine struct {
	cfg        Config
	log        *zap.Logger
	metrics    *Metrics
	classifier *skills.Classifier
	assessor   *risk.Assessor

	snapshot  atomic.Pointer[Snapshot]
	rebuildMu sync.Mutex
	tasks     *taskRegistry
}

// New validates the configuration and creates an Engine with no snapshot
func New(cfg Config) (*Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics()
	}
	if cfg.Classifier == nil {
		cfg.Classifier = skills.NewClassifier()
	}
	if cfg.BM25 == (lexical.Params{}) {
		cfg.BM25 = lexical.DefaultParams()
	}
	if cfg.Scoring == (ranking.Config{}) {
		cfg.Scoring = ranking.DefaultConfig()
	}
	if cfg.Learnability == (learnability.Config{}) {
		cfg.Learnability = learnability.DefaultConfig()
	}
	if cfg.Risk.Weights == (risk.Weights{}) {
		cfg.Risk = risk.DefaultConfig()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	if err := cfg.BM25.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Scoring.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Learnability.Validate(); err != nil {
		return nil, err
	}
	assessor, err := risk.NewAssessor(cfg.Risk)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:        cfg,
		log:        cfg.Logger,
		metrics:    cfg.Metrics,
		classifier: cfg.Classifier,
		assessor:   assessor,
		tasks:      newTaskRegistry(),
	}, nil
}

// Snapshot returns the active snapshot, or nil before the first rebuild
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Stats returns the statistics of the active snapshot
func (e *Engine) Stats() (types.GraphStats, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return types.GraphStats{}, ErrNoSnapshot
	}
	return snap.Stats(), nil
}

// RelatedSkills returns the k skills most adjacent to skill in the active graph
func (e *Engine) RelatedSkills(skill string, k int) ([]graph.Related, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap.Graph.RelatedSkills(skill, k), nil
}

// RebuildGraph builds a new snapshot from the corpus and publishes it. On failure the
// previous snapshot stays active.
func (e *Engine) RebuildGraph(ctx context.Context, corpus []types.Candidate) (types.GraphStats, error) {
	return e.rebuild(ctx, func(context.Context) ([]types.Candidate, error) {
		return corpus, nil
	})
}

// Refresh loads the corpus from the source and rebuilds the snapshot
func (e *Engine) Refresh(ctx context.Context, src CorpusSource) (types.GraphStats, error) {
	return e.rebuild(ctx, func(ctx context.Context) ([]types.Candidate, error) {
		candidates, err := src.LoadCorpus(ctx)
		if err != nil {
			return nil, &types.DependencyError{Dependency: "corpus", Message: "load corpus snapshot", Cause: err}
		}
		return candidates, nil
	})
}

func (e *Engine) rebuild(ctx context.Context, load func(context.Context) ([]types.Candidate, error)) (types.GraphStats, error) {
	if !e.rebuildMu.TryLock() {
		return types.GraphStats{}, ErrRebuildInProgress
	}
	defer e.rebuildMu.Unlock()

	start := time.Now()
	e.log.Info("rebuilding snapshot")

	snap, err := e.loadAndBuild(ctx, load)
	if err != nil {
		e.metrics.observeRebuild(StatusFailure, time.Since(start).Seconds())
		e.log.Error("snapshot rebuild failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return types.GraphStats{}, err
	}

	e.snapshot.Store(snap)
	stats := snap.Stats()
	e.metrics.observeRebuild(StatusSuccess, time.Since(start).Seconds())
	e.metrics.setSnapshot(stats.SkillCount, len(snap.Candidates))
	e.log.Info("snapshot rebuilt",
		zap.String("version", stats.Version),
		zap.Int("candidates", len(snap.Candidates)),
		zap.Int("skills", stats.SkillCount),
		zap.Int("edges", stats.EdgeCount),
		zap.Duration("duration", time.Since(start)),
	)
	return stats, nil
}

func (e *Engine) loadAndBuild(ctx context.Context, load func(context.Context) ([]types.Candidate, error)) (*Snapshot, error) {
	corpus, err := load(ctx)
	if err != nil {
		return nil, err
	}
	return buildSnapshot(ctx, corpus, e.cfg.BM25)
}

// scored is the per-candidate state carried between pipeline stages
type scored struct {
	hit      lexical.Hit
	lexRank  int
	semantic semantic.Result
	hybrid   float64
	lexNorm  float64
	result   types.RankedCandidate
	keep     bool
}

// Rank scores the snapshot's candidates against the query. Invalid queries or options
// fail with an InputError before any work starts; per-candidate degradation is recorded
// on each breakdown instead of failing the query.
func (e *Engine) Rank(ctx context.Context, query types.JobQuery, opts RankOptions) (*types.RankResult, error) {
	start := time.Now()

	if err := query.Validate(); err != nil {
		e.metrics.observeRank(StatusRejected, 0, 0)
		return nil, err
	}
	qc, err := opts.Resolve(e.cfg.Scoring, e.cfg.Learnability, e.classifier)
	if err != nil {
		e.metrics.observeRank(StatusRejected, 0, 0)
		return nil, err
	}
	snap := e.snapshot.Load()
	if snap == nil {
		e.metrics.observeRank(StatusRejected, 0, 0)
		return nil, ErrNoSnapshot
	}

	q := parsing.NormalizeQuery(query)
	reranker := &semantic.Reranker{Weights: qc.Sections, Embedder: e.cfg.Embedder, Timeout: qc.EmbedTimeout}
	e.embedQuery(ctx, reranker, &q)

	hits := snap.Index.TopN(q.RequiredSkills, qc.PrefilterN)
	items := make([]scored, len(hits))
	for i, h := range hits {
		items[i].hit = h
		items[i].lexRank = i + 1
	}

	// Stage 1: semantic rerank of the pre-filter set
	if err := e.fanOut(ctx, len(items), func(i int) {
		items[i].semantic = reranker.Score(ctx, &q, &snap.Candidates[items[i].hit.Position])
	}); err != nil {
		e.metrics.observeRank(StatusCanceled, 0, 0)
		return nil, fmt.Errorf("rank canceled during rerank: %w", err)
	}

	lex := make([]float64, len(items))
	sem := make([]float64, len(items))
	for i := range items {
		lex[i] = items[i].hit.Score
		sem[i] = items[i].semantic.Score
	}
	hybrid, normalized := semantic.Blend(lex, sem, qc.Blend)
	for i := range items {
		items[i].hybrid = hybrid[i]
		items[i].lexNorm = normalized[i]
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].hybrid > items[j].hybrid
	})
	if len(items) > qc.RerankDepth {
		items = items[:qc.RerankDepth]
	}

	// Stage 2: composition, learnability, risk and filtering
	if err := e.fanOut(ctx, len(items), func(i int) {
		e.scoreCandidate(snap, &q, qc, &items[i])
	}); err != nil {
		e.metrics.observeRank(StatusCanceled, 0, 0)
		return nil, fmt.Errorf("rank canceled during scoring: %w", err)
	}

	ranked := make([]scored, 0, len(items))
	var rejected []scored
	for _, it := range items {
		switch {
		case !it.keep:
		case it.result.Breakdown.Final >= qc.MinSimilarity:
			ranked = append(ranked, it)
		case qc.Explainer != nil:
			rejected = append(rejected, it)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.result.Breakdown.Final != b.result.Breakdown.Final {
			return a.result.Breakdown.Final > b.result.Breakdown.Final
		}
		// equal finals rank by skill coverage before retrieval order
		if ma, mb := len(a.result.Breakdown.MatchedSkills), len(b.result.Breakdown.MatchedSkills); ma != mb {
			return ma > mb
		}
		if sa, sb := len(a.result.Candidate.Skills), len(b.result.Candidate.Skills); sa != sb {
			return sa > sb
		}
		if a.hybrid != b.hybrid {
			return a.hybrid > b.hybrid
		}
		return a.hit.Position < b.hit.Position
	})
	if len(ranked) > qc.TopK {
		ranked = ranked[:qc.TopK]
	}

	result := &types.RankResult{
		RequestID:       uuid.NewString(),
		SnapshotVersion: snap.Version,
		Candidates:      make([]types.RankedCandidate, len(ranked)),
		Considered:      len(items),
	}
	for i, it := range ranked {
		it.result.Rank = i + 1
		result.Candidates[i] = it.result
	}
	result.Rejections = explainRejections(snap, &q, qc, rejected)
	result.Duration = time.Since(start)

	e.metrics.observeRank(StatusSuccess, result.Duration.Seconds(), len(items))
	e.log.Info("rank completed",
		zap.String("request_id", result.RequestID),
		zap.String("snapshot", snap.Version),
		zap.Int("prefiltered", len(hits)),
		zap.Int("candidates", len(items)),
		zap.Int("returned", len(result.Candidates)),
		zap.Int("rejected", len(result.Rejections)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// embedQuery fills the query vector from its text when none was supplied. Failure leaves
// the query without a vector, so candidates fall back to lexical retrieval.
func (e *Engine) embedQuery(ctx context.Context, r *semantic.Reranker, q *types.JobQuery) {
	if q.HasEmbedding() || q.Text == "" || r.Embedder == nil {
		return
	}
	vec, err := r.EmbedText(ctx, q.Text)
	if err != nil {
		e.log.Warn("query embedding failed, continuing without semantic scores", zap.Error(err))
		return
	}
	q.Embedding = vec
}

// fanOut runs fn for every index with at most Workers concurrent calls. It stops
// dispatching once ctx is done and then returns the context error; calls already
// started run to completion.
func (e *Engine) fanOut(ctx context.Context, n int, fn func(i int)) error {
	g := new(errgroup.Group)
	g.SetLimit(e.cfg.Workers)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

func (e *Engine) scoreCandidate(snap *Snapshot, q *types.JobQuery, qc *QueryConfig, it *scored) {
	c := &snap.Candidates[it.hit.Position]

	breakdown := qc.Composer.Compose(q, c, it.semantic.Score)
	for _, gap := range it.semantic.Gaps {
		breakdown.AddGap(gap.Field, gap.Reason)
	}
	breakdown.Retrieval = types.Retrieval{
		Method:            retrievalMethod(it.semantic.Scored, len(q.RequiredSkills) > 0),
		Lexical:           it.hit.Score,
		LexicalNormalized: it.lexNorm,
		LexicalRank:       it.lexRank,
		Semantic:          it.semantic.Score,
		Hybrid:            it.hybrid,
	}

	rc := types.RankedCandidate{
		Candidate: resultCandidate(c),
		Breakdown: breakdown,
	}
	if qc.IncludeLearnability {
		rc.Learnability = qc.Predictor.Predict(snap.Graph, c.Skills, q.RequiredSkills)
	}
	if qc.IncludeRisk {
		profile := e.assessor.Assess(c)
		rc.Risk = &profile
	}

	gapErrs := make([]error, 0, len(breakdown.DataQuality))
	for _, gap := range breakdown.DataQuality {
		e.metrics.incDegraded(gap.Field)
		gapErrs = append(gapErrs, gap.Err(c.ID))
	}
	if breakdown.LowConfidence {
		e.log.Debug("candidate scored with data gaps",
			zap.String("candidate", c.ID),
			zap.Errors("gaps", gapErrs),
		)
	}

	keep, err := qc.Filter.Match(&rc)
	if err != nil {
		e.log.Debug("filter rejected candidate", zap.String("candidate", c.ID), zap.Error(err))
		keep = false
	}
	it.result = rc
	it.keep = keep
}

// explainRejections explains each candidate that scored below MinSimilarity, most
// reconsiderable first.
func explainRejections(snap *Snapshot, q *types.JobQuery, qc *QueryConfig, rejected []scored) []types.Rejection {
	if len(rejected) == 0 {
		return nil
	}
	out := make([]types.Rejection, len(rejected))
	for i := range rejected {
		c := &snap.Candidates[rejected[i].hit.Position]
		out[i] = qc.Explainer.Explain(snap.Graph, c.Skills, q, &rejected[i].result, qc.MinSimilarity)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Reconsideration.Score != out[j].Reconsideration.Score {
			return out[i].Reconsideration.Score > out[j].Reconsideration.Score
		}
		return out[i].Final > out[j].Final
	})
	return out
}

func retrievalMethod(semanticScored, lexicalTerms bool) types.RetrievalMethod {
	switch {
	case semanticScored && lexicalTerms:
		return types.MethodHybrid
	case semanticScored:
		return types.MethodSemantic
	default:
		return types.MethodLexical
	}
}

// resultCandidate strips vectors and raw text from the candidate copy returned to callers
func resultCandidate(c *types.Candidate) types.Candidate {
	out := *c
	out.Embedding = nil
	out.SectionEmbeddings = nil
	out.RawText = ""
	return out
}
