package semantic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	// DefaultLexicalWeight is the share of the normalized lexical score in the hybrid score
	DefaultLexicalWeight = 0.3
	// DefaultSemanticWeight is the share of the semantic score in the hybrid score
	DefaultSemanticWeight = 0.7
)

// Embedder generates vectors for free text. Implementations must return vectors of a
// fixed dimension or fail.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// BlendWeights configures the hybrid score
type BlendWeights struct {
	Lexical  float64 `json:"lexical" koanf:"lexical" validate:"gte=0,lte=1"`
	Semantic float64 `json:"semantic" koanf:"semantic" validate:"gte=0,lte=1"`
}

// DefaultBlendWeights returns the standard 0.3/0.7 blend
func DefaultBlendWeights() BlendWeights {
	return BlendWeights{Lexical: DefaultLexicalWeight, Semantic: DefaultSemanticWeight}
}

// Validate rejects negative weights and weights not summing to 1
func (w BlendWeights) Validate() error {
	if w.Lexical < 0 || w.Semantic < 0 {
		return &types.InputError{Field: "blend_weights", Message: "weights must not be negative"}
	}
	if sum := w.Lexical + w.Semantic; math.Abs(sum-1) > weightTolerance {
		return &types.InputError{
			Field:   "blend_weights",
			Message: fmt.Sprintf("must sum to 1.0, got %.6f", sum),
		}
	}
	return nil
}

// Result is the semantic score of one candidate
type Result struct {
	Score float64
	// Scored is false when no vector was available and the score defaulted to 0
	Scored bool
	Gaps   []types.DataGap
}

// Reranker scores candidates against a query, embedding candidate text on demand when
// no comparable precomputed vector exists.
type Reranker struct {
	Weights  SectionWeights
	Embedder Embedder // optional
	Timeout  time.Duration
}

// Score computes the semantic score of one candidate. It never fails: embedding
// failures and timeouts degrade the score to 0 and are reported as gaps.
func (r *Reranker) Score(ctx context.Context, query *types.JobQuery, candidate *types.Candidate) Result {
	score, gaps, ok := Similarity(query, candidate, r.Weights)
	if ok {
		return Result{Score: score, Scored: true, Gaps: gaps}
	}

	if r.Embedder == nil || candidate.RawText == "" || len(query.Embedding) == 0 {
		return Result{Gaps: []types.DataGap{{Field: "embedding", Reason: "missing embedding"}}}
	}

	vec, err := r.EmbedText(ctx, candidate.RawText)
	if err != nil {
		depErr := &types.DependencyError{Dependency: "embedding", Message: "embed candidate text", Cause: err}
		return Result{Gaps: []types.DataGap{{Field: "embedding", Reason: depErr.Error()}}}
	}

	s, gap := vectorScore("embedding", query.Embedding, vec)
	res := Result{Score: s, Scored: true}
	if gap != nil {
		res.Gaps = append(res.Gaps, *gap)
	}
	return res
}

// EmbedText embeds text with the configured embedder, bounded by Timeout
func (r *Reranker) EmbedText(ctx context.Context, text string) ([]float64, error) {
	if r.Embedder == nil {
		return nil, errors.New("no embedder configured")
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	return r.Embedder.Embed(ctx, text)
}

// MinMax normalizes scores to [0,1]. When all scores are equal every normalized
// value is 0.
func MinMax(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}
	if hi-lo == 0 {
		return out
	}

	for i, s := range scores {
		out[i] = (s - lo) / (hi - lo)
	}
	return out
}

// Blend computes hybrid = w_lex*minmax(lexical) + w_sem*semantic for a pre-filtered set.
// It returns the hybrid scores and the normalized lexical scores.
func Blend(lexical, semantic []float64, w BlendWeights) (hybrid, normalized []float64) {
	normalized = MinMax(lexical)
	hybrid = make([]float64, len(lexical))
	for i := range lexical {
		sem := 0.0
		if i < len(semantic) {
			sem = semantic[i]
		}
		hybrid[i] = w.Lexical*normalized[i] + w.Semantic*sem
	}
	return hybrid, normalized
}
