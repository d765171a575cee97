package engine

import (
	"time"

	"github.com/jonathan/candidate-ranker/internal/filter"
	"github.com/jonathan/candidate-ranker/internal/learnability"
	"github.com/jonathan/candidate-ranker/internal/lexical"
	"github.com/jonathan/candidate-ranker/internal/ranking"
	"github.com/jonathan/candidate-ranker/internal/rejection"
	"github.com/jonathan/candidate-ranker/internal/semantic"
	"github.com/jonathan/candidate-ranker/internal/skills"
	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	// DefaultTopK is the number of ranked candidates returned
	DefaultTopK = 10
	// DefaultPrefilterN is the size of the lexical pre-filter set
	DefaultPrefilterN = lexical.DefaultTopN
)

// RankOptions are the per-query options of Rank. Zero values of TopK, PrefilterN,
// RerankDepth, the weight structs and LearnabilityThreshold select the defaults, the
// threshold falling back to the engine's learnability configuration. HardSoftWeighting
// has no unset state, so callers should start from DefaultRankOptions.
type RankOptions struct {
	TopK                int     `json:"top_k" validate:"gte=0"`
	MinSimilarity       float64 `json:"min_similarity" validate:"gte=0,lte=1"`
	IncludeLearnability bool    `json:"include_learnability"`
	IncludeRisk         bool    `json:"include_risk"`
	HardSoftWeighting   bool    `json:"hard_soft_weighting"`
	// ExplainRejections reports why scored candidates fell below MinSimilarity
	ExplainRejections bool `json:"explain_rejections"`

	ScoreWeights   ranking.Weights         `json:"score_weights"`
	BlendWeights   semantic.BlendWeights   `json:"blend_weights"`
	SectionWeights semantic.SectionWeights `json:"section_weights,omitempty"`
	ClassWeights   skills.Weights          `json:"class_weights"`

	PrefilterN  int `json:"prefilter_n" validate:"gte=0"`
	RerankDepth int `json:"rerank_depth" validate:"gte=0"`
	// LearnabilityThreshold overrides the engine's reporting threshold when positive
	LearnabilityThreshold float64       `json:"learnability_threshold" validate:"gte=0,lte=1"`
	EmbedTimeout          time.Duration `json:"embed_timeout" validate:"gte=0"`

	// Filter is a CEL expression over the candidate variable, applied after scoring
	Filter string `json:"filter,omitempty"`
}

// DefaultRankOptions returns the standard options
func DefaultRankOptions() RankOptions {
	return RankOptions{
		TopK:              DefaultTopK,
		HardSoftWeighting: true,
		ScoreWeights:      ranking.DefaultWeights(),
		BlendWeights:      semantic.DefaultBlendWeights(),
		SectionWeights:    semantic.DefaultSectionWeights(),
		ClassWeights:      skills.DefaultWeights(),
		PrefilterN:        DefaultPrefilterN,
	}
}

// QueryConfig is the immutable, validated configuration of one Rank call
type QueryConfig struct {
	TopK                int
	MinSimilarity       float64
	IncludeLearnability bool
	IncludeRisk         bool
	PrefilterN          int
	RerankDepth         int
	Blend               semantic.BlendWeights
	Sections            semantic.SectionWeights
	EmbedTimeout        time.Duration
	Filter              *filter.Filter

	Composer  *ranking.Composer
	Predictor *learnability.Predictor
	// Explainer is nil unless rejections are explained
	Explainer *rejection.Explainer
}

// Resolve validates the options against the base scoring and learnability configuration
// and builds the query configuration. Every failure is an InputError.
func (o RankOptions) Resolve(base ranking.Config, learn learnability.Config, classifier *skills.Classifier) (*QueryConfig, error) {
	if err := types.ValidateStruct(o); err != nil {
		return nil, err
	}

	qc := &QueryConfig{
		TopK:                o.TopK,
		MinSimilarity:       o.MinSimilarity,
		IncludeLearnability: o.IncludeLearnability,
		IncludeRisk:         o.IncludeRisk,
		PrefilterN:          o.PrefilterN,
		RerankDepth:         o.RerankDepth,
		Blend:               o.BlendWeights,
		Sections:            o.SectionWeights,
		EmbedTimeout:        o.EmbedTimeout,
	}
	if qc.TopK == 0 {
		qc.TopK = DefaultTopK
	}
	if qc.PrefilterN == 0 {
		qc.PrefilterN = DefaultPrefilterN
	}
	if qc.RerankDepth == 0 {
		qc.RerankDepth = 2 * qc.TopK
	}
	if qc.Blend == (semantic.BlendWeights{}) {
		qc.Blend = semantic.DefaultBlendWeights()
	}
	if qc.Sections == nil {
		qc.Sections = semantic.DefaultSectionWeights()
	}
	if err := qc.Blend.Validate(); err != nil {
		return nil, err
	}
	if err := qc.Sections.Validate(); err != nil {
		return nil, err
	}

	scoring := base
	scoring.HardSoftWeighting = o.HardSoftWeighting
	if o.ScoreWeights != (ranking.Weights{}) {
		scoring.Weights = o.ScoreWeights
	}
	if o.ClassWeights != (skills.Weights{}) {
		scoring.ClassWeights = o.ClassWeights
	}
	composer, err := ranking.NewComposer(scoring, classifier)
	if err != nil {
		return nil, err
	}
	qc.Composer = composer

	if o.LearnabilityThreshold > 0 {
		learn.Threshold = o.LearnabilityThreshold
	}
	predictor, err := learnability.NewPredictor(learn)
	if err != nil {
		return nil, err
	}
	qc.Predictor = predictor

	if o.ExplainRejections {
		explainer, err := rejection.NewExplainer(learn)
		if err != nil {
			return nil, err
		}
		qc.Explainer = explainer
	}

	f, err := filter.Compile(o.Filter)
	if err != nil {
		return nil, err
	}
	qc.Filter = f

	return qc, nil
}
