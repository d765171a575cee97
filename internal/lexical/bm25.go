// Package lexical provides a BM25 index over candidate skill tokens used as the
// first-stage pre-filter of the ranking pipeline.
package lexical

import (
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/candidate-ranker/internal/parsing"
	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	// DefaultK1 controls term frequency saturation
	DefaultK1 = 1.5
	// DefaultB controls document length normalization
	DefaultB = 0.75
	// DefaultTopN is the default size of the pre-filter set
	DefaultTopN = 50
	// DefaultMaxYearsWeight caps how many extra term occurrences years of experience add
	DefaultMaxYearsWeight = 10
)

// Params configures the BM25 scoring function
type Params struct {
	K1             float64 `json:"k1" koanf:"k1" validate:"gt=0"`
	B              float64 `json:"b" koanf:"b" validate:"gte=0,lte=1"`
	MaxYearsWeight int     `json:"max_years_weight" koanf:"max_years_weight" validate:"gte=0"`
}

// DefaultParams returns the standard Okapi BM25 parameters
func DefaultParams() Params {
	return Params{K1: DefaultK1, B: DefaultB, MaxYearsWeight: DefaultMaxYearsWeight}
}

// Validate checks the parameters are usable
func (p Params) Validate() error {
	if p.K1 <= 0 {
		return &types.InputError{Field: "bm25.k1", Message: fmt.Sprintf("must be positive, got %v", p.K1)}
	}
	if p.B < 0 || p.B > 1 {
		return &types.InputError{Field: "bm25.b", Message: fmt.Sprintf("must be in [0,1], got %v", p.B)}
	}
	if p.MaxYearsWeight < 0 {
		return &types.InputError{Field: "bm25.max_years_weight", Message: "must not be negative"}
	}
	return nil
}

type document struct {
	id     string
	tf     map[string]int
	length int
}

// Index is an immutable BM25 index over a corpus snapshot
type Index struct {
	params    Params
	docs      []document
	docFreq   map[string]int
	avgLength float64
}

// Hit is one scored candidate of a pre-filter pass
type Hit struct {
	CandidateID string
	// Position is the candidate's insertion order in the index
	Position int
	Score    float64
}

// NewIndex builds an index where each candidate's document is its skill set, every
// skill repeated once plus once per full year of experience (capped by MaxYearsWeight).
func NewIndex(candidates []types.Candidate, params Params) (*Index, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	idx := &Index{
		params:  params,
		docs:    make([]document, len(candidates)),
		docFreq: make(map[string]int),
	}

	total := 0
	for i, c := range candidates {
		years := parsing.NormalizeYears(c.SkillYears)
		doc := document{id: c.ID, tf: make(map[string]int)}
		for _, skill := range parsing.NormalizeSkills(c.Skills) {
			n := 1 + min(int(math.Floor(math.Max(years[skill], 0))), params.MaxYearsWeight)
			doc.tf[skill] = n
			doc.length += n
			idx.docFreq[skill]++
		}
		total += doc.length
		idx.docs[i] = doc
	}

	if len(candidates) > 0 {
		idx.avgLength = float64(total) / float64(len(candidates))
	}
	return idx, nil
}

// Len returns the number of indexed candidates
func (idx *Index) Len() int {
	return len(idx.docs)
}

// idf uses the non-negative variant ln(1 + (N - n + 0.5) / (n + 0.5))
func (idx *Index) idf(term string) float64 {
	n := float64(idx.docFreq[term])
	total := float64(len(idx.docs))
	return math.Log(1 + (total-n+0.5)/(n+0.5))
}

func (idx *Index) scoreDoc(doc document, terms []string) float64 {
	if doc.length == 0 || idx.avgLength == 0 {
		return 0
	}
	k1, b := idx.params.K1, idx.params.B
	norm := k1 * (1 - b + b*float64(doc.length)/idx.avgLength)

	score := 0.0
	for _, term := range terms {
		tf := float64(doc.tf[term])
		if tf == 0 {
			continue
		}
		score += idx.idf(term) * tf * (k1 + 1) / (tf + norm)
	}
	return score
}

// Score returns the BM25 score of every indexed candidate for the query tokens
func (idx *Index) Score(tokens []string) map[string]float64 {
	terms := parsing.NormalizeSkills(tokens)
	scores := make(map[string]float64, len(idx.docs))
	for _, doc := range idx.docs {
		scores[doc.id] = idx.scoreDoc(doc, terms)
	}
	return scores
}

// TopN returns the n best candidates by BM25 score. Ties keep insertion order, so an
// empty query returns the first n candidates with score 0. n <= 0 selects DefaultTopN.
func (idx *Index) TopN(tokens []string, n int) []Hit {
	if n <= 0 {
		n = DefaultTopN
	}
	terms := parsing.NormalizeSkills(tokens)

	hits := make([]Hit, len(idx.docs))
	for i, doc := range idx.docs {
		hits[i] = Hit{CandidateID: doc.id, Position: i, Score: idx.scoreDoc(doc, terms)}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > n {
		hits = hits[:n]
	}
	return hits
}
