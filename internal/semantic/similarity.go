// Package semantic computes embedding similarity between a job query and candidates
// and blends it with the lexical pre-filter score.
package semantic

import (
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// weightTolerance is the allowed deviation of a weight set from summing to 1
const weightTolerance = 1e-6

// SectionWeights maps a section name (skills, experience, education, ...) to its weight
type SectionWeights map[string]float64

// DefaultSectionWeights returns the standard section weighting
func DefaultSectionWeights() SectionWeights {
	return SectionWeights{"skills": 0.6, "experience": 0.3, "education": 0.1}
}

// Validate rejects negative weights and weight sets that do not sum to 1.
// An empty set is valid and disables section scoring.
func (w SectionWeights) Validate() error {
	if len(w) == 0 {
		return nil
	}
	sum := 0.0
	for name, v := range w {
		if v < 0 {
			return &types.InputError{Field: "section_weights." + name, Message: "must not be negative"}
		}
		sum += v
	}
	if math.Abs(sum-1) > weightTolerance {
		return &types.InputError{
			Field:   "section_weights",
			Message: fmt.Sprintf("must sum to 1.0, got %.6f", sum),
		}
	}
	return nil
}

// names returns the section names in a deterministic order
func (w SectionWeights) names() []string {
	names := make([]string, 0, len(w))
	for name := range w {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cosine returns the cosine similarity of two vectors. It returns 0 for empty,
// mismatched or zero-norm vectors.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func isZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// vectorScore is Cosine clamped to [0,1] with the reason for a degenerate comparison
func vectorScore(field string, query, candidate []float64) (float64, *types.DataGap) {
	switch {
	case len(query) != len(candidate):
		return 0, &types.DataGap{
			Field:  field,
			Reason: fmt.Sprintf("dimension mismatch: query %d, candidate %d", len(query), len(candidate)),
		}
	case isZero(candidate):
		return 0, &types.DataGap{Field: field, Reason: "zero-norm candidate embedding"}
	case isZero(query):
		return 0, &types.DataGap{Field: field, Reason: "zero-norm query embedding"}
	}
	return math.Max(0, math.Min(1, Cosine(query, candidate))), nil
}

// Similarity compares precomputed vectors of a query and a candidate. When both sides
// have section vectors and weights are configured, per-section scores are combined by
// weight and a section missing on either side contributes 0. Otherwise whole vectors
// are compared. ok is false when neither form is comparable.
func Similarity(query *types.JobQuery, candidate *types.Candidate, weights SectionWeights) (score float64, gaps []types.DataGap, ok bool) {
	if len(weights) > 0 && len(query.SectionEmbeddings) > 0 && len(candidate.SectionEmbeddings) > 0 {
		for _, name := range weights.names() {
			qv, qok := query.SectionEmbeddings[name]
			cv, cok := candidate.SectionEmbeddings[name]
			field := "embedding." + name
			if !qok || !cok {
				gaps = append(gaps, types.DataGap{Field: field, Reason: "section missing"})
				continue
			}
			s, gap := vectorScore(field, qv, cv)
			if gap != nil {
				gaps = append(gaps, *gap)
			}
			score += weights[name] * s
		}
		return math.Min(score, 1), gaps, true
	}

	if len(query.Embedding) > 0 && len(candidate.Embedding) > 0 {
		s, gap := vectorScore("embedding", query.Embedding, candidate.Embedding)
		if gap != nil {
			gaps = append(gaps, *gap)
		}
		return s, gaps, true
	}

	return 0, nil, false
}
