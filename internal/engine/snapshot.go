package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-ranker/internal/graph"
	"github.com/jonathan/candidate-ranker/internal/lexical"
	"github.com/jonathan/candidate-ranker/internal/parsing"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Snapshot is an immutable view of one corpus: the normalized candidates, their skill
// graph and their lexical index. Queries hold a snapshot for their whole duration.
type Snapshot struct {
	Version    string
	BuiltAt    time.Time
	Graph      *graph.Graph
	Index      *lexical.Index
	Candidates []types.Candidate
}

// Stats returns the graph statistics tagged with the snapshot version
func (s *Snapshot) Stats() types.GraphStats {
	stats := s.Graph.Stats()
	stats.Version = s.Version
	stats.BuiltAt = s.BuiltAt
	return stats
}

// buildSnapshot normalizes a corpus and builds its graph and index. Duplicate or invalid
// candidates and an inconsistent graph are reported as ConsistencyError.
func buildSnapshot(ctx context.Context, corpus []types.Candidate, params lexical.Params) (*Snapshot, error) {
	seen := make(map[string]bool, len(corpus))
	for i := range corpus {
		c := &corpus[i]
		if err := c.Validate(); err != nil {
			return nil, &types.ConsistencyError{Message: fmt.Sprintf("invalid candidate at position %d", i), Cause: err}
		}
		if seen[c.ID] {
			return nil, &types.ConsistencyError{Message: fmt.Sprintf("duplicate candidate id %q", c.ID)}
		}
		seen[c.ID] = true
	}

	candidates := parsing.NormalizeCandidates(corpus)

	g := graph.Build(candidates)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("snapshot build canceled: %w", err)
	}

	idx, err := lexical.NewIndex(candidates, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build lexical index: %w", err)
	}

	return &Snapshot{
		Version:    uuid.NewString(),
		BuiltAt:    time.Now().UTC(),
		Graph:      g,
		Index:      idx,
		Candidates: candidates,
	}, nil
}
