// Package graphstore persists built skill graphs so they can be served without
// rebuilding from the corpus.
package graphstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/candidate-ranker/internal/graph"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// ErrCacheMiss is returned by Load when no graph has been saved yet
var ErrCacheMiss = errors.New("graph not found in store")

// Record is the persisted form of a built graph
type Record struct {
	Version string           `json:"version"`
	BuiltAt time.Time        `json:"built_at"`
	Stats   types.GraphStats `json:"stats"`
	Graph   graph.Data       `json:"graph"`
}

// NewRecord captures a graph and its statistics
func NewRecord(g *graph.Graph, stats types.GraphStats) Record {
	return Record{
		Version: stats.Version,
		BuiltAt: stats.BuiltAt,
		Stats:   stats,
		Graph:   g.Data(),
	}
}

// Restore rebuilds and validates the graph held by the record
func (r Record) Restore() (*graph.Graph, error) {
	g, err := graph.FromData(r.Graph)
	if err != nil {
		return nil, &types.ConsistencyError{Message: fmt.Sprintf("stored graph %s is corrupt", r.Version), Cause: err}
	}
	return g, nil
}

// Store saves and loads the latest graph record
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context) (*Record, error)
}

func encode(rec Record) ([]byte, error) {
	if rec.Version == "" {
		return nil, &types.InputError{Field: "version", Message: "graph record has no version"}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graph record: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &types.ConsistencyError{Message: "stored graph is not valid JSON", Cause: err}
	}
	if rec.Version == "" {
		return nil, &types.ConsistencyError{Message: "stored graph has no version"}
	}
	return &rec, nil
}
