package graphstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-ranker/internal/graph"
	"github.com/jonathan/candidate-ranker/internal/types"
)

func testRecord(t *testing.T, version string) Record {
	t.Helper()
	g := graph.Build([]types.Candidate{
		{ID: "1", Skills: []string{"python", "aws"}},
		{ID: "2", Skills: []string{"python", "docker"}},
	})
	stats := g.Stats()
	stats.Version = version
	stats.BuiltAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return NewRecord(g, stats)
}

func TestFileStore_SaveLoad(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecord(t, "v1")))
	require.NoError(t, store.Save(ctx, testRecord(t, "v2")))

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v2", rec.Version)
	assert.Equal(t, 2, rec.Stats.ResumeCount)

	g, err := rec.Restore()
	require.NoError(t, err)
	assert.Equal(t, 2, g.Frequency("python"))
	assert.Equal(t, 1, g.CoOccurrence("python", "aws"))
	assert.InDelta(t, 1.0, g.Adjacency("python", "aws"), 1e-9)
}

func TestFileStore_EmptyIsCacheMiss(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestFileStore_RequiresDir(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestFileStore_RejectsUnversionedRecord(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = store.Save(context.Background(), Record{})
	var inErr *types.InputError
	assert.True(t, errors.As(err, &inErr))
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), testRecord(t, "v1")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "graph-v1.json"), []byte("{not json"), 0o644))

	_, err = store.Load(context.Background())
	var cErr *types.ConsistencyError
	assert.True(t, errors.As(err, &cErr))
}

func TestRecord_RestoreCorruptGraph(t *testing.T) {
	rec := Record{
		Version: "bad",
		Graph: graph.Data{
			CoOccurrence: map[string]map[string]int{"a": {"b": 1}},
			Frequencies:  map[string]int{"a": 1, "b": 1},
			ResumeCount:  1,
		},
	}

	_, err := rec.Restore()
	var cErr *types.ConsistencyError
	require.True(t, errors.As(err, &cErr))
	assert.Contains(t, cErr.Error(), "stored graph bad is corrupt")
}
