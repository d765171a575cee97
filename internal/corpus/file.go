// Package corpus loads candidate corpora from JSON files.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/candidate-ranker/internal/schemas"
	"github.com/jonathan/candidate-ranker/internal/types"
	schemafiles "github.com/jonathan/candidate-ranker/schemas"
)

// FileSource reads a corpus from a JSON file on every load, so a rebuild picks up edits
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource for path
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// LoadCorpus reads, schema-validates and decodes the corpus file
func (s *FileSource) LoadCorpus(ctx context.Context) ([]types.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus %s: %w", s.Path, err)
	}
	return Decode(data)
}

// Decode validates a corpus document against the corpus schema and decodes it
func Decode(data []byte) ([]types.Candidate, error) {
	if err := schemas.ValidateEmbedded(schemafiles.Corpus, data); err != nil {
		return nil, fmt.Errorf("corpus failed schema validation: %w", err)
	}
	var c types.Corpus
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse corpus JSON: %w", err)
	}
	return c.Candidates, nil
}

// Write stores candidates as a corpus document
func Write(path string, candidates []types.Candidate) error {
	data, err := json.MarshalIndent(types.Corpus{Candidates: candidates}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal corpus: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write corpus %s: %w", path, err)
	}
	return nil
}
