package graphstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const latestFile = "latest"

// FileStore keeps one JSON file per graph version under a directory, plus a pointer
// file naming the latest version.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(version string) string {
	return filepath.Join(s.dir, "graph-"+version+".json")
}

// Save writes the record and then moves the latest pointer to it
func (s *FileStore) Save(ctx context.Context, rec Record) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeAtomic(s.path(rec.Version), data); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	if err := writeAtomic(filepath.Join(s.dir, latestFile), []byte(rec.Version+"\n")); err != nil {
		return fmt.Errorf("failed to update latest pointer: %w", err)
	}
	return nil
}

// Load reads the record named by the latest pointer
func (s *FileStore) Load(ctx context.Context) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ptr, err := os.ReadFile(filepath.Join(s.dir, latestFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest pointer: %w", err)
	}

	version := strings.TrimSpace(string(ptr))
	data, err := os.ReadFile(s.path(version))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read graph %s: %w", version, err)
	}
	return decode(data)
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
