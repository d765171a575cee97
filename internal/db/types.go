package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Rebuild status constants
const (
	RebuildStatusSucceeded = "succeeded"
	RebuildStatusFailed    = "failed"
)

// GraphRebuild is one row of the graph_rebuilds audit table
type GraphRebuild struct {
	ID          uuid.UUID `json:"id"`
	Version     string    `json:"version,omitempty"`
	Status      string    `json:"status"`
	SkillCount  int       `json:"skill_count"`
	EdgeCount   int       `json:"edge_count"`
	ResumeCount int       `json:"resume_count"`
	DurationMS  int64     `json:"duration_ms"`
	Error       *string   `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewGraphRebuild builds an audit row from the outcome of a rebuild
func NewGraphRebuild(stats types.GraphStats, elapsed time.Duration, rebuildErr error) *GraphRebuild {
	rec := &GraphRebuild{
		ID:          uuid.New(),
		Version:     stats.Version,
		Status:      RebuildStatusSucceeded,
		SkillCount:  stats.SkillCount,
		EdgeCount:   stats.EdgeCount,
		ResumeCount: stats.ResumeCount,
		DurationMS:  elapsed.Milliseconds(),
	}
	if rebuildErr != nil {
		msg := rebuildErr.Error()
		rec.Status = RebuildStatusFailed
		rec.Error = &msg
	}
	return rec
}

// candidateRow mirrors the candidates table before JSON columns are decoded
type candidateRow struct {
	ID                string
	Name              string
	Skills            []string
	SkillYears        []byte
	RecentSkills      []string
	WorkHistory       []byte
	RawText           string
	Embedding         []float64
	SectionEmbeddings []byte
}
