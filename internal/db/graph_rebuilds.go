package db

import (
	"context"
	"fmt"
)

// RecordGraphRebuild appends a row to the rebuild audit log
func (db *DB) RecordGraphRebuild(ctx context.Context, rec *GraphRebuild) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO graph_rebuilds (id, version, status, skill_count, edge_count, resume_count, duration_ms, error)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		rec.ID, rec.Version, rec.Status, rec.SkillCount, rec.EdgeCount, rec.ResumeCount, rec.DurationMS, rec.Error,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record graph rebuild: %w", err)
	}
	return nil
}

// ListGraphRebuilds returns the most recent rebuilds, newest first
func (db *DB) ListGraphRebuilds(ctx context.Context, limit int) ([]GraphRebuild, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, COALESCE(version, ''), status, skill_count, edge_count, resume_count, duration_ms, error, created_at
		 FROM graph_rebuilds
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list graph rebuilds: %w", err)
	}
	defer rows.Close()

	var out []GraphRebuild
	for rows.Next() {
		var r GraphRebuild
		if err := rows.Scan(&r.ID, &r.Version, &r.Status, &r.SkillCount, &r.EdgeCount,
			&r.ResumeCount, &r.DurationMS, &r.Error, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan graph rebuild: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating graph rebuilds: %w", err)
	}
	return out, nil
}
