package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// LoadCorpus reads every candidate in insertion order. It satisfies engine.CorpusSource.
func (db *DB) LoadCorpus(ctx context.Context) ([]types.Candidate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, COALESCE(name, ''), skills, skill_years, recent_skills, work_history,
		        COALESCE(raw_text, ''), embedding, section_embeddings
		 FROM candidates
		 ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var corpus []types.Candidate
	for rows.Next() {
		var r candidateRow
		if err := rows.Scan(
			&r.ID, &r.Name, &r.Skills, &r.SkillYears, &r.RecentSkills, &r.WorkHistory,
			&r.RawText, &r.Embedding, &r.SectionEmbeddings,
		); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c, err := r.toCandidate()
		if err != nil {
			return nil, err
		}
		corpus = append(corpus, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return corpus, nil
}

// UpsertCandidates inserts or replaces candidates in one transaction
func (db *DB) UpsertCandidates(ctx context.Context, candidates []types.Candidate) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for i := range candidates {
		args, err := candidateArgs(&candidates[i])
		if err != nil {
			return err
		}
		batch.Queue(
			`INSERT INTO candidates (id, name, skills, skill_years, recent_skills, work_history,
			                         raw_text, embedding, section_embeddings)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (id) DO UPDATE SET
			   name = $2, skills = $3, skill_years = $4, recent_skills = $5, work_history = $6,
			   raw_text = $7, embedding = $8, section_embeddings = $9, updated_at = NOW()`,
			args...,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert candidates: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit candidates: %w", err)
	}
	return nil
}

func (r candidateRow) toCandidate() (types.Candidate, error) {
	c := types.Candidate{
		ID:           r.ID,
		Name:         r.Name,
		Skills:       r.Skills,
		RecentSkills: r.RecentSkills,
		RawText:      r.RawText,
		Embedding:    r.Embedding,
	}
	if err := unmarshalOptional(r.SkillYears, &c.SkillYears); err != nil {
		return c, fmt.Errorf("failed to decode skill_years for candidate %s: %w", r.ID, err)
	}
	if err := unmarshalOptional(r.WorkHistory, &c.WorkHistory); err != nil {
		return c, fmt.Errorf("failed to decode work_history for candidate %s: %w", r.ID, err)
	}
	if err := unmarshalOptional(r.SectionEmbeddings, &c.SectionEmbeddings); err != nil {
		return c, fmt.Errorf("failed to decode section_embeddings for candidate %s: %w", r.ID, err)
	}
	return c, nil
}

func candidateArgs(c *types.Candidate) ([]any, error) {
	skillYears, err := marshalOptional(len(c.SkillYears) > 0, c.SkillYears)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal skill_years for candidate %s: %w", c.ID, err)
	}
	history, err := marshalOptional(len(c.WorkHistory) > 0, c.WorkHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal work_history for candidate %s: %w", c.ID, err)
	}
	sections, err := marshalOptional(len(c.SectionEmbeddings) > 0, c.SectionEmbeddings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal section_embeddings for candidate %s: %w", c.ID, err)
	}
	skills := c.Skills
	if skills == nil {
		skills = []string{}
	}
	recent := c.RecentSkills
	if recent == nil {
		recent = []string{}
	}
	return []any{c.ID, c.Name, skills, skillYears, recent, history, c.RawText, c.Embedding, sections}, nil
}

func unmarshalOptional(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func marshalOptional(present bool, v any) ([]byte, error) {
	if !present {
		return nil, nil
	}
	return json.Marshal(v)
}
