// Package types provides type definitions for structured data used throughout the candidate ranker.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Candidate is a read-only candidate profile as delivered by the corpus source
type Candidate struct {
	ID     string   `json:"id" validate:"required"`
	Name   string   `json:"name,omitempty"`
	Skills []string `json:"skills"`
	// SkillYears maps a skill token to years of experience (optional)
	SkillYears   map[string]float64 `json:"skill_years,omitempty"`
	WorkHistory  []WorkInterval     `json:"work_history,omitempty"`
	RecentSkills []string           `json:"recent_skills,omitempty"`
	// RawText is owned by the extraction pipeline and only used for on-demand embedding
	RawText string `json:"raw_text,omitempty"`
	// Embedding is the whole-resume vector
	Embedding []float64 `json:"embedding,omitempty"`
	// SectionEmbeddings holds per-section vectors (skills, experience, education, ...)
	SectionEmbeddings map[string][]float64 `json:"section_embeddings,omitempty"`
}

// WorkInterval is one entry of a candidate's work history
type WorkInterval struct {
	Title   string     `json:"title,omitempty"`
	Company string     `json:"company,omitempty"`
	Start   time.Time  `json:"start"`
	End     *time.Time `json:"end,omitempty"` // nil means ongoing
}

// Ongoing reports whether the interval has no end date
func (w WorkInterval) Ongoing() bool {
	return w.End == nil
}

// Months returns the tenure of the interval in months, measured against now for ongoing
// intervals. Intervals shorter than a month count as one month.
func (w WorkInterval) Months(now time.Time) float64 {
	end := now
	if w.End != nil {
		end = *w.End
	}
	days := end.Sub(w.Start).Hours() / 24
	months := days / 30
	if months < 1 {
		return 1
	}
	return months
}

// HasEmbedding reports whether the candidate carries any precomputed vector
func (c *Candidate) HasEmbedding() bool {
	return len(c.Embedding) > 0 || len(c.SectionEmbeddings) > 0
}

// JobQuery is the ranking query for a single job
type JobQuery struct {
	ID             string   `json:"id,omitempty"`
	Text           string   `json:"text,omitempty"`
	RequiredSkills []string `json:"required_skills" validate:"dive,required"`
	// RequiredYears maps a required skill to the years the role expects
	RequiredYears     map[string]float64   `json:"required_years,omitempty"`
	Embedding         []float64            `json:"embedding,omitempty"`
	SectionEmbeddings map[string][]float64 `json:"section_embeddings,omitempty"`
}

// HasEmbedding reports whether the query carries any precomputed vector
func (q *JobQuery) HasEmbedding() bool {
	return len(q.Embedding) > 0 || len(q.SectionEmbeddings) > 0
}

// Corpus is the on-disk shape of a corpus snapshot
type Corpus struct {
	Candidates []Candidate `json:"candidates"`
}
