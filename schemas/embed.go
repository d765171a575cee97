// Package schemas holds the JSON Schemas of the ranker's file formats.
package schemas

import "embed"

// Schema file names
const (
	Corpus     = "corpus.schema.json"
	JobQuery   = "job_query.schema.json"
	RankResult = "rank_result.schema.json"
)

// Files contains every schema, so validation works regardless of the working directory
//
//go:embed *.schema.json
var Files embed.FS
