package schemas_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-ranker/internal/schemas"
	root "github.com/jonathan/candidate-ranker/schemas"
)

var schemaFiles = []string{
	root.Corpus,
	root.JobQuery,
	root.RankResult,
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err, "should be able to read schema file")

			var v any
			assert.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON: %s", schemaFile)
		})
	}
}

func TestEmbeddedSchemas_MatchFiles(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			onDisk, err := os.ReadFile(schemaFile)
			require.NoError(t, err)
			embedded, err := root.Files.ReadFile(schemaFile)
			require.NoError(t, err)
			assert.Equal(t, onDisk, embedded)
		})
	}
}

func TestSchemaFiles_AcceptMinimalDocuments(t *testing.T) {
	docs := map[string]string{
		root.Corpus:     `{"candidates": [{"id": "1", "skills": ["go"]}]}`,
		root.JobQuery:   `{"required_skills": ["go"]}`,
		root.RankResult: `{"request_id": "r", "snapshot_version": "v", "considered": 0, "candidates": []}`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, schemas.ValidateEmbedded(name, []byte(doc)))
		})
	}
}

func TestRankResultSchema_Rejections(t *testing.T) {
	valid := `{"request_id": "r", "snapshot_version": "v", "considered": 2, "candidates": [],
		"rejections": [{"candidate_id": "2", "final": 0.68, "threshold": 0.7, "learning_paths": null,
		"reasons": [{"category": "skill_gaps", "severity": "medium", "description": "Missing some skills: kubernetes"}],
		"reconsideration": {"score": 0.1, "ready_in_weeks": 16, "probability_of_fit": 0.2, "recommendation": "Not recommended"}}]}`
	assert.NoError(t, schemas.ValidateEmbedded(root.RankResult, []byte(valid)))

	invalid := strings.Replace(valid, `"severity": "medium"`, `"severity": "minor"`, 1)
	assert.Error(t, schemas.ValidateEmbedded(root.RankResult, []byte(invalid)))
}
