package main

import (
	"fmt"

	"github.com/spf13/cobra"

	schemafiles "github.com/jonathan/candidate-ranker/schemas"

	"github.com/jonathan/candidate-ranker/internal/schemas"
)

// builtinSchemas maps short names accepted by --schema to the embedded schema files
var builtinSchemas = map[string]string{
	"corpus":      schemafiles.Corpus,
	"job_query":   schemafiles.JobQuery,
	"rank_result": schemafiles.RankResult,
}

type validateOptions struct {
	schema   string
	jsonPath string
}

func newValidateCmd() *cobra.Command {
	o := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a JSON file against a schema",
		Long: `Validate checks a JSON file against one of the built-in schemas (corpus, job_query,
rank_result) or against a schema file path.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, o)
		},
	}

	cmd.Flags().StringVarP(&o.schema, "schema", "s", "", "Built-in schema name or path to a JSON Schema file")
	cmd.Flags().StringVarP(&o.jsonPath, "json", "j", "", "Path to JSON file to validate")

	mustMarkRequired(cmd, "schema", "json")

	return cmd
}

func runValidate(cmd *cobra.Command, o *validateOptions) error {
	var err error
	if name, ok := builtinSchemas[o.schema]; ok {
		err = schemas.ValidateEmbeddedFile(name, o.jsonPath)
	} else {
		err = schemas.ValidateJSON(o.schema, o.jsonPath)
	}

	out := cmd.OutOrStdout()
	if err != nil {
		_, _ = fmt.Fprintf(out, "Validation failed:\n%v\n", err)
		return fmt.Errorf("%s does not match schema %s", o.jsonPath, o.schema)
	}

	_, _ = fmt.Fprintf(out, "Validation passed: %s matches %s\n", o.jsonPath, o.schema)
	return nil
}
