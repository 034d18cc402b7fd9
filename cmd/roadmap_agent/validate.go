package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/roadmap-agent/internal/roadmap"
	"github.com/jonathan/roadmap-agent/internal/schemas"
)

func newValidateCmd() *cobra.Command {
	var input, schemaPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a saved roadmap against the PreparationRoadmap schema",
		Long: `Validate a roadmap JSON file against schemas/preparation_roadmap.schema.json.
When the schema file cannot be found the schema built into the binary is used.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, input, schemaPath)
		},
	}

	cmd.Flags().StringVarP(&input, "in", "i", "roadmap_output.json", "Path to the roadmap JSON file")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "Path to a JSON Schema file (defaults to "+schemas.RoadmapSchemaPath+")")

	return cmd
}

func runValidate(cmd *cobra.Command, input, schemaPath string) error {
	if _, err := os.Stat(input); os.IsNotExist(err) {
		return fmt.Errorf("roadmap file not found: %s", input)
	}

	if schemaPath == "" {
		schemaPath = schemas.ResolveSchemaPath(schemas.RoadmapSchemaPath)
	}

	var err error
	if schemaPath != "" {
		err = schemas.ValidateJSON(schemaPath, input)
	} else {
		var data []byte
		data, err = os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("failed to read roadmap file: %w", err)
		}
		err = schemas.ValidateDocument(roadmap.RoadmapSchema().JSONSchema(), data)
	}

	if err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation failed: %s\n", input)
			for _, fieldErr := range validationErr.Errors {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  - %s: %s\n", fieldErr.Field, fieldErr.Message)
			}
			return errReported
		}
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", input)
	return nil
}
