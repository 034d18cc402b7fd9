package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/roadmap-agent/internal/roadmap"
)

func newSchemaCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema the model response is bound to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := roadmap.SchemaDocument()
			if err != nil {
				return err
			}

			if out == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), doc)
				return nil
			}

			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}
			if err := os.WriteFile(out, []byte(doc+"\n"), 0644); err != nil {
				return fmt.Errorf("failed to write schema: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the schema to a file instead of stdout")
	return cmd
}
