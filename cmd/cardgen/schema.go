package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/cardgen"
	"github.com/tordrt/cardgen/internal/formatter"
)

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect and bootstrap join graphs",
	}
	cmd.AddCommand(newSchemaShowCmd(a))
	cmd.AddCommand(newSchemaExtractCmd(a))
	return cmd
}

func newSchemaShowCmd(a *app) *cobra.Command {
	var (
		format string
		layout bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active join graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := cardgen.LoadGraph(a.cfg.SchemaFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if layout {
				return formatter.NewTextFormatter(out).FormatLayout(g)
			}
			if err := cardgen.FormatTables(g.Tables(), format, out); err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().String("schema-file", "", "YAML join graph (default: built-in TPC-H)")
	cmd.Flags().StringVarP(&format, "format", "f", formatter.FormatText, "Output format: text, markdown or yaml")
	cmd.Flags().BoolVar(&layout, "layout", false, "Print the feature vector layout instead")

	return cmd
}

func newSchemaExtractCmd(a *app) *cobra.Command {
	var (
		tables     string
		exclude    string
		schemaName string
		format     string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a join graph from a live database",
		Long: `Extract reads tables, foreign keys and the value ranges of numeric non-key
columns from PostgreSQL, MySQL or SQLite and writes them as a join graph.
Foreign keys that close a cycle must be removed before the graph is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.DatabaseURL == "" {
				return fmt.Errorf("--database-url is required")
			}

			extracted, err := cardgen.ExtractSchema(cmd.Context(), a.cfg.DatabaseURL, &cardgen.ExtractOptions{
				Tables:        splitList(tables),
				ExcludeTables: splitList(exclude),
				SchemaName:    schemaName,
			})
			if err != nil {
				return fmt.Errorf("failed to extract schema: %w", err)
			}
			a.logger.Infow("schema extracted", "tables", len(extracted))

			var writer io.Writer = cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer func() {
					if err := f.Close(); err != nil {
						a.logger.Warnw("failed to close output file", "error", err)
					}
				}()
				writer = f
			}

			if err := cardgen.FormatTables(extracted, format, writer); err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().String("database-url", "", "Database URL (postgres://, mysql:// or sqlite://)")
	cmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	cmd.Flags().StringVarP(&exclude, "exclude", "x", "", "Tables to leave out (comma-separated, optional)")
	cmd.Flags().StringVarP(&schemaName, "db-schema", "s", "", "Database schema name (default: public for PostgreSQL, the DSN's database for MySQL)")
	cmd.Flags().StringVarP(&format, "format", "f", formatter.FormatYAML, "Output format: yaml, text or markdown")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// splitList parses a comma-separated flag value
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	list := strings.Split(s, ",")
	for i, item := range list {
		list[i] = strings.TrimSpace(item)
	}
	return list
}
