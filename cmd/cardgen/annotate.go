package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tordrt/cardgen"
	"github.com/tordrt/cardgen/internal/annotate"
	"github.com/tordrt/cardgen/internal/config"
)

func newAnnotateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Label a corpus with estimated and actual row counts",
		Long: `Annotate runs every corpus query under EXPLAIN ANALYZE, each on its own
connection, and appends the feature vector followed by the estimated and the
actual row count to the output. Failed queries are logged and skipped.

Rows are written as queries complete, so an interrupted run leaves a valid,
partial dataset behind.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if err := cfg.ValidateAnnotate(); err != nil {
				return err
			}

			g, err := cardgen.LoadGraph(cfg.SchemaFile)
			if err != nil {
				return err
			}

			stats, err := cardgen.Annotate(cmd.Context(), cfg.CorpusFile, cfg.AnnotatedFile, &cardgen.AnnotateOptions{
				DatabaseURL:    cfg.DatabaseURL,
				MaxConcurrency: cfg.MaxConcurrency,
				Graph:          g,
				Logger:         a.logger,
				Progress:       annotate.LogProgress(a.logger, 5),
				MetricsFile:    cfg.MetricsFile,
			})
			if stats != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "annotated %s of %s queries into %s in %s (%s failed, run %s)\n",
					humanize.Comma(int64(stats.Succeeded)), humanize.Comma(int64(stats.Submitted)),
					cfg.AnnotatedFile, stats.Duration.Round(time.Millisecond), humanize.Comma(int64(stats.Failed)), stats.RunID)
			}
			return err
		},
	}

	cmd.Flags().String("database-url", "", "Database URL (postgres://... or mysql://...)")
	cmd.Flags().Int("max-concurrency", config.DefaultMaxConcurrency, "Maximum simultaneously running queries")
	cmd.Flags().String("schema-file", "", "YAML join graph the corpus was generated from (default: built-in TPC-H)")
	cmd.Flags().StringP("corpus-file", "i", config.DefaultCorpusFile, "Corpus input file")
	cmd.Flags().StringP("annotated-file", "o", config.DefaultAnnotatedFile, "Annotated output file")
	cmd.Flags().String("metrics-file", "", "Write run metrics in the Prometheus text format to this file")

	return cmd
}
