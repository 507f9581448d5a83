package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tordrt/cardgen"
	"github.com/tordrt/cardgen/internal/config"
)

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a corpus of distinct join queries",
		Long: `Generate writes distinct queries, each followed by its feature vector: one
membership flag per relation, then one selectivity value per predicate column.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg

			g, err := cardgen.LoadGraph(cfg.SchemaFile)
			if err != nil {
				return err
			}

			report, err := cardgen.GenerateCorpusFile(cmd.Context(), cfg.CorpusFile, &cardgen.GenerateOptions{
				Graph:       g,
				Size:        cfg.Size,
				MaxDepth:    cfg.MaxDepth,
				MaxAttempts: cfg.MaxAttempts,
				Seed:        cfg.Seed,
				Logger:      a.logger,
			})
			if err != nil {
				return fmt.Errorf("failed to generate corpus: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s queries to %s (seed %d, %d features per query)\n",
				humanize.Comma(int64(report.Admitted)), cfg.CorpusFile, report.Seed, report.Width)
			if report.Shortfall > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s short of the target after %s attempts\n",
					humanize.Comma(int64(report.Shortfall)), humanize.Comma(int64(report.Attempts)))
			}
			return nil
		},
	}

	cmd.Flags().Int("size", config.DefaultSize, "Number of distinct queries to generate")
	cmd.Flags().Int("max-depth", config.DefaultMaxDepth, "Maximum number of relations per query")
	cmd.Flags().Int("max-attempts", 0, "Generation attempts before giving up (default: twice --size)")
	cmd.Flags().Uint64("seed", 0, "Random seed (default: random)")
	cmd.Flags().String("schema-file", "", "YAML join graph (default: built-in TPC-H)")
	cmd.Flags().StringP("corpus-file", "o", config.DefaultCorpusFile, "Corpus output file")

	return cmd
}
