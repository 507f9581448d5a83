package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tordrt/cardgen/internal/config"
	"github.com/tordrt/cardgen/internal/logging"
)

// Version information (set at build time)
var (
	version   = "dev"
	gitCommit = "unknown"
)

// app carries the state shared by every command once flags are parsed
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.SugaredLogger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "cardgen",
		Short: "Generate labeled training data for cardinality estimation",
		Long: `cardgen synthesizes join queries with range predicates by random walks over a
foreign key graph, then runs each one under EXPLAIN ANALYZE on PostgreSQL or
MySQL and records the optimizer's estimated and the actual row count.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			return a.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default: ./cardgen.yaml)")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("debug", false, "Human readable debug logging")

	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newAnnotateCmd(a))
	rootCmd.AddCommand(newSchemaCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// load resolves configuration for cmd and builds the logger
func (a *app) load(cmd *cobra.Command) error {
	cfg, used, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return err
	}
	if used != "" {
		logger.Debugw("using config file", "path", used)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cardgen %s (%s)\n", version, gitCommit)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "interrupted")
		stop()
		os.Exit(130)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	stop()
	os.Exit(1)
}
