package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"desyncScope/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "desync",
		Short:         "Explain off-chain/on-chain nonce desync settlement failures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Reconstruct the anchor failure and emit the desync report",
		RunE:  runReport,
	}
	addDatasetFlags(reportCmd)
	reportCmd.Flags().String("anchor-tx", config.DefaultAnchorTx, "anchor failed tx hash")
	reportCmd.Flags().String("out", "", "write the rendered report to this file instead of stdout")
	reportCmd.Flags().String("archive", "", "append the report to this JSONL archive")
	reportCmd.Flags().String("pg-dsn", "", "Postgres DSN for report archiving")
	reportCmd.Flags().Bool("from-pg", false, "re-render the archived report for --anchor-tx from Postgres instead of the datasets")
	reportCmd.Flags().String("selector-map", "", "extra selector->name mappings (comma-separated key=value)")
	root.AddCommand(reportCmd)

	offendersCmd := &cobra.Command{
		Use:   "offenders",
		Short: "Rank nonce-mismatch offenders across the failed dataset",
		RunE:  runOffenders,
	}
	addDatasetFlags(offendersCmd)
	root.AddCommand(offendersCmd)

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay the off-chain/on-chain state machine for explicit nonces",
		RunE:  runReplay,
	}
	replayCmd.Flags().Uint64("order-nonce", 0, "nonce the order was signed against")
	replayCmd.Flags().Uint64("chain-nonce-before", 0, "nonce the order assumed")
	replayCmd.Flags().Uint64("chain-nonce-after", 0, "nonce in effect at settlement")
	replayCmd.Flags().Bool("json", false, "print machine-readable output")
	replayCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(replayCmd)

	return root
}

func addDatasetFlags(cmd *cobra.Command) {
	cmd.Flags().String("failed-file", config.DefaultFailedFile, "path to failed nonce mismatch analysis json")
	cmd.Flags().String("increment-file", config.DefaultIncrementFile, "path to incrementNonce call scan json")
	cmd.Flags().Int("top", 5, "number of top offenders to report")
	cmd.Flags().Bool("json", false, "print machine-readable output")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
