package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"desyncScope/internal/config"
	"desyncScope/internal/dataset"
	"desyncScope/internal/report"
	"desyncScope/internal/selector"
	"desyncScope/internal/storage"
	"desyncScope/internal/storage/postgres"
)

func runReport(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReport(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.AnchorTx == "" {
		return fmt.Errorf("anchor tx is required")
	}

	if cfg.FromPG && cfg.PGDSN == "" {
		return fmt.Errorf("--from-pg requires --pg-dsn")
	}

	logger.Info("report start",
		zap.String("failed_file", cfg.FailedFile),
		zap.String("increment_file", cfg.IncrementFile),
		zap.String("anchor_tx", cfg.AnchorTx),
		zap.Int("top", cfg.Top),
		zap.Bool("json", cfg.JSON),
		zap.Bool("from_pg", cfg.FromPG),
	)

	var rep report.Report
	if cfg.FromPG {
		rep, err = loadArchivedReport(cfg, logger)
	} else {
		rep, err = buildReport(cfg, logger)
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if cfg.JSON {
		err = report.WriteJSON(&buf, rep)
	} else {
		err = report.WriteText(&buf, rep)
	}
	if err != nil {
		return err
	}

	// A failed archive emits no report.
	if !cfg.FromPG {
		if err := archiveReport(cfg, rep, logger); err != nil {
			return err
		}
	}

	if cfg.Out != "" {
		if err := storage.WriteFileAtomic(cfg.Out, buf.Bytes()); err != nil {
			return err
		}
	} else if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info("report complete",
		zap.Int("mismatch_txs", rep.NonceMismatchFailedCount),
		zap.String("offender", rep.Anchor.OffenderAddress),
		zap.Bool("prior_increment", rep.Anchor.PriorIncrement != nil),
		zap.String("onchain_status", string(rep.StateMachineDemo.OnchainStatus)),
	)
	return nil
}

func buildReport(cfg config.ReportConfig, logger *zap.Logger) (report.Report, error) {
	registry, err := selector.NewRegistry(cfg.SelectorMap)
	if err != nil {
		return report.Report{}, err
	}

	store, err := dataset.Load(cfg.FailedFile, cfg.IncrementFile, logger)
	if err != nil {
		return report.Report{}, err
	}

	return report.NewBuilder(report.Options{
		AnchorTx:  cfg.AnchorTx,
		TopN:      cfg.Top,
		Selectors: registry,
	}, logger).Build(store)
}

func loadArchivedReport(cfg config.ReportConfig, logger *zap.Logger) (report.Report, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return report.Report{}, fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	rep, found, err := pg.LoadReport(ctx, cfg.AnchorTx)
	if err != nil {
		return report.Report{}, fmt.Errorf("load archived report: %w", err)
	}
	if !found {
		return report.Report{}, fmt.Errorf("%w: %s not archived in postgres", report.ErrAnchorNotFound, cfg.AnchorTx)
	}
	logger.Info("archived report loaded",
		zap.String("anchor_tx", rep.Anchor.Tx),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)
	return rep, nil
}

func archiveReport(cfg config.ReportConfig, rep report.Report, logger *zap.Logger) error {
	if cfg.Archive == "" && cfg.PGDSN == "" {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sinks []storage.Storage
	if cfg.Archive != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.Archive))
	}
	if cfg.PGDSN != "" {
		pg, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		sinks = append(sinks, pg)
	}

	for _, sink := range sinks {
		if err := sink.PutReport(ctx, rep); err != nil {
			return fmt.Errorf("archive report: %w", err)
		}
	}

	logger.Info("report archived",
		zap.String("archive", cfg.Archive),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)
	return nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
