package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"desyncScope/internal/config"
	"desyncScope/internal/dataset"
	"desyncScope/internal/model"
	"desyncScope/internal/reconcile"
)

type offendersOutput struct {
	DatasetFailedCount       int                   `json:"dataset_failed_count"`
	NonceMismatchFailedCount int                   `json:"nonce_mismatch_failed_count"`
	TakerOffences            int                   `json:"taker_offences"`
	MakerOffences            int                   `json:"maker_offences"`
	TopOffenders             []model.OffenderCount `json:"top_offenders"`
	ByTx                     []txOffenders         `json:"by_tx"`
}

type txOffenders struct {
	Tx        string           `json:"tx"`
	Offenders []model.Offender `json:"offenders"`
}

func runOffenders(cmd *cobra.Command, _ []string) error {
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

	failed, err := dataset.LoadFailedMatches(cfg.FailedFile, logger)
	if err != nil {
		return err
	}

	summary := reconcile.Aggregate(failed.Rows)
	top := cfg.Top
	if top <= 0 {
		top = reconcile.DefaultTopN
	}

	out := offendersOutput{
		DatasetFailedCount:       failed.DeclaredCount(),
		NonceMismatchFailedCount: summary.MismatchTxCount,
		TakerOffences:            summary.TakerCount,
		MakerOffences:            summary.MakerCount,
		TopOffenders:             summary.TopOffenders(top),
		ByTx:                     make([]txOffenders, 0, len(summary.TxOrder)),
	}
	for _, tx := range summary.TxOrder {
		out.ByTx = append(out.ByTx, txOffenders{Tx: tx, Offenders: summary.OffendersByTx[tx]})
	}

	logger.Info("offenders complete",
		zap.Int("failed_rows", len(failed.Rows)),
		zap.Int("mismatch_txs", summary.MismatchTxCount),
		zap.Int("addresses", len(summary.Counts)),
	)

	if cfg.JSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return writeOffendersText(cmd.OutOrStdout(), out)
}

func writeOffendersText(w io.Writer, out offendersOutput) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Failed matchOrders txs in dataset: %d\n", out.DatasetFailedCount)
	fmt.Fprintf(&b, "Failed txs with decoded nonce mismatch: %d\n", out.NonceMismatchFailedCount)
	fmt.Fprintf(&b, "Offences by side: taker=%d maker=%d\n", out.TakerOffences, out.MakerOffences)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Top offenders (%d):\n", len(out.TopOffenders))
	for i, oc := range out.TopOffenders {
		fmt.Fprintf(&b, "%d. %s count=%d\n", i+1, oc.Address, oc.Count)
	}
	b.WriteString("\n")

	b.WriteString("Offenders by tx:\n")
	for _, entry := range out.ByTx {
		fmt.Fprintf(&b, "- %s\n", entry.Tx)
		for _, off := range entry.Offenders {
			fmt.Fprintf(&b, "  - %s (%s) order_nonce=%d chain_nonce=%d\n", off.Address, off.Side, off.OrderNonce, off.ChainNonce)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
