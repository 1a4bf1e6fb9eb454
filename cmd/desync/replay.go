package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"desyncScope/internal/config"
	"desyncScope/internal/desync"
)

type replayOutput struct {
	desync.Demo
	Steps []desync.Step `json:"steps"`
}

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReplay(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	demo := desync.Replay(cfg.OrderNonce, cfg.ChainNonceBefore, cfg.ChainNonceAfter)
	logger.Debug("replay complete",
		zap.Uint64("order_nonce", demo.OrderNonce),
		zap.Uint64("chain_nonce_after", demo.ChainNonceAfter),
		zap.Bool("diverged", demo.Diverged()),
	)

	steps := desync.Trace(cfg.OrderNonce, cfg.ChainNonceAfter)

	out := cmd.OutOrStdout()
	if cfg.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(replayOutput{Demo: demo, Steps: steps})
	}

	for _, step := range steps {
		if _, err := fmt.Fprintf(out, "%s: onchain=%s buggy=%s fixed=%s\n",
			step.Phase, step.OnchainStatus, step.OffchainStatusBuggy, step.OffchainStatusFixed); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(out,
		"order_nonce=%d chain_nonce_before=%d chain_nonce_after=%d -> onchain=%s\n"+
			"buggy offchain status after settlement: %s\n"+
			"fixed offchain status after settlement: %s\n"+
			"diverged: %t\n",
		demo.OrderNonce, demo.ChainNonceBefore, demo.ChainNonceAfter, demo.OnchainStatus,
		demo.OffchainStatusBuggy, demo.OffchainStatusFixed, demo.Diverged())
	return err
}
