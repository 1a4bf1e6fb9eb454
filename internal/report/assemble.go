package report

import (
	"fmt"

	"go.uber.org/zap"

	"desyncScope/internal/dataset"
	"desyncScope/internal/desync"
	"desyncScope/internal/model"
	"desyncScope/internal/reconcile"
	"desyncScope/internal/selector"
)

// Options controls report assembly.
type Options struct {
	AnchorTx  string
	TopN      int
	Selectors *selector.Registry
}

// Builder assembles reports from loaded datasets.
type Builder struct {
	opts   Options
	logger *zap.Logger
}

// NewBuilder returns a Builder. A zero TopN uses reconcile.DefaultTopN and a
// nil selector registry uses the built-in selector table.
func NewBuilder(opts Options, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TopN <= 0 {
		opts.TopN = reconcile.DefaultTopN
	}
	if opts.Selectors == nil {
		// The built-in table cannot fail to parse.
		opts.Selectors, _ = selector.NewRegistry(nil)
	}
	return &Builder{opts: opts, logger: logger}
}

// Build aggregates the failed rows, explains the anchor transaction and
// replays its primary offender through the state machine.
func (b *Builder) Build(store *dataset.Store) (Report, error) {
	if store == nil {
		return Report{}, fmt.Errorf("dataset store is nil")
	}

	failedRows := store.Failed.Rows
	summary := reconcile.Aggregate(failedRows)
	index := reconcile.NewIncrementIndex(store.Increments.Rows)

	b.logger.Debug("aggregate complete",
		zap.Int("failed_rows", len(failedRows)),
		zap.Int("mismatch_txs", summary.MismatchTxCount),
		zap.Int("offenders", len(summary.Counts)),
		zap.Int("increment_senders", index.Addresses()),
	)

	anchorRow, ok := findAnchor(failedRows, b.opts.AnchorTx)
	if !ok {
		return Report{}, fmt.Errorf("%w: %s", ErrAnchorNotFound, b.opts.AnchorTx)
	}

	offenders := reconcile.ExtractOffenders(anchorRow)
	if len(offenders) == 0 {
		return Report{}, fmt.Errorf("%w: %s", ErrAnchorHasNoOffender, anchorRow.Hash)
	}
	primary := offenders[0]
	anchorBlock := anchorRow.Block.Uint64()

	var prior *PriorIncrement
	if inc, found := index.LatestAtOrBefore(primary.Address, anchorBlock); found {
		prior = &PriorIncrement{
			Hash:               inc.Hash,
			Block:              inc.Block.Uint64(),
			TimeUTC:            inc.TimeUTC,
			From:               inc.From,
			Selector:           inc.Selector,
			SelectorName:       b.opts.Selectors.Name(inc.Selector),
			Status:             inc.Status.Uint64(),
			BlockDeltaToAnchor: anchorBlock - inc.Block.Uint64(),
		}
	} else {
		b.logger.Info("no prior increment for anchor offender",
			zap.String("offender", primary.Address),
			zap.Uint64("anchor_block", anchorBlock),
		)
	}

	return Report{
		DatasetFailedCount:       store.Failed.DeclaredCount(),
		NonceMismatchFailedCount: summary.MismatchTxCount,
		Anchor: Anchor{
			Tx:              anchorRow.Hash,
			Block:           anchorBlock,
			OffenderAddress: primary.Address,
			OffenderSide:    primary.Side,
			OrderNonce:      primary.OrderNonce,
			ChainNonce:      primary.ChainNonce,
			PriorIncrement:  prior,
			Offenders:       offenders,
		},
		TopOffenders:     summary.TopOffenders(b.opts.TopN),
		IncrementWindow:  incrementWindow(store.Increments.Rows, index),
		StateMachineDemo: desync.ReplayOffender(primary.OrderNonce, primary.ChainNonce),
		RootCause:        RootCause,
	}, nil
}

func findAnchor(rows []model.FailedMatchRecord, txHash string) (model.FailedMatchRecord, bool) {
	want := model.NormalizeHash(txHash)
	for _, row := range rows {
		if model.NormalizeHash(row.Hash) == want {
			return row, true
		}
	}
	return model.FailedMatchRecord{}, false
}

func incrementWindow(rows []model.IncrementRecord, index *reconcile.IncrementIndex) IncrementWindow {
	window := IncrementWindow{Rows: len(rows), Senders: index.Addresses()}
	if len(rows) == 0 {
		return window
	}
	from, to := rows[0].Block.Uint64(), rows[0].Block.Uint64()
	for _, row := range rows[1:] {
		block := row.Block.Uint64()
		if block < from {
			from = block
		}
		if block > to {
			to = block
		}
	}
	window.FromBlock, window.ToBlock = &from, &to
	return window
}
