package report

import (
	"desyncScope/internal/desync"
	"desyncScope/internal/model"
)

// RootCause is the explanation attached to every report.
const RootCause = "Orders were treated as executed off-chain before on-chain settlement finality. " +
	"When a participant incremented nonce, stale matched orders reverted on-chain " +
	"(InvalidNonce path), but buggy off-chain status could remain executed."

// Report is the structured result of one run. The narrative rendering is
// derived from it and carries the same facts.
type Report struct {
	DatasetFailedCount       int                   `json:"dataset_failed_count"`
	NonceMismatchFailedCount int                   `json:"nonce_mismatch_failed_count"`
	Anchor                   Anchor                `json:"anchor"`
	TopOffenders             []model.OffenderCount `json:"top_offenders"`
	IncrementWindow          IncrementWindow       `json:"increment_window"`
	StateMachineDemo         desync.Demo           `json:"state_machine_demo"`
	RootCause                string                `json:"root_cause"`
}

// Anchor describes the representative failed transaction and its primary
// offender.
type Anchor struct {
	Tx              string           `json:"tx"`
	Block           uint64           `json:"block"`
	OffenderAddress string           `json:"offender_address"`
	OffenderSide    model.Side       `json:"offender_side"`
	OrderNonce      uint64           `json:"order_nonce"`
	ChainNonce      uint64           `json:"chain_nonce"`
	PriorIncrement  *PriorIncrement  `json:"prior_increment"`
	Offenders       []model.Offender `json:"offenders"`
}

// PriorIncrement is the primary offender's last incrementNonce call at or
// before the anchor block. A nil pointer means none was found in the window.
type PriorIncrement struct {
	Hash               string `json:"hash"`
	Block              uint64 `json:"block"`
	TimeUTC            string `json:"time_utc"`
	From               string `json:"from"`
	Selector           string `json:"selector"`
	SelectorName       string `json:"selector_name"`
	Status             uint64 `json:"status"`
	BlockDeltaToAnchor uint64 `json:"block_delta_to_anchor"`
}

// IncrementWindow is the block span covered by the increment dataset. The
// block bounds are nil when the dataset has no rows.
type IncrementWindow struct {
	FromBlock *uint64 `json:"from_block"`
	ToBlock   *uint64 `json:"to_block"`
	Rows      int     `json:"rows"`
	Senders   int     `json:"senders"`
}

// Empty reports whether no increment rows were supplied.
func (w IncrementWindow) Empty() bool {
	return w.FromBlock == nil
}
