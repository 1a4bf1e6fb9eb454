package report

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"desyncScope/internal/dataset"
	"desyncScope/internal/desync"
	"desyncScope/internal/model"
)

const (
	takerAddr = "0x1111111111111111111111111111111111111111"
	makerAddr = "0x2222222222222222222222222222222222222222"
)

func boolPtr(v bool) *bool {
	return &v
}

func scenarioStore() *dataset.Store {
	return &dataset.Store{
		Failed: model.FailedMatchDataset{
			Rows: []model.FailedMatchRecord{{
				Hash:            "0xabc",
				Block:           1000,
				TakerMaker:      takerAddr,
				TakerOrderNonce: 3,
				TakerChainNonce: 4,
				TakerValid:      boolPtr(false),
			}},
		},
		Increments: model.IncrementDataset{
			Rows: []model.IncrementRecord{{
				Hash:     "0xdef",
				Block:    995,
				From:     takerAddr,
				TimeUTC:  "2026-02-01T00:00:00Z",
				Selector: "0x627cdcb9",
				Status:   1,
			}},
		},
	}
}

func TestBuildEndToEnd(t *testing.T) {
	rep, err := NewBuilder(Options{AnchorTx: "0xABC"}, nil).Build(scenarioStore())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if rep.DatasetFailedCount != 1 || rep.NonceMismatchFailedCount != 1 {
		t.Fatalf("counts mismatch: %+v", rep)
	}
	if rep.Anchor.OffenderSide != model.SideTaker {
		t.Fatalf("offender side: %s", rep.Anchor.OffenderSide)
	}
	if rep.Anchor.OffenderAddress != takerAddr {
		t.Fatalf("offender address: %s", rep.Anchor.OffenderAddress)
	}

	wantPrior := &PriorIncrement{
		Hash:               "0xdef",
		Block:              995,
		TimeUTC:            "2026-02-01T00:00:00Z",
		From:               takerAddr,
		Selector:           "0x627cdcb9",
		SelectorName:       "incrementNonce",
		Status:             1,
		BlockDeltaToAnchor: 5,
	}
	if diff := cmp.Diff(wantPrior, rep.Anchor.PriorIncrement); diff != "" {
		t.Fatalf("prior increment mismatch (-want +got):\n%s", diff)
	}

	wantDemo := desync.Demo{
		OrderNonce:          3,
		ChainNonceBefore:    3,
		ChainNonceAfter:     4,
		OnchainStatus:       desync.OnchainReverted,
		OffchainStatusBuggy: desync.OffchainExecuted,
		OffchainStatusFixed: desync.OffchainFailed,
	}
	if diff := cmp.Diff(wantDemo, rep.StateMachineDemo); diff != "" {
		t.Fatalf("demo mismatch (-want +got):\n%s", diff)
	}

	wantTop := []model.OffenderCount{{Address: takerAddr, Count: 1}}
	if diff := cmp.Diff(wantTop, rep.TopOffenders); diff != "" {
		t.Fatalf("top offenders mismatch (-want +got):\n%s", diff)
	}
	block := uint64(995)
	wantWindow := IncrementWindow{FromBlock: &block, ToBlock: &block, Rows: 1, Senders: 1}
	if diff := cmp.Diff(wantWindow, rep.IncrementWindow); diff != "" {
		t.Fatalf("window mismatch (-want +got):\n%s", diff)
	}
	if rep.RootCause != RootCause {
		t.Fatalf("root cause missing")
	}
}

func TestBuildAnchorNotFound(t *testing.T) {
	_, err := NewBuilder(Options{AnchorTx: "0xmissing"}, nil).Build(scenarioStore())
	if !errors.Is(err, ErrAnchorNotFound) {
		t.Fatalf("expected ErrAnchorNotFound, got %v", err)
	}
}

func TestBuildAnchorWithoutOffender(t *testing.T) {
	store := scenarioStore()
	store.Failed.Rows[0].TakerValid = nil

	_, err := NewBuilder(Options{AnchorTx: "0xabc"}, nil).Build(store)
	if !errors.Is(err, ErrAnchorHasNoOffender) {
		t.Fatalf("expected ErrAnchorHasNoOffender, got %v", err)
	}
}

func TestBuildNoPriorIncrement(t *testing.T) {
	store := scenarioStore()
	store.Increments.Rows[0].Block = 1001

	rep, err := NewBuilder(Options{AnchorTx: "0xabc"}, nil).Build(store)
	if err != nil {
		t.Fatalf("missing prior increment must not fail: %v", err)
	}
	if rep.Anchor.PriorIncrement != nil {
		t.Fatalf("expected no prior increment, got %+v", rep.Anchor.PriorIncrement)
	}
}

func TestBuildPrimaryIsFirstOffender(t *testing.T) {
	store := scenarioStore()
	store.Failed.Rows[0].TakerValid = boolPtr(true)
	store.Failed.Rows[0].MakerChecks = []model.MakerCheck{
		{Maker: makerAddr, OrderNonce: 10, ChainNonce: 12, Valid: boolPtr(false)},
		{Maker: takerAddr, OrderNonce: 3, ChainNonce: 4, Valid: boolPtr(false)},
	}
	count := model.Quantity(40)
	store.Failed.Count = &count

	rep, err := NewBuilder(Options{AnchorTx: "0xabc", TopN: 1}, nil).Build(store)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if rep.DatasetFailedCount != 40 {
		t.Fatalf("declared count should be reported: %d", rep.DatasetFailedCount)
	}
	if rep.Anchor.OffenderAddress != makerAddr || rep.Anchor.OffenderSide != model.SideMaker {
		t.Fatalf("primary offender mismatch: %+v", rep.Anchor)
	}
	if len(rep.Anchor.Offenders) != 2 {
		t.Fatalf("all anchor offenders should be listed: %+v", rep.Anchor.Offenders)
	}
	if rep.Anchor.PriorIncrement != nil {
		t.Fatalf("maker has no increments, got %+v", rep.Anchor.PriorIncrement)
	}
	if len(rep.TopOffenders) != 1 {
		t.Fatalf("top n not applied: %+v", rep.TopOffenders)
	}
	if rep.StateMachineDemo.OnchainStatus != desync.OnchainReverted {
		t.Fatalf("demo should use primary offender nonces: %+v", rep.StateMachineDemo)
	}
}

func TestBuildEmptyIncrementWindow(t *testing.T) {
	store := scenarioStore()
	store.Increments.Rows = []model.IncrementRecord{}

	rep, err := NewBuilder(Options{AnchorTx: "0xabc"}, nil).Build(store)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !rep.IncrementWindow.Empty() || rep.IncrementWindow.ToBlock != nil {
		t.Fatalf("window should have no block bounds: %+v", rep.IncrementWindow)
	}
	if rep.IncrementWindow.Rows != 0 || rep.IncrementWindow.Senders != 0 {
		t.Fatalf("window counts: %+v", rep.IncrementWindow)
	}
}

func TestBuildNilStore(t *testing.T) {
	if _, err := NewBuilder(Options{}, nil).Build(nil); err == nil {
		t.Fatalf("expected error for nil store")
	}
}
