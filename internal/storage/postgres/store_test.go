package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"desyncScope/internal/desync"
	"desyncScope/internal/model"
	"desyncScope/internal/report"
)

func sampleReport() report.Report {
	return report.Report{
		DatasetFailedCount:       2,
		NonceMismatchFailedCount: 2,
		Anchor: report.Anchor{
			Tx:              "0xABC",
			Block:           1000,
			OffenderAddress: "0x1111111111111111111111111111111111111111",
			OffenderSide:    model.SideTaker,
			OrderNonce:      3,
			ChainNonce:      4,
			PriorIncrement: &report.PriorIncrement{
				Hash:               "0xdef",
				Block:              995,
				TimeUTC:            "2026-02-01T00:00:00Z",
				From:               "0x1111111111111111111111111111111111111111",
				Selector:           "0x627cdcb9",
				SelectorName:       "incrementNonce",
				Status:             1,
				BlockDeltaToAnchor: 5,
			},
			Offenders: []model.Offender{
				{Address: "0x1111111111111111111111111111111111111111", OrderNonce: 3, ChainNonce: 4, Side: model.SideTaker},
			},
		},
		TopOffenders: []model.OffenderCount{
			{Address: "0x1111111111111111111111111111111111111111", Count: 2},
			{Address: "0x2222222222222222222222222222222222222222", Count: 1},
		},
		StateMachineDemo: desync.ReplayOffender(3, 4),
		RootCause:        report.RootCause,
	}
}

func TestReportBatchStatements(t *testing.T) {
	batch, err := reportBatch(sampleReport())
	if err != nil {
		t.Fatalf("build batch: %v", err)
	}
	if batch.Len() != 4 {
		t.Fatalf("expected upsert, delete and 2 ranking inserts, got %d", batch.Len())
	}

	upsert := batch.QueuedQueries[0]
	if !strings.Contains(upsert.SQL, "INSERT INTO desync_reports") || !strings.Contains(upsert.SQL, "ON CONFLICT (anchor_tx)") {
		t.Fatalf("unexpected upsert sql: %s", upsert.SQL)
	}
	if len(upsert.Arguments) != 12 {
		t.Fatalf("upsert args: %d", len(upsert.Arguments))
	}
	if upsert.Arguments[0] != "0xabc" {
		t.Fatalf("anchor tx should be normalized: %v", upsert.Arguments[0])
	}
	if tx, ok := upsert.Arguments[4].(*string); !ok || *tx != "0xdef" {
		t.Fatalf("prior increment tx: %v", upsert.Arguments[4])
	}
	if block, ok := upsert.Arguments[5].(*int64); !ok || *block != 995 {
		t.Fatalf("prior increment block: %v", upsert.Arguments[5])
	}
	if upsert.Arguments[8] != "reverted" || upsert.Arguments[9] != "executed" || upsert.Arguments[10] != "failed" {
		t.Fatalf("state machine columns: %v", upsert.Arguments[8:11])
	}

	del := batch.QueuedQueries[1]
	if !strings.Contains(del.SQL, "DELETE FROM desync_offender_counts") || del.Arguments[0] != "0xabc" {
		t.Fatalf("unexpected delete: %s %v", del.SQL, del.Arguments)
	}

	want := [][]any{
		{"0xabc", 1, "0x1111111111111111111111111111111111111111", 2},
		{"0xabc", 2, "0x2222222222222222222222222222222222222222", 1},
	}
	for i, q := range batch.QueuedQueries[2:] {
		if !strings.Contains(q.SQL, "INSERT INTO desync_offender_counts") {
			t.Fatalf("ranking insert %d sql: %s", i, q.SQL)
		}
		if diff := cmp.Diff(want[i], q.Arguments); diff != "" {
			t.Fatalf("ranking insert %d args (-want +got):\n%s", i, diff)
		}
	}
}

func TestReportBatchWithoutPriorIncrement(t *testing.T) {
	rep := sampleReport()
	rep.Anchor.PriorIncrement = nil
	rep.TopOffenders = nil

	batch, err := reportBatch(rep)
	if err != nil {
		t.Fatalf("build batch: %v", err)
	}
	if batch.Len() != 2 {
		t.Fatalf("expected upsert and delete only, got %d", batch.Len())
	}
	args := batch.QueuedQueries[0].Arguments
	if tx, ok := args[4].(*string); !ok || tx != nil {
		t.Fatalf("prior increment tx should be a nil *string: %#v", args[4])
	}
	if block, ok := args[5].(*int64); !ok || block != nil {
		t.Fatalf("prior increment block should be a nil *int64: %#v", args[5])
	}
}

func TestStoredPayloadDecodes(t *testing.T) {
	rep := sampleReport()
	batch, err := reportBatch(rep)
	if err != nil {
		t.Fatalf("build batch: %v", err)
	}
	payload, ok := batch.QueuedQueries[0].Arguments[11].([]byte)
	if !ok {
		t.Fatalf("payload should be raw json bytes: %T", batch.QueuedQueries[0].Arguments[11])
	}

	got, err := decodeReport(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(rep, got); diff != "" {
		t.Fatalf("stored report mismatch (-want +got):\n%s", diff)
	}

	if _, err := decodeReport([]byte(`{"anchor": 1}`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNewStoreRequiresDSN(t *testing.T) {
	if _, err := NewStore(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}
