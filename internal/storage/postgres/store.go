package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"desyncScope/internal/model"
	"desyncScope/internal/report"
	"desyncScope/internal/storage"
)

var _ storage.Storage = (*Store)(nil)

var schemaSQL = []string{`
CREATE TABLE IF NOT EXISTS desync_reports (
	anchor_tx TEXT PRIMARY KEY,
	anchor_block BIGINT NOT NULL,
	offender_address TEXT NOT NULL,
	offender_side TEXT NOT NULL,
	prior_increment_tx TEXT,
	prior_increment_block BIGINT,
	dataset_failed_count INTEGER NOT NULL,
	nonce_mismatch_failed_count INTEGER NOT NULL,
	onchain_status TEXT NOT NULL,
	offchain_status_buggy TEXT NOT NULL,
	offchain_status_fixed TEXT NOT NULL,
	report JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, `
CREATE TABLE IF NOT EXISTS desync_offender_counts (
	anchor_tx TEXT NOT NULL REFERENCES desync_reports (anchor_tx) ON DELETE CASCADE,
	rank INTEGER NOT NULL,
	address TEXT NOT NULL,
	occurrences INTEGER NOT NULL,
	PRIMARY KEY (anchor_tx, rank)
)`,
}

// Store provides Postgres persistence for emitted reports.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the report tables when they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schemaSQL {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// PutReport upserts the report keyed by anchor tx and replaces its ranking rows.
func (s *Store) PutReport(ctx context.Context, rep report.Report) error {
	batch, err := reportBatch(rep)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("exec batch %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return tx.Commit(ctx)
}

// reportBatch queues the report upsert, the removal of the previous ranking
// and one insert per ranked offender.
func reportBatch(rep report.Report) (*pgx.Batch, error) {
	payload, err := json.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	var priorTx *string
	var priorBlock *int64
	if pi := rep.Anchor.PriorIncrement; pi != nil {
		tx := pi.Hash
		block := int64(pi.Block)
		priorTx = &tx
		priorBlock = &block
	}

	anchorTx := model.NormalizeHash(rep.Anchor.Tx)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO desync_reports (
			anchor_tx, anchor_block, offender_address, offender_side,
			prior_increment_tx, prior_increment_block,
			dataset_failed_count, nonce_mismatch_failed_count,
			onchain_status, offchain_status_buggy, offchain_status_fixed,
			report, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now(),now())
		ON CONFLICT (anchor_tx)
		DO UPDATE SET
			anchor_block = EXCLUDED.anchor_block,
			offender_address = EXCLUDED.offender_address,
			offender_side = EXCLUDED.offender_side,
			prior_increment_tx = EXCLUDED.prior_increment_tx,
			prior_increment_block = EXCLUDED.prior_increment_block,
			dataset_failed_count = EXCLUDED.dataset_failed_count,
			nonce_mismatch_failed_count = EXCLUDED.nonce_mismatch_failed_count,
			onchain_status = EXCLUDED.onchain_status,
			offchain_status_buggy = EXCLUDED.offchain_status_buggy,
			offchain_status_fixed = EXCLUDED.offchain_status_fixed,
			report = EXCLUDED.report,
			updated_at = now()
	`,
		anchorTx,
		int64(rep.Anchor.Block),
		rep.Anchor.OffenderAddress,
		string(rep.Anchor.OffenderSide),
		priorTx,
		priorBlock,
		rep.DatasetFailedCount,
		rep.NonceMismatchFailedCount,
		string(rep.StateMachineDemo.OnchainStatus),
		string(rep.StateMachineDemo.OffchainStatusBuggy),
		string(rep.StateMachineDemo.OffchainStatusFixed),
		payload,
	)
	batch.Queue(`DELETE FROM desync_offender_counts WHERE anchor_tx = $1`, anchorTx)
	for i, oc := range rep.TopOffenders {
		batch.Queue(`
			INSERT INTO desync_offender_counts (anchor_tx, rank, address, occurrences)
			VALUES ($1, $2, $3, $4)
		`, anchorTx, i+1, oc.Address, oc.Count)
	}
	return batch, nil
}

// LoadReport returns the stored report for an anchor tx.
func (s *Store) LoadReport(ctx context.Context, anchorTx string) (report.Report, bool, error) {
	var payload []byte
	row := s.pool.QueryRow(ctx, `SELECT report FROM desync_reports WHERE anchor_tx=$1`, model.NormalizeHash(anchorTx))
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.Report{}, false, nil
		}
		return report.Report{}, false, err
	}

	rep, err := decodeReport(payload)
	if err != nil {
		return report.Report{}, false, err
	}
	return rep, true, nil
}

func decodeReport(payload []byte) (report.Report, error) {
	var rep report.Report
	if err := json.Unmarshal(payload, &rep); err != nil {
		return report.Report{}, fmt.Errorf("decode stored report: %w", err)
	}
	return rep, nil
}
