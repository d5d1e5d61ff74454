package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/enerflux/market-import-worker/internal/db"
)

// Tx is an alias for pgx.Tx
type Tx = pgx.Tx

// Every write is a merge-upsert keyed by the record's computed key:
// re-applying the same record is a no-op difference, and a corrected record
// with the same key fully replaces the prior one.
const upsertSpotPriceSQL = `
	INSERT INTO spot_prices (
		key, delivery_date, delivery_hour, price, volume, created_at, created_by
	)
	VALUES ($1, $2, $3, $4, $5, now(), $6)
	ON CONFLICT (key) DO UPDATE SET
		delivery_date = EXCLUDED.delivery_date,
		delivery_hour = EXCLUDED.delivery_hour,
		price         = EXCLUDED.price,
		volume        = EXCLUDED.volume,
		created_at    = EXCLUDED.created_at,
		created_by    = EXCLUDED.created_by
`

const upsertFuturesSettlementSQL = `
	INSERT INTO futures_settlements (
		key, trading_date, contract, max_price, min_price, settlement_price,
		turnover_value, volume, contracts_count, open_interest,
		transactions_count, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
	ON CONFLICT (key) DO UPDATE SET
		trading_date       = EXCLUDED.trading_date,
		contract           = EXCLUDED.contract,
		max_price          = EXCLUDED.max_price,
		min_price          = EXCLUDED.min_price,
		settlement_price   = EXCLUDED.settlement_price,
		turnover_value     = EXCLUDED.turnover_value,
		volume             = EXCLUDED.volume,
		contracts_count    = EXCLUDED.contracts_count,
		open_interest      = EXCLUDED.open_interest,
		transactions_count = EXCLUDED.transactions_count,
		created_at         = EXCLUDED.created_at
`

// Repository handles canonical store operations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CommitBatch sends one prepared batch inside a single transaction. Either
// every queued write lands or none of them do.
func (r *Repository) CommitBatch(ctx context.Context, batch *pgx.Batch) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to execute batched write %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	return nil
}

// NewBatchWriter returns a writer that flushes through this repository.
func (r *Repository) NewBatchWriter() *BatchWriter {
	return NewBatchWriter(r.CommitBatch)
}

func queueSpotPrice(batch *pgx.Batch, rec *db.SpotPrice) {
	batch.Queue(upsertSpotPriceSQL,
		rec.Key, rec.Date, rec.Hour, rec.Price, rec.Volume, rec.CreatedBy)
}

func queueFuturesSettlement(batch *pgx.Batch, rec *db.FuturesSettlement) {
	batch.Queue(upsertFuturesSettlementSQL,
		rec.Key, rec.Date, rec.Contract, rec.MaxPrice, rec.MinPrice,
		rec.SettlementPrice, rec.TurnoverValue, rec.Volume,
		rec.ContractsCount, rec.OpenInterest, rec.TransactionsCount)
}
