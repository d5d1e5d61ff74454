package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/enerflux/market-import-worker/internal/db"
)

// MaxBatchSize is the hard ceiling on writes grouped into one atomic
// commit. The store rejects oversized atomic batches: 450 produced
// "transaction too large" failures in production, so the limit sits well
// below that. Correctness boundary, not a tunable.
const MaxBatchSize = 250

// CommitFunc commits one prepared batch atomically.
type CommitFunc func(ctx context.Context, batch *pgx.Batch) error

// BatchWriter buffers merge-upserts and flushes them in atomic batches of
// at most MaxBatchSize writes. A flush failure aborts the run; batches
// committed earlier stay persisted, and a full re-run is safe because
// every write is idempotent per key.
type BatchWriter struct {
	commit    CommitFunc
	batch     *pgx.Batch
	committed int
}

// NewBatchWriter creates a writer flushing through the given commit
// function. Tests inject a fake commit to observe batch boundaries.
func NewBatchWriter(commit CommitFunc) *BatchWriter {
	return &BatchWriter{
		commit: commit,
		batch:  &pgx.Batch{},
	}
}

// AddSpotPrice queues one spot price merge-upsert, flushing when the
// buffer reaches MaxBatchSize.
func (w *BatchWriter) AddSpotPrice(ctx context.Context, rec *db.SpotPrice) error {
	queueSpotPrice(w.batch, rec)
	return w.flushIfFull(ctx)
}

// AddFuturesSettlement queues one futures settlement merge-upsert,
// flushing when the buffer reaches MaxBatchSize.
func (w *BatchWriter) AddFuturesSettlement(ctx context.Context, rec *db.FuturesSettlement) error {
	queueFuturesSettlement(w.batch, rec)
	return w.flushIfFull(ctx)
}

// Flush commits any buffered writes, even a single one, and resets the
// buffer. A no-op on an empty buffer.
func (w *BatchWriter) Flush(ctx context.Context) error {
	pending := w.batch.Len()
	if pending == 0 {
		return nil
	}

	if err := w.commit(ctx, w.batch); err != nil {
		return fmt.Errorf("failed to commit batch of %d writes: %w", pending, err)
	}

	w.committed += pending
	w.batch = &pgx.Batch{}
	return nil
}

// Committed returns the total number of writes committed so far.
func (w *BatchWriter) Committed() int {
	return w.committed
}

func (w *BatchWriter) flushIfFull(ctx context.Context) error {
	if w.batch.Len() >= MaxBatchSize {
		return w.Flush(ctx)
	}
	return nil
}
