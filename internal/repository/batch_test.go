package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/enerflux/market-import-worker/internal/db"
	"github.com/enerflux/market-import-worker/internal/repository"
)

func spotRecord(hour int) *db.SpotPrice {
	return &db.SpotPrice{
		Key:       fmt.Sprintf("2024-03-16-%02d", hour),
		Date:      "2024-03-16",
		Hour:      hour,
		Price:     279.1,
		Volume:    100,
		CreatedBy: "upload:test@example.com",
	}
}

func TestBatchWriter_FlushesAtMaxBatchSize(t *testing.T) {
	var sizes []int
	writer := repository.NewBatchWriter(func(ctx context.Context, batch *pgx.Batch) error {
		sizes = append(sizes, batch.Len())
		return nil
	})

	ctx := context.Background()
	for i := 0; i < repository.MaxBatchSize+1; i++ {
		if err := writer.AddSpotPrice(ctx, spotRecord(i%24+1)); err != nil {
			t.Fatalf("unexpected add error: %v", err)
		}
	}
	if err := writer.Flush(ctx); err != nil {
		t.Fatalf("unexpected flush error: %v", err)
	}

	if len(sizes) != 2 {
		t.Fatalf("expected 2 commits for %d writes, got %d", repository.MaxBatchSize+1, len(sizes))
	}
	if sizes[0] != repository.MaxBatchSize {
		t.Errorf("expected first commit of %d writes, got %d", repository.MaxBatchSize, sizes[0])
	}
	if sizes[1] != 1 {
		t.Errorf("expected trailing commit of 1 write, got %d", sizes[1])
	}
	if writer.Committed() != repository.MaxBatchSize+1 {
		t.Errorf("expected %d committed, got %d", repository.MaxBatchSize+1, writer.Committed())
	}
}

func TestBatchWriter_FlushCommitsRemainder(t *testing.T) {
	commits := 0
	writer := repository.NewBatchWriter(func(ctx context.Context, batch *pgx.Batch) error {
		commits++
		if batch.Len() != 1 {
			t.Errorf("expected remainder of 1 write, got %d", batch.Len())
		}
		return nil
	})

	ctx := context.Background()
	if err := writer.AddSpotPrice(ctx, spotRecord(7)); err != nil {
		t.Fatalf("unexpected add error: %v", err)
	}
	if err := writer.Flush(ctx); err != nil {
		t.Fatalf("unexpected flush error: %v", err)
	}

	if commits != 1 {
		t.Errorf("expected 1 commit, got %d", commits)
	}
	if writer.Committed() != 1 {
		t.Errorf("expected 1 committed, got %d", writer.Committed())
	}
}

func TestBatchWriter_EmptyFlushIsNoop(t *testing.T) {
	writer := repository.NewBatchWriter(func(ctx context.Context, batch *pgx.Batch) error {
		t.Error("commit should not be called for an empty buffer")
		return nil
	})

	if err := writer.Flush(context.Background()); err != nil {
		t.Fatalf("unexpected flush error: %v", err)
	}
	if writer.Committed() != 0 {
		t.Errorf("expected 0 committed, got %d", writer.Committed())
	}
}

func TestBatchWriter_CommitFailurePropagates(t *testing.T) {
	commitErr := errors.New("transaction too large")
	writer := repository.NewBatchWriter(func(ctx context.Context, batch *pgx.Batch) error {
		return commitErr
	})

	ctx := context.Background()
	if err := writer.AddSpotPrice(ctx, spotRecord(1)); err != nil {
		t.Fatalf("unexpected add error: %v", err)
	}

	err := writer.Flush(ctx)
	if err == nil {
		t.Fatal("expected flush error")
	}
	if !errors.Is(err, commitErr) {
		t.Errorf("expected wrapped commit error, got %v", err)
	}
	if writer.Committed() != 0 {
		t.Errorf("failed flush must not count as committed, got %d", writer.Committed())
	}
}

func TestBatchWriter_MixedRecordKindsShareTheBuffer(t *testing.T) {
	var sizes []int
	writer := repository.NewBatchWriter(func(ctx context.Context, batch *pgx.Batch) error {
		sizes = append(sizes, batch.Len())
		return nil
	})

	ctx := context.Background()
	if err := writer.AddSpotPrice(ctx, spotRecord(1)); err != nil {
		t.Fatalf("unexpected add error: %v", err)
	}
	settlement := &db.FuturesSettlement{
		Key:             "2024-03-16_BASE_Y-26",
		Date:            "2024-03-16",
		Contract:        "BASE_Y-26",
		SettlementPrice: 412.5,
	}
	if err := writer.AddFuturesSettlement(ctx, settlement); err != nil {
		t.Fatalf("unexpected add error: %v", err)
	}
	if err := writer.Flush(ctx); err != nil {
		t.Fatalf("unexpected flush error: %v", err)
	}

	if len(sizes) != 1 || sizes[0] != 2 {
		t.Errorf("expected one commit of 2 writes, got %v", sizes)
	}
}
