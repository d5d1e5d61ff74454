package ingest

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/enerflux/market-import-worker/internal/columns"
	"github.com/enerflux/market-import-worker/internal/db"
	"github.com/enerflux/market-import-worker/tools/localeparser"
)

// FuturesImporter drives the futures settlement pipeline. Unlike the spot
// pipeline it owns CSV parsing and keeps no per-row rejection samples; the
// feed is noisy by design (untraded contracts appear daily with a zero
// settlement) so dropped rows are expected.
type FuturesImporter struct {
	logger *zap.Logger
}

// NewFuturesImporter creates a futures settlement importer.
func NewFuturesImporter(logger *zap.Logger) *FuturesImporter {
	return &FuturesImporter{logger: logger}
}

// Run parses the raw export text (delimiter auto-detected) and writes one
// settlement record per traded contract.
func (imp *FuturesImporter) Run(ctx context.Context, csvText string, writer RecordWriter) FuturesResult {
	rows, err := ParseCSV(csvText)
	if err != nil {
		return FuturesResult{Error: err.Error()}
	}

	count := 0
	for _, row := range rows {
		rec := imp.buildSettlement(row)
		if rec == nil {
			continue
		}
		if err := writer.AddFuturesSettlement(ctx, rec); err != nil {
			return FuturesResult{Error: err.Error()}
		}
		count++
	}

	if err := writer.Flush(ctx); err != nil {
		return FuturesResult{Error: err.Error()}
	}

	return FuturesResult{Success: true, Count: count}
}

// buildSettlement turns one raw row into a canonical record, or nil when
// the row is dropped: unparseable date, empty contract, or zero settlement
// price (the contract did not trade that day).
func (imp *FuturesImporter) buildSettlement(row columns.Row) *db.FuturesSettlement {
	dateRaw, _ := columns.Resolve(row, "data")
	contractRaw, _ := columns.Resolve(row, "instrument")
	contract := strings.TrimSpace(contractRaw)

	date, ok := localeparser.NormalizeDate(dateRaw)
	if !ok {
		if strings.TrimSpace(dateRaw) != "" {
			imp.logger.Warn("dropping settlement row with unrecognized trading date",
				zap.String("raw_date", strings.TrimSpace(dateRaw)),
			)
		}
		return nil
	}
	if contract == "" {
		return nil
	}

	number := func(logical string) float64 {
		raw, _ := columns.Resolve(row, logical)
		value, _ := localeparser.ParseNumber(raw)
		return value
	}

	settlement := number("dkr")
	if settlement == 0 {
		// No trade that day.
		return nil
	}

	return &db.FuturesSettlement{
		Key:               FuturesKey(date, contract),
		Date:              date,
		Contract:          contract,
		MaxPrice:          number("kurs_max"),
		MinPrice:          number("kurs_min"),
		SettlementPrice:   settlement,
		TurnoverValue:     number("wartosc_obrotu"),
		Volume:            number("wolumen"),
		ContractsCount:    number("lk"),
		OpenInterest:      number("loi"),
		TransactionsCount: number("lt"),
	}
}

// FuturesKey builds the canonical document key, e.g.
// "2024-03-16_BASE_Y-26". The format is persisted and must stay bit-exact.
func FuturesKey(date, contract string) string {
	return date + "_" + contract
}
