package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/enerflux/market-import-worker/internal/columns"
	"github.com/enerflux/market-import-worker/internal/db"
	"github.com/enerflux/market-import-worker/internal/quality"
	"github.com/enerflux/market-import-worker/tools/localeparser"
)

// recentWindow bounds the rolling window the quality checker sees.
const recentWindow = 48

// RecordWriter persists canonical records by key. Every add is a
// merge-upsert: re-adding a key overwrites the stored record in full.
// Flush commits whatever is still buffered.
type RecordWriter interface {
	AddSpotPrice(ctx context.Context, rec *db.SpotPrice) error
	AddFuturesSettlement(ctx context.Context, rec *db.FuturesSettlement) error
	Flush(ctx context.Context) error
	Committed() int
}

// SpotImporter drives the day-ahead spot price pipeline. The caller owns
// CSV parsing and hands over already-parsed rows.
type SpotImporter struct {
	checker *quality.Checker
	logger  *zap.Logger
	// strict rejects rows whose non-empty numeric fields fell back to
	// zero instead of silently accepting them.
	strict bool
}

// NewSpotImporter creates a spot price importer.
func NewSpotImporter(checker *quality.Checker, strict bool, logger *zap.Logger) *SpotImporter {
	return &SpotImporter{
		checker: checker,
		logger:  logger,
		strict:  strict,
	}
}

// Run processes rows in input order, writing accepted records through the
// writer and sampling up to five rejections for diagnosis. A write or
// flush failure aborts the run; records committed before the failure stay
// persisted and a full re-run is safe.
func (imp *SpotImporter) Run(ctx context.Context, rows []columns.Row, actor string, writer RecordWriter) (*Result, error) {
	result := &Result{}
	var recent []float64

	for i, row := range rows {
		rowNumber := i + 1

		rec, zeroed, reason := buildSpotPrice(row, actor)
		if reason == "" && imp.strict && len(zeroed) > 0 {
			reason = "unparseable numeric field(s): " + strings.Join(zeroed, ", ")
		}
		if reason != "" {
			result.recordSkip(rowNumber, reason, row)
			continue
		}

		if len(zeroed) > 0 {
			result.ParseFallbacks++
			imp.logger.Warn("numeric field fell back to zero",
				zap.Int("row", rowNumber),
				zap.Strings("fields", zeroed),
			)
		}

		if imp.checker != nil {
			if flagged, why := imp.checker.Check(rec.Price, recent); flagged {
				imp.logger.Warn("spot price quality flag",
					zap.String("key", rec.Key),
					zap.String("reason", why),
				)
			}
		}
		recent = append(recent, rec.Price)
		if len(recent) > recentWindow {
			recent = recent[1:]
		}

		if err := writer.AddSpotPrice(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to write spot price %s: %w", rec.Key, err)
		}
		result.Processed++
	}

	if err := writer.Flush(ctx); err != nil {
		return nil, fmt.Errorf("failed to flush spot prices: %w", err)
	}

	return result, nil
}

// buildSpotPrice turns one raw row into a canonical record, or a rejection
// reason. zeroed lists non-empty numeric fields that fell back to zero.
func buildSpotPrice(row columns.Row, actor string) (rec *db.SpotPrice, zeroed []string, reason string) {
	dateRaw, _ := columns.ResolveAny(row, "data", "data dostawy")
	hourRaw, _ := columns.Resolve(row, "h_num")
	priceRaw, _ := columns.Resolve(row, "cena")
	volumeRaw, _ := columns.Resolve(row, "wolumen")

	if strings.TrimSpace(dateRaw) == "" {
		return nil, nil, "missing delivery date"
	}
	if strings.TrimSpace(hourRaw) == "" {
		return nil, nil, "missing hour"
	}
	if strings.TrimSpace(priceRaw) == "" {
		return nil, nil, "missing price"
	}

	date, ok := localeparser.NormalizeDate(dateRaw)
	if !ok {
		return nil, nil, fmt.Sprintf("unrecognized date format: %q", strings.TrimSpace(dateRaw))
	}

	hour, err := strconv.Atoi(strings.TrimSpace(hourRaw))
	if err != nil {
		return nil, nil, fmt.Sprintf("invalid hour: %q", strings.TrimSpace(hourRaw))
	}
	// Hour 25 exists only on the day the clocks fall back.
	if hour < 1 || hour > 25 {
		return nil, nil, fmt.Sprintf("hour %d outside delivery range [1,25]", hour)
	}

	price, priceOK := localeparser.ParseNumber(priceRaw)
	if !priceOK {
		zeroed = append(zeroed, "cena")
	}

	var volume float64
	if strings.TrimSpace(volumeRaw) != "" {
		v, volumeOK := localeparser.ParseNumber(volumeRaw)
		if !volumeOK {
			zeroed = append(zeroed, "wolumen")
		}
		volume = v
	}

	rec = &db.SpotPrice{
		Key:       SpotPriceKey(date, hour),
		Date:      date,
		Hour:      hour,
		Price:     price,
		Volume:    volume,
		CreatedBy: actor,
	}
	return rec, zeroed, ""
}

// SpotPriceKey builds the canonical document key, e.g. "2024-03-16-07".
// The format is persisted and must stay bit-exact.
func SpotPriceKey(date string, hour int) string {
	return fmt.Sprintf("%s-%02d", date, hour)
}
