package ingest

import "github.com/enerflux/market-import-worker/internal/columns"

// maxSkippedSamples caps the rejected-row samples kept for operator
// diagnosis. The count is always exact; only the samples are bounded.
const maxSkippedSamples = 5

// SkippedRow is one sampled rejection, enough for an operator to find the
// offending line in the source export.
type SkippedRow struct {
	RowNumber int         `json:"row_number"`
	Reason    string      `json:"reason"`
	Raw       columns.Row `json:"raw"`
}

// Result summarizes one spot-price ingestion run.
type Result struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	// ParseFallbacks counts accepted rows where a numeric field could not
	// be parsed and silently fell back to zero.
	ParseFallbacks int          `json:"parse_fallbacks"`
	SkippedRows    []SkippedRow `json:"skipped_rows,omitempty"`
	Errors         []string     `json:"errors,omitempty"`
}

func (r *Result) recordSkip(rowNumber int, reason string, raw columns.Row) {
	r.Skipped++
	if len(r.SkippedRows) < maxSkippedSamples {
		r.SkippedRows = append(r.SkippedRows, SkippedRow{
			RowNumber: rowNumber,
			Reason:    reason,
			Raw:       raw,
		})
	}
}

// FuturesResult summarizes one futures ingestion run. The futures feed
// reports no per-row diagnostics.
type FuturesResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}
