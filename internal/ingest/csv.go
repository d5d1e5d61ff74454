package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/enerflux/market-import-worker/internal/columns"
)

// candidateDelimiters in preference order; exports have arrived semicolon-,
// comma- and tab-separated depending on vendor version.
var candidateDelimiters = []rune{';', ',', '\t'}

// DetectDelimiter picks the delimiter of a vendor export by counting
// candidates in the header line. Semicolon wins ties, matching the most
// common export flavor.
func DetectDelimiter(csvText string) rune {
	header := csvText
	if i := strings.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}

	best := candidateDelimiters[0]
	bestCount := 0
	for _, d := range candidateDelimiters {
		if n := strings.Count(header, string(d)); n > bestCount {
			best = d
			bestCount = n
		}
	}
	return best
}

// ParseCSV parses raw export text into header-keyed rows. The first line
// is the header; a UTF-8 BOM on it is stripped. Short records are allowed,
// missing trailing cells simply resolve to nothing.
func ParseCSV(csvText string) ([]columns.Row, error) {
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.Comma = DetectDelimiter(csvText)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("csv has no header row")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := make([]columns.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(columns.Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[strings.TrimSpace(name)] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
