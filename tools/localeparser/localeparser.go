package localeparser

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// exportDateFormats are tried in order; the exchange has shipped all of
// these spellings across export versions.
var exportDateFormats = []string{
	"2.01.2006",  // D.MM.YYYY
	"1/2/2006",   // M/D/YYYY
	"02.01.2006", // DD.MM.YYYY
	"2006-01-02", // ISO
}

// ParseNumber parses a vendor-formatted decimal. Values arrive either as
// plain dot decimals ("279.1") or in Polish locale with a comma decimal
// separator and whitespace thousands separators ("2 500,50", often with
// non-breaking spaces). Unparseable input yields 0 and ok=false; callers
// decide whether the zero fallback is acceptable.
func ParseNumber(raw string) (float64, bool) {
	s := raw
	if strings.Contains(s, ",") {
		s = stripSpaces(s)
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.TrimSpace(s)
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// NormalizeDate canonicalizes a vendor date string to YYYY-MM-DD. A
// trailing time-of-day component ("2024-03-16 00:00:00") is discarded.
// Returns ok=false when no known format parses to a valid calendar date.
func NormalizeDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "", false
	}

	for _, layout := range exportDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}

	return "", false
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
