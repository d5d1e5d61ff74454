package columns

import (
	"sort"
	"strings"
)

// Row is one parsed export row keyed by raw column header.
type Row map[string]string

// aliases maps logical field names to known long-form vendor headers. The
// exchange renamed export columns across versions without notice (short
// names first, then dataset-prefixed long forms), so the resolver has to
// recognize both generations.
var aliases = map[string][]string{
	"data":           {"rdn_data_dostawy", "data dostawy", "rtt_data"},
	"h_num":          {"rdn_h_num", "godzina"},
	"cena":           {"rdn_cena", "kurs (pln/mwh)"},
	"wolumen":        {"rdn_wolumen", "rtt_wolumen", "wolumen (mwh)"},
	"instrument":     {"rtt_instrument"},
	"dkr":            {"rtt_dkr"},
	"kurs_max":       {"rtt_kurs_max"},
	"kurs_min":       {"rtt_kurs_min"},
	"lk":             {"rtt_lk"},
	"loi":            {"rtt_loi"},
	"lt":             {"rtt_lt"},
	"wartosc_obrotu": {"rtt_wartosc_obrotu"},
}

// Resolve finds the value for a logical field name in a row whose headers
// may use any vendor spelling. Resolution order, first hit wins:
//  1. case-insensitive, whitespace-trimmed exact match
//  2. alias table lookup for known long-form headers
//  3. case-insensitive substring match
//
// The fallback chain keeps a whole import from hard-failing when the
// vendor renames a single column.
func Resolve(row Row, logical string) (string, bool) {
	want := normalizeKey(logical)

	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if normalizeKey(k) == want {
			return row[k], true
		}
	}

	for _, alias := range aliases[logical] {
		a := normalizeKey(alias)
		for _, k := range keys {
			if normalizeKey(k) == a {
				return row[k], true
			}
		}
	}

	for _, k := range keys {
		if strings.Contains(normalizeKey(k), want) {
			return row[k], true
		}
	}

	return "", false
}

// ResolveAny tries a list of logical names in order and returns the first
// resolved value.
func ResolveAny(row Row, logicals ...string) (string, bool) {
	for _, logical := range logicals {
		if value, ok := Resolve(row, logical); ok {
			return value, true
		}
	}
	return "", false
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
