package columns_test

import (
	"testing"

	"github.com/enerflux/market-import-worker/internal/columns"
)

func TestResolve_ExactMatch(t *testing.T) {
	row := columns.Row{"cena": "279.1", "wolumen": "100"}

	value, ok := columns.Resolve(row, "cena")
	if !ok {
		t.Fatal("expected resolution for exact header")
	}
	if value != "279.1" {
		t.Errorf("expected 279.1, got %s", value)
	}
}

func TestResolve_ExactMatchIsCaseAndSpaceInsensitive(t *testing.T) {
	row := columns.Row{"  Cena ": "305,20"}

	value, ok := columns.Resolve(row, "cena")
	if !ok {
		t.Fatal("expected resolution for cased/padded header")
	}
	if value != "305,20" {
		t.Errorf("expected 305,20, got %s", value)
	}
}

func TestResolve_AliasMatch(t *testing.T) {
	row := columns.Row{"Data dostawy": "16.03.2024", "h_num": "7"}

	value, ok := columns.Resolve(row, "data")
	if !ok {
		t.Fatal("expected resolution through alias table")
	}
	if value != "16.03.2024" {
		t.Errorf("expected 16.03.2024, got %s", value)
	}
}

func TestResolve_SubstringFallback(t *testing.T) {
	row := columns.Row{"RDN_cena_fixing": "250.0"}

	value, ok := columns.Resolve(row, "cena")
	if !ok {
		t.Fatal("expected resolution through substring fallback")
	}
	if value != "250.0" {
		t.Errorf("expected 250.0, got %s", value)
	}
}

func TestResolve_ExactWinsOverSubstring(t *testing.T) {
	row := columns.Row{"data": "2024-03-16", "rtt_data": "2024-01-01"}

	value, ok := columns.Resolve(row, "data")
	if !ok {
		t.Fatal("expected resolution")
	}
	if value != "2024-03-16" {
		t.Errorf("exact header should win, got %s", value)
	}
}

func TestResolve_Missing(t *testing.T) {
	row := columns.Row{"wolumen": "100"}

	if _, ok := columns.Resolve(row, "cena"); ok {
		t.Error("expected no resolution for absent field")
	}
}

func TestResolveAny_FallsThroughLogicalNames(t *testing.T) {
	row := columns.Row{"data dostawy": "16.03.2024"}

	value, ok := columns.ResolveAny(row, "doba", "data")
	if !ok {
		t.Fatal("expected resolution via second logical name")
	}
	if value != "16.03.2024" {
		t.Errorf("expected 16.03.2024, got %s", value)
	}
}
