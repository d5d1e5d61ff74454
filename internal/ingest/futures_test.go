package ingest_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/enerflux/market-import-worker/internal/ingest"
)

func newFuturesImporter() *ingest.FuturesImporter {
	return ingest.NewFuturesImporter(zap.NewNop())
}

const futuresHeader = "RTT_data;RTT_instrument;RTT_kurs_max;RTT_kurs_min;RTT_DKR;RTT_LK;RTT_LOI;RTT_LT;RTT_wartosc_obrotu;RTT_wolumen\n"

func TestFuturesImporter_ParsesTradedContract(t *testing.T) {
	csvText := futuresHeader +
		"16.03.2024;BASE_Y-26;420,50;401,00;412,25;15;1200;8;4 947,00;12\n"

	writer := newFakeWriter()
	result := newFuturesImporter().Run(context.Background(), csvText, writer)

	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if result.Count != 1 {
		t.Fatalf("expected 1 record, got %d", result.Count)
	}

	rec, ok := writer.futures["2024-03-16_BASE_Y-26"]
	if !ok {
		t.Fatal("expected record under key 2024-03-16_BASE_Y-26")
	}
	if rec.SettlementPrice != 412.25 {
		t.Errorf("expected settlement 412.25, got %f", rec.SettlementPrice)
	}
	if rec.MaxPrice != 420.5 || rec.MinPrice != 401 {
		t.Errorf("unexpected price range: %+v", rec)
	}
	if rec.OpenInterest != 1200 {
		t.Errorf("expected open interest 1200, got %f", rec.OpenInterest)
	}
	if rec.TurnoverValue != 4947 {
		t.Errorf("expected turnover 4947, got %f", rec.TurnoverValue)
	}
	if rec.Contract != "BASE_Y-26" {
		t.Errorf("expected verbatim contract label, got %q", rec.Contract)
	}
}

func TestFuturesImporter_ZeroSettlementExcluded(t *testing.T) {
	csvText := futuresHeader +
		"16.03.2024;BASE_Y-26;0;0;0;0;0;0;0;0\n" +
		"16.03.2024;PEAK_Q-25;0;0;;0;0;0;0;0\n" + // blank settlement parses to 0
		"16.03.2024;BASE_M-24;380,00;375,00;377,50;3;90;2;1 132,50;3\n"

	writer := newFakeWriter()
	result := newFuturesImporter().Run(context.Background(), csvText, writer)

	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if result.Count != 1 {
		t.Errorf("expected only the traded contract, got %d records", result.Count)
	}
	if _, ok := writer.futures["2024-03-16_BASE_Y-26"]; ok {
		t.Error("zero-settlement contract must not be stored")
	}
	if _, ok := writer.futures["2024-03-16_BASE_M-24"]; !ok {
		t.Error("expected traded contract to be stored")
	}
}

func TestFuturesImporter_DropsRowsMissingDateOrContract(t *testing.T) {
	csvText := futuresHeader +
		"not-a-date;BASE_Y-26;1;1;412,25;1;1;1;1;1\n" +
		"16.03.2024;  ;1;1;412,25;1;1;1;1;1\n"

	writer := newFakeWriter()
	result := newFuturesImporter().Run(context.Background(), csvText, writer)

	if !result.Success {
		t.Fatalf("drops are silent, run must still succeed: %s", result.Error)
	}
	if result.Count != 0 {
		t.Errorf("expected 0 records, got %d", result.Count)
	}
	if len(writer.futures) != 0 {
		t.Errorf("expected empty store, got %d records", len(writer.futures))
	}
}

func TestFuturesImporter_Idempotent(t *testing.T) {
	csvText := futuresHeader +
		"16.03.2024;BASE_Y-26;420,50;401,00;412,25;15;1200;8;4947,00;12\n"

	writer := newFakeWriter()
	importer := newFuturesImporter()

	first := importer.Run(context.Background(), csvText, writer)
	second := importer.Run(context.Background(), csvText, writer)

	if !first.Success || !second.Success {
		t.Fatal("expected both runs to succeed")
	}
	if first.Count != second.Count {
		t.Errorf("expected identical counts, got %d then %d", first.Count, second.Count)
	}
	if len(writer.futures) != 1 {
		t.Errorf("expected 1 stored record after re-ingest, got %d", len(writer.futures))
	}
}

func TestFuturesImporter_CommaDelimitedExport(t *testing.T) {
	csvText := "RTT_data,RTT_instrument,RTT_kurs_max,RTT_kurs_min,RTT_DKR,RTT_LK,RTT_LOI,RTT_LT,RTT_wartosc_obrotu,RTT_wolumen\n" +
		"2024-03-16,BASE_Y-26,420.50,401.00,412.25,15,1200,8,4947.00,12\n"

	writer := newFakeWriter()
	result := newFuturesImporter().Run(context.Background(), csvText, writer)

	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if _, ok := writer.futures["2024-03-16_BASE_Y-26"]; !ok {
		t.Error("expected record from comma-delimited export")
	}
}

func TestFuturesKey_Format(t *testing.T) {
	if key := ingest.FuturesKey("2024-03-16", "BASE_Y-26"); key != "2024-03-16_BASE_Y-26" {
		t.Errorf("expected 2024-03-16_BASE_Y-26, got %s", key)
	}
}
