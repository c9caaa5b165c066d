package export

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/piwi3910/SiteTakeoff/internal/model"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExportXLSX_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.xlsx")
	result := buildDeckResult(t)

	if err := ExportXLSX(path, result); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f := openWorkbook(t, path)
	sheets := f.GetSheetList()
	want := []string{SheetSummary, SheetBOM, SheetTotals}
	if len(sheets) != len(want) {
		t.Fatalf("expected sheets %v, got %v", want, sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("sheet %d: got %q, want %q", i, sheets[i], want[i])
		}
	}
}

func TestExportXLSX_BOMRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.xlsx")
	result := buildDeckResult(t)

	if err := ExportXLSX(path, result); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	rows, err := openWorkbook(t, path).GetRows(SheetBOM)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != result.RowCount()+1 {
		t.Fatalf("expected %d rows including the header, got %d", result.RowCount()+1, len(rows))
	}
	if rows[0][0] != "Section" || rows[0][2] != "Quantity" {
		t.Errorf("unexpected header %v", rows[0])
	}

	first := result.Sections[0].Rows[0]
	if rows[1][0] != result.Sections[0].Title || rows[1][1] != first.Item {
		t.Errorf("unexpected first row %v", rows[1])
	}
	qty, err := strconv.ParseFloat(rows[1][2], 64)
	if err != nil || qty != first.Quantity {
		t.Errorf("expected quantity %v, got %q", first.Quantity, rows[1][2])
	}
}

func TestExportXLSX_TotalsAndSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wall.xlsx")
	result := buildWallResult(t)

	if err := ExportXLSX(path, result); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}
	f := openWorkbook(t, path)

	totals, err := f.GetRows(SheetTotals)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(totals) != len(result.Totals)+1 {
		t.Errorf("expected %d total rows, got %d", len(result.Totals)+1, len(totals))
	}

	summary, err := f.GetRows(SheetSummary)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	found := map[string]string{}
	locked := 0
	for _, row := range summary {
		if len(row) < 2 {
			continue
		}
		if row[0] == "Locked by tier" {
			locked++
		}
		found[row[0]] = row[1]
	}
	if found["Calculator"] != string(model.CalculatorWall) {
		t.Errorf("expected calculator wall, got %q", found["Calculator"])
	}
	if found["Tier"] != "DIY Budget" {
		t.Errorf("expected tier 'DIY Budget', got %q", found["Tier"])
	}
	if locked != len(result.Locked) {
		t.Errorf("expected %d locked rows, got %d", len(result.Locked), locked)
	}
}

func TestExportXLSX_NilResult(t *testing.T) {
	if err := ExportXLSX(filepath.Join(t.TempDir(), "nil.xlsx"), nil); err == nil {
		t.Error("expected error for nil result")
	}
}
