package export

import (
	"errors"
	"fmt"

	"github.com/piwi3910/SiteTakeoff/internal/model"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetSummary = "Summary"
	SheetBOM     = "BOM"
	SheetTotals  = "Totals"
)

// ExportXLSX writes a calculation result as an Excel workbook with three
// sheets: a summary of the plan and tier, the bill of materials row by row,
// and the material grand totals.
func ExportXLSX(path string, result *model.BomResult) error {
	if result == nil {
		return errors.New("no result to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	for _, name := range []string{SheetBOM, SheetTotals} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add %s sheet: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, result, header); err != nil {
		return err
	}
	if err := writeBOMSheet(f, result, header); err != nil {
		return err
	}
	if err := writeTotalsSheet(f, result, header); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, r *model.BomResult, header int) error {
	rows := [][]any{
		{"Field", "Value", "Unit"},
		{"Calculator", string(r.Calculator), ""},
		{"Shape", string(r.Shape), ""},
		{"Area", r.AreaM2, "m²"},
		{"Perimeter", r.PerimeterM, "m"},
		{"Waste allowance", r.WastePct, "%"},
		{"Tier", r.Tier.Tier.String(), ""},
	}
	for _, s := range r.Stats {
		rows = append(rows, []any{s.Label, s.Value, s.Unit})
	}
	for _, field := range r.Locked {
		rows = append(rows, []any{"Locked by tier", field, ""})
	}
	return writeTable(f, SheetSummary, rows, header, []float64{24, 20, 10})
}

func writeBOMSheet(f *excelize.File, r *model.BomResult, header int) error {
	rows := [][]any{{"Section", "Item", "Quantity", "Unit", "Note"}}
	for _, sec := range r.Sections {
		for _, row := range sec.Rows {
			rows = append(rows, []any{sec.Title, row.Item, row.Quantity, row.Unit, row.Note})
		}
	}
	return writeTable(f, SheetBOM, rows, header, []float64{14, 36, 10, 14, 48})
}

func writeTotalsSheet(f *excelize.File, r *model.BomResult, header int) error {
	rows := [][]any{{"Material", "Quantity", "Unit", "Sections"}}
	for _, t := range r.Totals {
		rows = append(rows, []any{t.Item, t.Quantity, t.Unit, t.Sections})
	}
	return writeTable(f, SheetTotals, rows, header, []float64{36, 10, 14, 10})
}

// writeTable writes rows from A1 down, styles the first row as a header and
// sets the column widths.
func writeTable(f *excelize.File, sheet string, rows [][]any, header int, widths []float64) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("failed to size %s column %s: %w", sheet, col, err)
		}
	}
	return nil
}
