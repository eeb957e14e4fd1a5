package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/yasserrrr2025/rasd2/internal/service/report"
)

// SummarySheet name of the exported sheet
const SummarySheet = "Summary"

var exportHeaders = []string{
	"Grade", "Section", "Period", "Subject",
	"Recorded", "Not recorded", "Completion %", "Teachers",
}

// ExportSummary writes the flattened summary into a single-sheet workbook
func ExportSummary(rows []report.ExportRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err == nil {
		_ = f.SetRowStyle(SummarySheet, 1, 1, headerStyle)
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{
			r.Grade, r.Section, string(r.Period), r.Subject,
			r.Completed, r.Pending, r.Percentage, r.Teachers,
		}
		if err := f.SetSheetRow(SummarySheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(SummarySheet, "A", "D", 18)
	_ = f.SetColWidth(SummarySheet, "E", "G", 14)
	_ = f.SetColWidth(SummarySheet, "H", "H", 36)
	return f, nil
}
