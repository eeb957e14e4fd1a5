package excel

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/yasserrrr2025/rasd2/internal/parser"
)

// ErrNoSheets workbook contains no worksheet
var ErrNoSheets = errors.New("workbook has no sheets")

// ReadFirstSheet decodes a workbook and returns the raw cell values of its
// first sheet together with the sheet name. Row indices are preserved.
func ReadFirstSheet(r io.Reader) (parser.Matrix, string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, "", ErrNoSheets
	}
	name := sheets[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, name, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}
	return toMatrix(rows), name, nil
}

func toMatrix(rows [][]string) parser.Matrix {
	m := make(parser.Matrix, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		m[i] = cells
	}
	return m
}
