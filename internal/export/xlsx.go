package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	minColumnWidth = 10
	maxColumnWidth = 45
)

// FileExporter writes all sheets into one .xlsx workbook.
type FileExporter struct {
	Path string
}

func (e *FileExporter) Export(_ context.Context, sheets []Sheet) error {
	out, err := os.Create(e.Path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", e.Path, err)
	}
	if err := WriteWorkbook(out, sheets); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// WriteWorkbook renders sheets with a frozen header row and column widths
// fitted to the longest value, clamped to [10, 45].
func WriteWorkbook(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sheet.Name, err)
		}

		if err := writeSheet(f, sheet); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", sheet.Name, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	header := make([]any, len(sheet.Header))
	for i, h := range sheet.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return err
	}

	for r, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	for c := range sheet.Header {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, col, col, ColumnWidth(sheet.Rows, c)); err != nil {
			return err
		}
	}
	return nil
}

// ColumnWidth sizes a column from its longest rendered value. Header text is
// not counted; an empty column gets the minimum width.
func ColumnWidth(rows [][]any, col int) float64 {
	longest := -1
	for _, row := range rows {
		if col < len(row) {
			longest = max(longest, utf8.RuneCountInString(fmt.Sprint(row[col])))
		}
	}
	if longest < 0 {
		return minColumnWidth
	}
	return float64(max(minColumnWidth, min(maxColumnWidth, longest+2)))
}
