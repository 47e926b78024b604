// Package ingest reads roster and form sheets from .xlsx or .csv files into
// models.Table values.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/shrimpsizemoose/rollbook/internal/models"
	"github.com/shrimpsizemoose/rollbook/internal/textnorm"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile picks the reader by extension. sheet is only used for workbooks;
// empty means the first sheet.
func ReadFile(path, sheet string) (models.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ReadCSV(bytes.NewReader(data))
	case ".xlsx", ".xlsm":
		return ReadWorkbook(bytes.NewReader(data), sheet)
	default:
		return models.Table{}, fmt.Errorf("unsupported file type %q, use .xlsx or .csv", ext)
	}
}

func ReadCSV(r io.Reader) (models.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to read csv: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to parse csv: %w", err)
	}
	return toTable(records), nil
}

func ReadWorkbook(r io.Reader, sheet string) (models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return models.Table{}, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to get rows of sheet %q: %w", sheet, err)
	}
	return toTable(rows), nil
}

func toTable(records [][]string) models.Table {
	if len(records) == 0 {
		return models.Table{}
	}
	return models.Table{
		Columns: textnorm.NormalizeHeaders(records[0]),
		Rows:    records[1:],
	}
}
