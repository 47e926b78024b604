package models

import "github.com/shrimpsizemoose/rollbook/internal/textnorm"

// Table is an already-parsed sheet: a header row plus string cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of a column, matching headers after
// normalization and ignoring case. -1 if absent.
func (t Table) Index(name string) int {
	want := textnorm.Key(name)
	for i, c := range t.Columns {
		if textnorm.Key(c) == want {
			return i
		}
	}
	return -1
}

// Cell returns row[idx], or "" when the row is short or idx is -1.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
