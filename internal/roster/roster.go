// Package roster turns a raw roster sheet into deduplicated RosterEntry rows.
package roster

import (
	"fmt"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/rollbook/internal/models"
	"github.com/shrimpsizemoose/rollbook/internal/textnorm"
)

var RequiredColumns = []string{"class", "timetable", "time", "student_no", "name"}

type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("roster is missing columns: %s", strings.Join(e.Missing, ", "))
}

// Load validates the header and returns one entry per (class, student_no),
// keeping the last occurrence. student_no alone is not unique: numbers are
// reused across classes. Order follows first occurrence of each key.
func Load(t models.Table) ([]models.RosterEntry, error) {
	idx := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, col := range RequiredColumns {
		i := t.Index(col)
		if i < 0 {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	var entries []models.RosterEntry
	pos := make(map[models.Identity]int)
	dropped := 0
	for _, row := range t.Rows {
		e := models.RosterEntry{
			Class:     textnorm.Normalize(models.Cell(row, idx["class"])),
			Timetable: textnorm.Normalize(models.Cell(row, idx["timetable"])),
			Time:      textnorm.Normalize(models.Cell(row, idx["time"])),
			StudentNo: textnorm.Normalize(models.Cell(row, idx["student_no"])),
			Name:      textnorm.Normalize(models.Cell(row, idx["name"])),
		}
		if e.Class == "" || e.StudentNo == "" {
			dropped++
			continue
		}
		if i, ok := pos[e.Identity()]; ok {
			entries[i] = e
			continue
		}
		pos[e.Identity()] = len(entries)
		entries = append(entries, e)
	}

	logger.Debug.Printf("Roster loaded: %d entries, %d rows without class or student_no", len(entries), dropped)
	return entries, nil
}
