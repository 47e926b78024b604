// Package matching resolves which roster identity each form row belongs to.
package matching

import (
	"fmt"
	"strings"

	"github.com/shrimpsizemoose/rollbook/internal/models"
	"github.com/shrimpsizemoose/rollbook/internal/textnorm"
)

type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("form is missing columns: %s", strings.Join(e.Missing, ", "))
}

type Columns struct {
	Timestamp string
	Contact   string
	StudentNo string
}

type Stats struct {
	Total              int
	Scoped             int
	BadTimestamp       int
	UnresolvedIdentity int
}

func (s Stats) OutOfScope() int {
	return s.BadTimestamp + s.UnresolvedIdentity
}

type Matcher struct {
	Policy  Policy
	Columns Columns
	Parser  TimestampParser
}

// Match keeps the rows that have a parseable timestamp and resolve to a
// non-empty (class, student_no). Everything else is counted and dropped.
func (m *Matcher) Match(form models.Table) ([]models.Submission, Stats, error) {
	var stats Stats

	tsIdx := form.Index(m.Columns.Timestamp)
	noIdx := form.Index(m.Columns.StudentNo)
	contactIdx := -1
	var missing []string
	if m.Columns.Timestamp == "" || tsIdx < 0 {
		missing = append(missing, m.Columns.Timestamp)
	}
	if m.Columns.StudentNo == "" || noIdx < 0 {
		missing = append(missing, m.Columns.StudentNo)
	}
	if m.Columns.Contact != "" {
		if contactIdx = form.Index(m.Columns.Contact); contactIdx < 0 {
			missing = append(missing, m.Columns.Contact)
		}
	}
	if len(missing) > 0 {
		return nil, stats, &MissingColumnsError{Missing: missing}
	}

	classOf, err := m.Policy.Bind(form)
	if err != nil {
		return nil, stats, fmt.Errorf("bind %s policy: %w", m.Policy.Name(), err)
	}

	var out []models.Submission
	for i, row := range form.Rows {
		stats.Total++

		ts, ok := m.Parser.Parse(models.Cell(row, tsIdx))
		if !ok {
			stats.BadTimestamp++
			continue
		}

		class := classOf(row, ts)
		studentNo := textnorm.Normalize(models.Cell(row, noIdx))
		if class == "" || studentNo == "" {
			stats.UnresolvedIdentity++
			continue
		}

		out = append(out, models.Submission{
			Row:       i,
			Class:     class,
			StudentNo: studentNo,
			Contact:   strings.ToLower(textnorm.Normalize(models.Cell(row, contactIdx))),
			Timestamp: ts,
		})
		stats.Scoped++
	}

	return out, stats, nil
}
