package roster

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/rollbook/internal/models"
)

func rosterTable(rows ...[]string) models.Table {
	return models.Table{
		Columns: []string{" Class", "TIMETABLE", "time\n", "student_no", "Name"},
		Rows:    rows,
	}
}

func TestLoad_MissingColumns(t *testing.T) {
	_, err := Load(models.Table{Columns: []string{"class", "name"}})
	require.Error(t, err)

	var mce *MissingColumnsError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"timetable", "time", "student_no"}, mce.Missing)
	assert.Contains(t, err.Error(), "student_no")
}

func TestLoad_NormalizesAndDropsEmptyKeys(t *testing.T) {
	entries, err := Load(rosterTable(
		[]string{" A ", "木1", "9:10-10:50", " 1", "山田\n太郎"},
		[]string{"", "木1", "9:10-10:50", "2", "no class"},
		[]string{"A", "木1", "9:10-10:50", "  ", "no number"},
		[]string{"B", "金2"},
	))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.RosterEntry{
		Class:     "A",
		Timetable: "木1",
		Time:      "9:10-10:50",
		StudentNo: "1",
		Name:      "山田 太郎",
	}, entries[0])
}

func TestLoad_DuplicateKeyKeepsLast(t *testing.T) {
	entries, err := Load(rosterTable(
		[]string{"A", "木1", "9:10-10:50", "1", "first"},
		[]string{"B", "金2", "11:00-12:40", "1", "other class"},
		[]string{"A ", "木1", "9:10-10:50", "1", "second"},
	))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Name)
	assert.Equal(t, "B", entries[1].Class)
	assert.Equal(t, "1", entries[1].StudentNo)
}

func TestLoad_OneRowPerIdentity(t *testing.T) {
	var rows [][]string
	for i := 0; i < 3; i++ {
		rows = append(rows,
			[]string{"A", "木1", "9:10-10:50", "1", "x"},
			[]string{"A", "木1", "9:10-10:50", "2", "y"},
			[]string{"B", "金1", "9:10-10:50", "1", "z"},
		)
	}
	entries, err := Load(rosterTable(rows...))
	require.NoError(t, err)

	seen := map[models.Identity]bool{}
	for _, e := range entries {
		assert.False(t, seen[e.Identity()], "duplicate %v", e.Identity())
		seen[e.Identity()] = true
	}
	assert.Len(t, entries, 3)
}
