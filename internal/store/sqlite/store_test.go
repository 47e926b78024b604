// internal/store/sqlite/store_test.go
package sqlite

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/rollbook/internal/models"
)

func ptr[T any](v T) *T { return &v }

// setupTestDB creates an in-memory SQLite database with the real migrations applied
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err, "Failed to create store")

	err = s.ApplyMigrations("../../../migrations")
	require.NoError(t, err, "Failed to apply migrations")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

func TestMain(m *testing.M) {
	log.Println("Starting SQLite store tests...")
	code := m.Run()
	log.Println("Finished SQLite store tests")
	os.Exit(code)
}

func TestTranslateToSQLite(t *testing.T) {
	got := translateToSQLite("x DOUBLE PRECISION, c VARCHAR(64), t TIMESTAMP DEFAULT now()")
	assert.Equal(t, "x REAL, c TEXT, t TIMESTAMP DEFAULT CURRENT_TIMESTAMP", got)
}

func TestMigrationsAreRepeatable(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, s.ApplyMigrations("../../../migrations"))
}

func TestAssessmentOperations(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	full := models.Assessment{
		Class:                 "A",
		StudentNo:             "1",
		AbsentFull:            ptr(2),
		ReportStatus:          ptr("完全完成"),
		PaizaDone:             ptr(12.0),
		SiteRequirementsDone:  ptr(5.0),
		SiteRequirementsTotal: ptr(8.0),
		FinalStatus:           ptr("良い"),
		AttitudePenalty:       ptr(1.5),
	}
	partial := models.Assessment{
		Class:      "A",
		StudentNo:  "2",
		AbsentFull: ptr(1),
	}

	t.Run("empty table", func(t *testing.T) {
		got, err := s.ListAssessments()
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("insert", func(t *testing.T) {
		require.NoError(t, s.UpsertAssessment(partial))
		require.NoError(t, s.UpsertAssessment(full))

		got, err := s.ListAssessments()
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, full, got[0])
		assert.Equal(t, "2", got[1].StudentNo)
		assert.Equal(t, 1, *got[1].AbsentFull)
		assert.Nil(t, got[1].ReportStatus)
		assert.Nil(t, got[1].PaizaDone)
	})

	t.Run("upsert replaces existing row", func(t *testing.T) {
		updated := partial
		updated.AbsentFull = ptr(4)
		updated.FinalStatus = ptr("提出")
		require.NoError(t, s.UpsertAssessment(updated))

		got, err := s.ListAssessments()
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 4, *got[1].AbsentFull)
		assert.Equal(t, "提出", *got[1].FinalStatus)
	})
}

func TestApplyMigrations_MissingDir(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	assert.Error(t, s.ApplyMigrations("./does-not-exist"))
}

func TestUpsertAssessment_RequiresIdentity(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	err := s.UpsertAssessment(models.Assessment{Class: "A"})
	assert.ErrorContains(t, err, "invalid assessment")
}

func TestUpsertAssessment_TouchesUpdatedAt(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	a := models.Assessment{Class: "A", StudentNo: "1", AbsentFull: ptr(1)}
	require.NoError(t, s.UpsertAssessment(a))

	_, err := s.DB.Exec(`UPDATE assessments SET updated_at = '2000-01-01 00:00:00'`)
	require.NoError(t, err)

	a.AbsentFull = ptr(2)
	require.NoError(t, s.UpsertAssessment(a))

	var updatedAt time.Time
	err = s.DB.Get(&updatedAt, `SELECT updated_at FROM assessments WHERE class = 'A' AND student_no = '1'`)
	require.NoError(t, err)
	assert.Greater(t, updatedAt.Year(), 2000)
}
