package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/rollbook/internal/export"
	"github.com/shrimpsizemoose/rollbook/internal/models"
	"github.com/shrimpsizemoose/rollbook/internal/notify"
	"github.com/shrimpsizemoose/rollbook/internal/roster"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) ApplyMigrations(dir string) error {
	return nil
}

func (m *MockStore) ListAssessments() ([]models.Assessment, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Assessment), args.Error(1)
}

func (m *MockStore) UpsertAssessment(a models.Assessment) error {
	return m.Called(a).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, notices []notify.Notice) error {
	return m.Called(ctx, notices).Error(0)
}

func (m *MockPublisher) Close() error {
	return nil
}

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, sheets []export.Sheet) error {
	return m.Called(ctx, sheets).Error(0)
}

func testConfig(t *testing.T, policy string) *Config {
	t.Helper()
	src := minimalConfig
	if policy == "explicit" {
		src = replaceOnce(t, src, `timestamp_column = "Timestamp"`,
			"timestamp_column = \"Timestamp\"\npolicy = \"explicit\"\nclass_column = \"Class\"")
	}
	cfg, err := ParseConfig([]byte(src))
	require.NoError(t, err)
	return cfg
}

func rosterTable() models.Table {
	return models.Table{
		Columns: []string{"class", "timetable", "time", "student_no", "name"},
		Rows: [][]string{
			{"A", "木1", "9:10-10:50", "1", "X"},
			{"A", "木1", "9:10-10:50", "2", "Y"},
			{"B", "金2", "11:00-12:40", "1", "Z"},
		},
	}
}

func formTable(rows ...[]string) models.Table {
	return models.Table{
		Columns: []string{"Timestamp", "Class", "No", "Email"},
		Rows:    rows,
	}
}

func findRecord(t *testing.T, report *Report, class, no string) models.GradeRecord {
	t.Helper()
	for _, r := range report.Result.GradeBook {
		if r.Class == class && r.StudentNo == no {
			return r
		}
	}
	t.Fatalf("no grade record for %s/%s", class, no)
	return models.GradeRecord{}
}

func TestReconcile_LatestContactAndDistinctDays(t *testing.T) {
	s := &Service{Config: testConfig(t, "explicit")}

	report, err := s.Reconcile(rosterTable(), formTable(
		[]string{"2024/04/11 09:30:00", "A", "1", "old@x"},
		[]string{"2024/04/12 10:00:00", "A", "1", "new@x"},
	))
	require.NoError(t, err)

	rec := findRecord(t, report, "A", "1")
	assert.Equal(t, "new@x", rec.Email)
	assert.Equal(t, 2, rec.FormSubmitCount)
	assert.Equal(t, 1.3, rec.FormPoints)

	assert.Len(t, report.Result.Roster, 3)
	assert.Len(t, report.Result.GradeBook, 3)
	assert.Equal(t, 2, report.Stats.Scoped)
}

func TestReconcile_SameDayCountsOnce(t *testing.T) {
	s := &Service{Config: testConfig(t, "explicit")}

	report, err := s.Reconcile(rosterTable(), formTable(
		[]string{"2024/04/11 09:30:00", "A", "1", "a@x"},
		[]string{"2024/04/11 15:45:00", "A", "1", "a@x"},
		[]string{"2024/04/11 23:59:59", "A", "1", "a@x"},
	))
	require.NoError(t, err)

	assert.Equal(t, 1, findRecord(t, report, "A", "1").FormSubmitCount)
}

func TestReconcile_InferredTimeSlot(t *testing.T) {
	s := &Service{Config: testConfig(t, "inferred")}

	// 2024-04-11 is a Thursday; class A meets Thursday 9:10-10:50.
	report, err := s.Reconcile(rosterTable(), formTable(
		[]string{"2024/04/11 09:30:00", "", "1", "a@x"},
		[]string{"2024/04/11 11:00:00", "", "2", "b@x"},
		[]string{"2024/04/12 11:30:00", "", "1", "z@x"},
		[]string{"garbage", "", "1", "z@x"},
	))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Stats.Scoped)
	assert.Equal(t, 1, report.Stats.UnresolvedIdentity)
	assert.Equal(t, 1, report.Stats.BadTimestamp)

	assert.Equal(t, "a@x", findRecord(t, report, "A", "1").Email)
	assert.Equal(t, 1, findRecord(t, report, "A", "1").FormSubmitCount)
	assert.Equal(t, 0, findRecord(t, report, "A", "2").FormSubmitCount)
	assert.Equal(t, "z@x", findRecord(t, report, "B", "1").Email)
	assert.Len(t, report.Slots, 2)
	assert.Empty(t, report.Overlaps)
}

func TestReconcile_MissingRosterColumns(t *testing.T) {
	s := &Service{Config: testConfig(t, "inferred")}

	_, err := s.Reconcile(models.Table{Columns: []string{"class", "name"}}, formTable())
	var mce *roster.MissingColumnsError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"timetable", "time", "student_no"}, mce.Missing)
}

func TestReconcile_UsesStoredAssessments(t *testing.T) {
	absent := 9
	st := new(MockStore)
	st.On("ListAssessments").Return([]models.Assessment{
		{Class: "A", StudentNo: "2", AbsentFull: &absent},
	}, nil).Once()

	s := &Service{Config: testConfig(t, "inferred"), Store: st}
	report, err := s.Reconcile(rosterTable(), formTable())
	require.NoError(t, err)

	rec := findRecord(t, report, "A", "2")
	assert.InDelta(t, 0.4, rec.AttendanceRate, 1e-9)
	assert.Equal(t, "insufficient attendance", rec.AttendanceGate)
	assert.Equal(t, "fail (insufficient attendance)", rec.FinalJudgement)

	other := findRecord(t, report, "A", "1")
	assert.Equal(t, "OK", other.AttendanceGate)
	st.AssertExpectations(t)
}

func TestReconcile_StoreFailure(t *testing.T) {
	st := new(MockStore)
	st.On("ListAssessments").Return(nil, errors.New("db down")).Once()

	s := &Service{Config: testConfig(t, "inferred"), Store: st}
	_, err := s.Reconcile(rosterTable(), formTable())
	assert.ErrorContains(t, err, "db down")
}

func TestDeliver(t *testing.T) {
	exp := new(MockExporter)
	pub := new(MockPublisher)
	s := &Service{
		Config:    testConfig(t, "explicit"),
		Exporters: []export.Exporter{exp},
		Publisher: pub,
	}

	report, err := s.Reconcile(rosterTable(), formTable(
		[]string{"2024/04/11 09:30:00", "A", "1", "a@x"},
	))
	require.NoError(t, err)

	exp.On("Export", mock.Anything, mock.MatchedBy(func(sheets []export.Sheet) bool {
		return len(sheets) == 2 &&
			sheets[0].Name == export.RosterSheet && len(sheets[0].Rows) == 3 &&
			sheets[1].Name == export.GradeBookSheet && len(sheets[1].Rows) == 3
	})).Return(nil).Once()
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(notices []notify.Notice) bool {
		return len(notices) == 1 && notices[0].Email == "a@x" && notices[0].Line != ""
	})).Return(nil).Once()

	require.NoError(t, s.Deliver(context.Background(), report))
	exp.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestDeliver_ExportFailureStopsNotify(t *testing.T) {
	exp := new(MockExporter)
	pub := new(MockPublisher)
	s := &Service{
		Config:    testConfig(t, "explicit"),
		Exporters: []export.Exporter{exp},
		Publisher: pub,
	}

	exp.On("Export", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	err := s.Deliver(context.Background(), &Report{})
	assert.ErrorContains(t, err, "disk full")
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestBuild_WithoutOptionalCollaborators(t *testing.T) {
	s, err := Build(context.Background(), testConfig(t, "inferred"))
	require.NoError(t, err)
	defer s.Close()

	assert.Nil(t, s.Store)
	assert.Nil(t, s.Publisher)
	require.Len(t, s.Exporters, 1)
	assert.IsType(t, &export.FileExporter{}, s.Exporters[0])
}

func TestBuild_WithSQLiteStore(t *testing.T) {
	cfg := testConfig(t, "inferred")
	cfg.Assessments.DSN = ":memory:"
	cfg.Assessments.MigrationsDir = "../../migrations"

	s, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	require.NotNil(t, s.Store)
	got, err := s.Store.ListAssessments()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestImportAssessments(t *testing.T) {
	st := new(MockStore)
	st.On("UpsertAssessment", mock.MatchedBy(func(a models.Assessment) bool {
		return a.Class == "A" && a.StudentNo == "1" && a.AbsentFull != nil && *a.AbsentFull == 3
	})).Return(nil).Once()

	s := &Service{Config: testConfig(t, "inferred"), Store: st}
	n, err := s.ImportAssessments(models.Table{
		Columns: []string{"class", "student_no", "absent_full"},
		Rows:    [][]string{{"A", "1", "3"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	st.AssertExpectations(t)
}

func TestImportAssessments_NoStore(t *testing.T) {
	s := &Service{Config: testConfig(t, "inferred")}
	_, err := s.ImportAssessments(models.Table{})
	assert.ErrorContains(t, err, "no assessment store")
}
