package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/primebrains/sqltools/internal/export"
	"github.com/primebrains/sqltools/internal/state"
	"github.com/primebrains/sqltools/internal/testutil"
	"github.com/primebrains/sqltools/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

type mockAdapter struct {
	adapter.BaseSQLAdapter
}

func (m *mockAdapter) Connect(context.Context, adapter.Config) error { return nil }
func (m *mockAdapter) Name() string                                   { return "mock" }

type fakeRecorder struct {
	mu    sync.Mutex
	execs []state.Execution
	err   error
}

func (f *fakeRecorder) RecordExecution(_ context.Context, e state.Execution) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, e)
	return f.err
}

func newTestRunner(t *testing.T) (*Runner, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	base := adapter.NewBase(nil)
	base.DB = db

	exp, err := export.New(export.FormatCSV, nil)
	require.NoError(t, err)

	return &Runner{
		Adapter:   &mockAdapter{BaseSQLAdapter: base},
		Exporter:  exp,
		Format:    export.FormatCSV,
		OutputDir: t.TempDir(),
		Clock:     func() time.Time { return fixedTime },
		Logger:    testutil.NewTestLogger(t),
	}, mock
}

func writeSQL(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunner_ProcessFile(t *testing.T) {
	r, mock := newTestRunner(t)
	rec := &fakeRecorder{}
	r.Store = rec
	r.RunID = "run-1"

	path := writeSQL(t, "report.sql", `-- users report
SELECT id, name FROM users;
DELETE FROM audit WHERE note = 'a;b';
SELECT count(*) AS n FROM users
`)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "alice").AddRow(2, nil))
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM audit WHERE note = 'a;b'")).
		WillReturnRows(sqlmock.NewRows(nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) AS n FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))

	report, err := r.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 3, report.Statements)
	require.Len(t, report.Warnings, 1, "missing final semicolon")
	assert.Equal(t, 4, report.Warnings[0].Line)

	want := []string{
		filepath.Join(r.OutputDir, "report_20240309_140507_1.csv"),
		filepath.Join(r.OutputDir, "report_20240309_140507_3.csv"),
	}
	assert.Equal(t, want, report.Outputs)

	data, err := os.ReadFile(want[0])
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,alice\n2,\n", string(data))

	require.Len(t, rec.execs, 3)
	assert.Equal(t, 1, rec.execs[0].StatementIndex)
	assert.Equal(t, 2, rec.execs[0].RowCount)
	assert.Equal(t, want[0], rec.execs[0].OutputPath)
	assert.Empty(t, rec.execs[1].OutputPath)
	assert.Equal(t, "DELETE FROM audit WHERE note = 'a;b';", rec.execs[1].Statement)
	for _, e := range rec.execs {
		assert.Equal(t, "run-1", e.RunID)
		assert.Equal(t, state.ExecutionStatusSuccess, e.Status)
	}
}

func TestRunner_ProcessFile_StopsAtFirstError(t *testing.T) {
	r, mock := newTestRunner(t)
	rec := &fakeRecorder{}
	r.Store = rec
	r.RunID = "run-1"

	path := writeSQL(t, "broken.sql", "SELECT 1 AS a;\nSELECT * FROM missing;\nSELECT 3 AS c;\n")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 AS a")).
		WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM missing")).
		WillReturnError(errors.New("relation does not exist"))

	report, err := r.ProcessFile(context.Background(), path)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	var stmtErr *StatementError
	require.ErrorAs(t, err, &stmtErr)
	assert.Equal(t, 2, stmtErr.Index)
	assert.Equal(t, path, stmtErr.File)
	assert.Contains(t, err.Error(), "statement 2")
	assert.Contains(t, err.Error(), "relation does not exist")

	require.NotNil(t, report)
	assert.Len(t, report.Outputs, 1)

	require.Len(t, rec.execs, 2)
	assert.Equal(t, state.ExecutionStatusFailed, rec.execs[1].Status)
	assert.Contains(t, rec.execs[1].Error, "relation does not exist")
}

func TestRunner_ProcessFile_SkipsEmptyStatements(t *testing.T) {
	r, mock := newTestRunner(t)
	path := writeSQL(t, "empty.sql", ";\nSELECT 1 AS a;;\n")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 AS a")).
		WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow(1))

	report, err := r.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 3, report.Statements)
	assert.Len(t, report.Outputs, 1)
}

func TestRunner_ProcessFile_RecorderFailureIsNotFatal(t *testing.T) {
	r, mock := newTestRunner(t)
	r.Store = &fakeRecorder{err: errors.New("disk full")}
	r.RunID = "run-1"
	path := writeSQL(t, "a.sql", "SELECT 1 AS a;")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 AS a")).
		WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow(1))

	_, err := r.ProcessFile(context.Background(), path)
	assert.NoError(t, err)
}

func TestRunner_ProcessFile_MissingFile(t *testing.T) {
	r, _ := newTestRunner(t)

	report, err := r.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "nope.sql"))
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "failed to open SQL file")
}

func TestRunner_ProcessFile_ExportFailure(t *testing.T) {
	r, mock := newTestRunner(t)
	r.OutputDir = filepath.Join(t.TempDir(), "does-not-exist")
	path := writeSQL(t, "a.sql", "SELECT 1 AS a;")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 AS a")).
		WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow(1))

	_, err := r.ProcessFile(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestRunner_ProcessFile_Cancelled(t *testing.T) {
	r, _ := newTestRunner(t)
	path := writeSQL(t, "a.sql", "SELECT 1 AS a;")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ProcessFile(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_EnsureOutputDir(t *testing.T) {
	r, _ := newTestRunner(t)
	r.OutputDir = filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, r.EnsureOutputDir())
	info, err := os.Stat(r.OutputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRunner_ProcessFiles(t *testing.T) {
	r, mock := newTestRunner(t)
	mock.MatchExpectationsInOrder(false)
	r.Jobs = 2

	paths := []string{
		writeSQL(t, "one.sql", "SELECT 1 AS one;"),
		writeSQL(t, "two.sql", "SELECT 2 AS two;"),
		writeSQL(t, "three.sql", "SELECT 3 AS three;"),
	}
	for _, col := range []string{"one", "two", "three"} {
		mock.ExpectQuery(regexp.QuoteMeta("AS " + col)).
			WillReturnRows(sqlmock.NewRows([]string{col}).AddRow(1))
	}

	reports, err := r.ProcessFiles(context.Background(), paths)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, reports, 3)
	for i, rep := range reports {
		require.NotNil(t, rep)
		assert.Equal(t, paths[i], rep.Path, "reports keep input order")
		assert.Len(t, rep.Outputs, 1)
	}

	entries, err := os.ReadDir(r.OutputDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"one_20240309_140507_1.csv",
		"three_20240309_140507_1.csv",
		"two_20240309_140507_1.csv",
	}, names)
}

func TestRunner_ProcessFiles_ReturnsFirstError(t *testing.T) {
	r, mock := newTestRunner(t)
	r.Jobs = 1

	paths := []string{
		writeSQL(t, "bad.sql", "SELECT boom;"),
		writeSQL(t, "good.sql", "SELECT 1 AS a;"),
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT boom")).WillReturnError(errors.New("syntax error"))

	reports, err := r.ProcessFiles(context.Background(), paths)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	require.Len(t, reports, 2)
	assert.NotNil(t, reports[0])
	assert.Nil(t, reports[1], "later files are not started after a failure")
}
