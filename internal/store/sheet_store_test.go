package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jjenkins/programselect/internal/tabular"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*SheetStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSheetStore(db, time.Second), mock
}

func expectSheet(mock sqlmock.Sqlmock, sheet string, exists bool) {
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(sheet).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestSheetStore_ReadRange(t *testing.T) {
	s, mock := newMockStore(t)

	expectSheet(mock, "program", true)
	mock.ExpectQuery(`SELECT cells`).
		WithArgs("program", 2, 13).
		WillReturnRows(sqlmock.NewRows([]string{"cells"}).
			AddRow(`{Science,30,28,2,extra}`).
			AddRow(`{Arts,40,40,0}`))

	rows, err := s.ReadRange(context.Background(), "program!A2:D13")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Science", "30", "28", "2"},
		{"Arts", "40", "40", "0"},
	}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSheetStore_ReadRange_WholeSheet(t *testing.T) {
	s, mock := newMockStore(t)

	expectSheet(mock, "name", true)
	mock.ExpectQuery(`SELECT cells`).
		WithArgs("name", 1, 0).
		WillReturnRows(sqlmock.NewRows([]string{"cells"}).
			AddRow(`{no,studentId,title,name,surname}`).
			AddRow(`{1,S1001,Mr.,Somchai,Jaidee}`))

	rows, err := s.ReadRange(context.Background(), "name")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "S1001", rows[1][1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSheetStore_ReadRange_UnknownSheet(t *testing.T) {
	s, mock := newMockStore(t)

	expectSheet(mock, "missing", false)

	_, err := s.ReadRange(context.Background(), "missing!A1:B2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tabular.ErrRangeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSheetStore_ReadRange_ConnectionFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("program").
		WillReturnError(errors.New("connection refused"))

	_, err := s.ReadRange(context.Background(), "program!A2:D13")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tabular.ErrUpstreamUnavailable))
}

func TestSheetStore_AppendRow(t *testing.T) {
	s, mock := newMockStore(t)

	expectSheet(mock, "input", true)
	mock.ExpectExec(`INSERT INTO sheet_rows`).
		WithArgs("input", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	err := s.AppendRow(context.Background(), "input!A:F",
		[]string{"2025-01-01T00:00:00.000Z", "S1001", "Mr.", "Somchai", "Jaidee", "Science"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSheetStore_AppendRow_Rejected(t *testing.T) {
	s, mock := newMockStore(t)

	expectSheet(mock, "input", true)
	mock.ExpectExec(`INSERT INTO sheet_rows`).
		WithArgs("input", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23514", Message: "check violation"})

	err := s.AppendRow(context.Background(), "input!A:F", []string{"x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tabular.ErrUpstreamRejected))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSheetStore_AppendRow_BadRange(t *testing.T) {
	s, mock := newMockStore(t)

	err := s.AppendRow(context.Background(), "input!", []string{"x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tabular.ErrRangeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// arrayArg matches a pq array argument holding want
type arrayArg []string

func (a arrayArg) Match(v driver.Value) bool {
	want, err := pq.Array([]string(a)).Value()
	return err == nil && v == want
}

func TestMigrate_SeedsHeaders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sheets := []Sheet{
		{Name: "program", Header: []string{"program", "capacity", "reserved", "available"}},
		{Name: "name", Header: []string{"no", "studentId", "title", "name", "surname"}},
		{Name: "input", Header: []string{"timestamp", "studentId", "title", "name", "surname", "program"}},
	}

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS sheets`).WillReturnResult(sqlmock.NewResult(0, 0))
	for _, sh := range sheets {
		mock.ExpectExec(`INSERT INTO sheets`).
			WithArgs(sh.Name).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO sheet_rows .* WHERE NOT EXISTS`).
			WithArgs(sh.Name, arrayArg(sh.Header)).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}

	require.NoError(t, Migrate(context.Background(), db, sheets...))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_WithoutHeader(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS sheets`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO sheets`).
		WithArgs("scratch").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, Migrate(context.Background(), db, Sheet{Name: "scratch"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_SeedFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS sheets`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO sheets`).
		WithArgs("input").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO sheet_rows`).
		WillReturnError(errors.New("connection reset"))

	err = Migrate(context.Background(), db, Sheet{Name: "input", Header: []string{"timestamp"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed header of sheet input")
}

func TestSheetStore_ReplaceRows(t *testing.T) {
	s, mock := newMockStore(t)

	rows := [][]string{
		{"program", "capacity", "reserved", "available"},
		{"Science", "30", "28", "2"},
	}

	expectSheet(mock, "program", true)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM sheet_rows`).
		WithArgs("program").
		WillReturnResult(sqlmock.NewResult(0, 3))
	prep := mock.ExpectPrepare(`INSERT INTO sheet_rows`)
	for _, row := range rows {
		prep.ExpectExec().
			WithArgs("program", arrayArg(row)).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, s.ReplaceRows(context.Background(), "program", rows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSheetStore_ReplaceRows_RollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	expectSheet(mock, "name", true)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM sheet_rows`).
		WithArgs("name").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(`INSERT INTO sheet_rows`).
		ExpectExec().
		WillReturnError(&pq.Error{Code: "22001", Message: "value too long"})
	mock.ExpectRollback()

	err := s.ReplaceRows(context.Background(), "name", [][]string{{"no", "studentId"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tabular.ErrUpstreamRejected))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSheetStore_ReplaceRows_UnknownSheet(t *testing.T) {
	s, mock := newMockStore(t)

	expectSheet(mock, "missing", false)

	err := s.ReplaceRows(context.Background(), "missing", [][]string{{"a"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tabular.ErrRangeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
