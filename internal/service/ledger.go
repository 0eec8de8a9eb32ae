package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jjenkins/programselect/internal/model"
	"github.com/jjenkins/programselect/internal/tabular"
)

// Millisecond ISO-8601 in UTC, the shape browsers produce with toISOString
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Ledger column order
const (
	colLedgerTimestamp = iota
	colLedgerStudentID
	colLedgerTitle
	colLedgerGivenName
	colLedgerSurname
	colLedgerProgram
)

// LedgerHeader is row 1 of the submission ledger
var LedgerHeader = []string{"timestamp", "studentId", "title", "name", "surname", "program"}

// Ledger is the append-only submission log. It is the only component that
// writes to the store and the only source of submission timestamps
type Ledger struct {
	store       tabular.Store
	reader      *reader
	readRange   string
	appendRange string
	now         func() time.Time
}

func newLedger(store tabular.Store, r *reader, readRange, appendRange string, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{store: store, reader: r, readRange: readRange, appendRange: appendRange, now: now}
}

// List returns every record in insertion order
func (l *Ledger) List(ctx context.Context) ([]model.SubmissionRecord, error) {
	rows, err := l.reader.read(ctx, l.readRange)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return ParseLedger(rows), nil
}

// Append stamps the record with the current UTC time and appends it once.
// A failed append is reported as failed; the row may or may not exist
func (l *Ledger) Append(ctx context.Context, identity model.StudentIdentity, program string) (model.SubmissionRecord, error) {
	rec := model.SubmissionRecord{
		Timestamp: l.now().UTC().Format(timestampLayout),
		StudentID: identity.StudentID,
		Title:     identity.Title,
		GivenName: identity.GivenName,
		Surname:   identity.Surname,
		Program:   program,
	}

	if err := l.store.AppendRow(ctx, l.appendRange, rec.Row()); err != nil {
		return model.SubmissionRecord{}, fmt.Errorf("failed to append submission: %w", err)
	}
	return rec, nil
}

// ParseLedger converts header-less ledger rows. Empty rows are skipped and
// missing trailing cells read as ""
func ParseLedger(rows [][]string) []model.SubmissionRecord {
	records := make([]model.SubmissionRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		records = append(records, model.SubmissionRecord{
			Timestamp: cell(row, colLedgerTimestamp),
			StudentID: cell(row, colLedgerStudentID),
			Title:     cell(row, colLedgerTitle),
			GivenName: cell(row, colLedgerGivenName),
			Surname:   cell(row, colLedgerSurname),
			Program:   cell(row, colLedgerProgram),
		})
	}
	return records
}
