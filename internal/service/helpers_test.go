package service

import (
	"strconv"
	"testing"
	"time"

	"github.com/jjenkins/programselect/internal/tabular/tabulartest"
	"go.uber.org/zap/zaptest"
)

func programSheet() [][]string {
	return [][]string{
		{"program", "capacity", "reserved", "available"},
		{"Science", "30", "28", "2"},
		{"Arts", "40", "40", "0"},
		{"Math", "20", "19", "n/a"},
	}
}

func directorySheet() [][]string {
	return [][]string{
		{"no", "studentId", "title", "name", "surname"},
		{"1", "S1001", "Mr.", "Somchai", "Jaidee"},
		{"2", "S1002", "Ms.", "Suda", "Rakthai"},
	}
}

func ledgerSheet() [][]string {
	return [][]string{
		{"timestamp", "studentId", "title", "name", "surname", "program"},
	}
}

func newTestStore() *tabulartest.Memory {
	m := tabulartest.NewMemory()
	m.SetSheet("program", programSheet())
	m.SetSheet("name", directorySheet())
	m.SetSheet("input", ledgerSheet())
	return m
}

// decrementOnAppend makes the program sheet behave like the real one, where
// a formula recomputes available seats from the ledger
func decrementOnAppend(m *tabulartest.Memory, sheet string, row []string) {
	if sheet != "input" || len(row) < 6 {
		return
	}
	for i, p := range m.RowsLocked("program") {
		if len(p) > 3 && p[0] == row[5] {
			n, _ := strconv.Atoi(p[3])
			m.SetCellLocked("program", i, 3, strconv.Itoa(n-1))
		}
	}
}

func newTestWorkflow(t *testing.T, m *tabulartest.Memory, now func() time.Time) *Workflow {
	t.Helper()
	return NewWorkflow(m, Options{
		ProgramsRange:     "program!A2:D13",
		DirectoryRange:    "name",
		LedgerReadRange:   "input!A2:F",
		LedgerAppendRange: "input!A:F",
		ReadAttempts:      3,
		RetryBackoff:      time.Millisecond,
		Now:               now,
	}, zaptest.NewLogger(t))
}
