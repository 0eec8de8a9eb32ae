// Package tabulartest provides an in-memory tabular.Store for tests
package tabulartest

import (
	"context"
	"fmt"
	"sync"

	"github.com/jjenkins/programselect/internal/tabular"
)

// Memory keeps whole sheets as rows of cells. It applies the same range
// semantics as the real backends
type Memory struct {
	mu     sync.Mutex
	sheets map[string][][]string

	// ReadErr and AppendErr, when set, are returned instead of touching data
	ReadErr   error
	AppendErr error
	// OnAppend runs after a successful append while the lock is held, so it
	// can emulate formulas the real sheet recomputes
	OnAppend func(m *Memory, sheet string, row []string)

	Reads   int
	Appends int
}

// NewMemory returns an empty store
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string][][]string)}
}

// SetSheet replaces the full contents of sheet, header rows included
func (m *Memory) SetSheet(sheet string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[sheet] = clone(rows)
}

// Sheet returns a copy of sheet
func (m *Memory) Sheet(sheet string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.sheets[sheet])
}

// SetCell overwrites a single cell; row and col are 0-based. Callers holding
// the lock through OnAppend should use SetCellLocked
func (m *Memory) SetCell(sheet string, row, col int, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCellLocked(sheet, row, col, value)
}

// SetCellLocked is SetCell for use inside OnAppend
func (m *Memory) SetCellLocked(sheet string, row, col int, value string) {
	rows := m.sheets[sheet]
	for len(rows) <= row {
		rows = append(rows, []string{})
	}
	for len(rows[row]) <= col {
		rows[row] = append(rows[row], "")
	}
	rows[row][col] = value
	m.sheets[sheet] = rows
}

// RowsLocked returns a copy of sheet for use inside OnAppend
func (m *Memory) RowsLocked(sheet string) [][]string {
	return clone(m.sheets[sheet])
}

// ReadRange implements tabular.Store
func (m *Memory) ReadRange(ctx context.Context, rangeSpec string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++

	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", tabular.ErrUpstreamUnavailable, err)
	}

	r, err := tabular.ParseRange(rangeSpec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tabular.ErrRangeNotFound, err)
	}
	rows, ok := m.sheets[r.Sheet]
	if !ok {
		return nil, fmt.Errorf("%w: sheet %q", tabular.ErrRangeNotFound, r.Sheet)
	}

	start := r.StartRow - 1
	if start > len(rows) {
		start = len(rows)
	}
	end := len(rows)
	if r.EndRow > 0 && r.EndRow < end {
		end = r.EndRow
	}
	return r.Window(clone(rows[start:end])), nil
}

// AppendRow implements tabular.Store
func (m *Memory) AppendRow(ctx context.Context, rangeSpec string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AppendErr != nil {
		return m.AppendErr
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", tabular.ErrUpstreamUnavailable, err)
	}

	r, err := tabular.ParseRange(rangeSpec)
	if err != nil {
		return fmt.Errorf("%w: %w", tabular.ErrRangeNotFound, err)
	}
	rows, ok := m.sheets[r.Sheet]
	if !ok {
		return fmt.Errorf("%w: sheet %q", tabular.ErrRangeNotFound, r.Sheet)
	}

	row := make([]string, r.StartCol, r.StartCol+len(values))
	row = append(row, values...)
	m.sheets[r.Sheet] = append(rows, row)
	m.Appends++

	if m.OnAppend != nil {
		m.OnAppend(m, r.Sheet, append([]string(nil), values...))
	}
	return nil
}

func clone(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

var _ tabular.Store = (*Memory)(nil)
