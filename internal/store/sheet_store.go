package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jjenkins/programselect/internal/tabular"
	"github.com/lib/pq"
)

// SheetStore keeps sheets as ordered rows of text cells in PostgreSQL and
// serves them with the same range semantics as the Sheets API
type SheetStore struct {
	db      *sql.DB
	timeout time.Duration
}

// NewSheetStore creates a new SheetStore. Each call is bounded by timeout
func NewSheetStore(db *sql.DB, timeout time.Duration) *SheetStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SheetStore{db: db, timeout: timeout}
}

// ReadRange returns the rows of rangeSpec. Row numbers count the rows of the
// sheet in insertion order, starting at 1
func (s *SheetStore) ReadRange(ctx context.Context, rangeSpec string) ([][]string, error) {
	r, err := tabular.ParseRange(rangeSpec)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", rangeSpec, tabular.ErrRangeNotFound, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.requireSheet(ctx, r.Sheet); err != nil {
		return nil, fmt.Errorf("read %s: %w", rangeSpec, err)
	}

	query := `
		SELECT cells
		FROM (
			SELECT cells, ROW_NUMBER() OVER (ORDER BY id) AS row_num
			FROM sheet_rows
			WHERE sheet = $1
		) numbered
		WHERE row_num >= $2 AND ($3 = 0 OR row_num <= $3)
		ORDER BY row_num
	`

	rows, err := s.db.QueryContext(ctx, query, r.Sheet, r.StartRow, r.EndRow)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rangeSpec, classify(err, false))
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cells []string
		if err := rows.Scan(pq.Array(&cells)); err != nil {
			return nil, fmt.Errorf("read %s: %w", rangeSpec, classify(err, false))
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", rangeSpec, classify(err, false))
	}

	return r.Window(out), nil
}

// AppendRow inserts a new row. BIGSERIAL ids order concurrent appends, so an
// append never lands on an existing row
func (s *SheetStore) AppendRow(ctx context.Context, rangeSpec string, values []string) error {
	r, err := tabular.ParseRange(rangeSpec)
	if err != nil {
		return fmt.Errorf("append %s: %w: %w", rangeSpec, tabular.ErrRangeNotFound, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.requireSheet(ctx, r.Sheet); err != nil {
		return fmt.Errorf("append %s: %w", rangeSpec, err)
	}

	cells := make([]string, r.StartCol, r.StartCol+len(values))
	cells = append(cells, values...)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sheet_rows (sheet, cells) VALUES ($1, $2)`,
		r.Sheet, pq.Array(cells),
	)
	if err != nil {
		return fmt.Errorf("append %s: %w", rangeSpec, classify(err, true))
	}
	return nil
}

// ReplaceRows swaps every row of sheet for rows in one transaction. Rows
// are stored as given, so rows[0] is the header
func (s *SheetStore) ReplaceRows(ctx context.Context, sheet string, rows [][]string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.requireSheet(ctx, sheet); err != nil {
		return fmt.Errorf("replace %s: %w", sheet, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace %s: %w", sheet, classify(err, true))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE sheet = $1`, sheet); err != nil {
		return fmt.Errorf("replace %s: %w", sheet, classify(err, true))
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sheet_rows (sheet, cells) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("replace %s: %w", sheet, classify(err, true))
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, sheet, pq.Array(row)); err != nil {
			return fmt.Errorf("replace %s row %d: %w", sheet, i+1, classify(err, true))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace %s: %w", sheet, classify(err, true))
	}
	return nil
}

func (s *SheetStore) requireSheet(ctx context.Context, sheet string) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM sheets WHERE name = $1)`, sheet,
	).Scan(&exists)
	if err != nil {
		return classify(err, false)
	}
	if !exists {
		return fmt.Errorf("%w: sheet %q", tabular.ErrRangeNotFound, sheet)
	}
	return nil
}

// classify maps driver errors onto the store taxonomy. Constraint and data
// errors on a write become rejected; anything else is treated as the store
// being unreachable
func classify(err error, write bool) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "22", "23", "53", "54":
			if write {
				return fmt.Errorf("%w: %w", tabular.ErrUpstreamRejected, err)
			}
		case "42":
			return fmt.Errorf("%w: %w", tabular.ErrRangeNotFound, err)
		}
	}
	return fmt.Errorf("%w: %w", tabular.ErrUpstreamUnavailable, err)
}

var _ tabular.Store = (*SheetStore)(nil)
