// Package tabular is the boundary to the remote spreadsheet-like store that
// holds programs, the student directory and the submission ledger
package tabular

import "context"

// Store reads rectangular ranges and appends rows. Implementations do not
// retry; retry policy belongs to the caller
type Store interface {
	// ReadRange returns the rows of rangeSpec in row order. Trailing empty
	// cells and rows may be omitted by the store
	ReadRange(ctx context.Context, rangeSpec string) ([][]string, error)
	// AppendRow writes values as a new row after the last row of rangeSpec.
	// It must never overwrite an existing row
	AppendRow(ctx context.Context, rangeSpec string, values []string) error
}
