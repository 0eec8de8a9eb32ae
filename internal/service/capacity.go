package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jjenkins/programselect/internal/model"
	"go.uber.org/zap"
)

// Program table columns
const (
	colProgramName = iota
	colProgramCapacity
	colProgramReserved
	colProgramAvailable
)

// ProgramHeader is row 1 of the program table
var ProgramHeader = []string{"program", "capacity", "reserved", "available"}

// CapacityView reads the program table fresh on every call
type CapacityView struct {
	reader    *reader
	rangeSpec string
	logger    *zap.Logger
}

func newCapacityView(r *reader, rangeSpec string, logger *zap.Logger) *CapacityView {
	return &CapacityView{reader: r, rangeSpec: rangeSpec, logger: logger}
}

// Programs returns every program in row order
func (v *CapacityView) Programs(ctx context.Context) ([]model.Program, error) {
	rows, err := v.reader.read(ctx, v.rangeSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to read programs: %w", err)
	}

	programs, malformed := ParsePrograms(rows)
	for _, p := range malformed {
		dataQualityIssues.WithLabelValues("program").Inc()
		v.logger.Warn("non-numeric available seats, treating as 0",
			zap.String("program", p.Name),
			zap.String("available", p.Available),
		)
	}
	return programs, nil
}

// Lookup re-reads the table and returns the named program
func (v *CapacityView) Lookup(ctx context.Context, name string) (model.Program, error) {
	programs, err := v.Programs(ctx)
	if err != nil {
		return model.Program{}, err
	}

	name = strings.TrimSpace(name)
	for _, p := range programs {
		if strings.TrimSpace(p.Name) == name {
			return p, nil
		}
	}
	return model.Program{}, fmt.Errorf("%w: %q", ErrUnknownProgram, name)
}

// ParsePrograms turns raw rows into programs. Rows without a name are
// skipped. Programs whose available cell is not an integer are returned in
// malformed as well as in programs
func ParsePrograms(rows [][]string) (programs []model.Program, malformed []model.Program) {
	programs = make([]model.Program, 0, len(rows))
	for _, row := range rows {
		name := cell(row, colProgramName)
		if strings.TrimSpace(name) == "" {
			continue
		}

		p := model.Program{
			Name:      name,
			Capacity:  cell(row, colProgramCapacity),
			Reserved:  cell(row, colProgramReserved),
			Available: cell(row, colProgramAvailable),
		}
		if _, ok := p.Seats(); !ok {
			malformed = append(malformed, p)
		}
		programs = append(programs, p)
	}
	return programs, malformed
}

// Offerable keeps the programs with at least one available seat, in order
func Offerable(programs []model.Program) []model.Program {
	out := make([]model.Program, 0, len(programs))
	for _, p := range programs {
		if p.Offerable() {
			out = append(out, p)
		}
	}
	return out
}

// cell returns row[i] or "" when the store omitted trailing cells
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
