package tabular

import (
	"fmt"
	"strings"
)

// Range is a parsed A1-notation range such as "program!A2:D13" or "input!A:F".
// Columns are 0-based, rows 1-based. EndCol of -1 and EndRow of 0 mean open
type Range struct {
	Sheet    string
	StartCol int
	EndCol   int
	StartRow int
	EndRow   int
}

// ParseRange parses a sheet name with an optional A1 cell span. A bare sheet
// name selects the whole sheet
func ParseRange(spec string) (Range, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Range{}, fmt.Errorf("empty range")
	}

	r := Range{StartCol: 0, EndCol: -1, StartRow: 1, EndRow: 0}

	sheet, cells, hasCells, err := splitSheet(spec)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", spec, err)
	}
	if sheet == "" {
		return Range{}, fmt.Errorf("range %q has no sheet name", spec)
	}
	r.Sheet = sheet
	if !hasCells {
		return r, nil
	}

	from, to, hasTo := strings.Cut(cells, ":")
	col, row, err := parseCell(from)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", spec, err)
	}
	if col >= 0 {
		r.StartCol = col
	}
	if row > 0 {
		r.StartRow = row
	}

	if !hasTo {
		// A single cell selects exactly that cell
		r.EndCol = r.StartCol
		if row > 0 {
			r.EndRow = row
		}
		return r, nil
	}

	col, row, err = parseCell(to)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", spec, err)
	}
	r.EndCol = col
	r.EndRow = row
	if r.EndCol >= 0 && r.EndCol < r.StartCol {
		return Range{}, fmt.Errorf("range %q: end column before start column", spec)
	}
	if r.EndRow > 0 && r.EndRow < r.StartRow {
		return Range{}, fmt.Errorf("range %q: end row before start row", spec)
	}
	return r, nil
}

// Window cuts the column span of r out of each row, keeping row order
func (r Range) Window(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if r.StartCol >= len(row) {
			out = append(out, []string{})
			continue
		}
		end := len(row)
		if r.EndCol >= 0 && r.EndCol+1 < end {
			end = r.EndCol + 1
		}
		out = append(out, append([]string(nil), row[r.StartCol:end]...))
	}
	return out
}

// parseCell splits "AB12" into column index 27 and row 12. A missing part
// comes back as -1 (column) or 0 (row)
func parseCell(s string) (col, row int, err error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return -1, 0, fmt.Errorf("empty cell reference")
	}

	i := 0
	col = 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		col = col*26 + int(s[i]-'A'+1)
		i++
	}
	if i == 0 {
		col = -1
	} else {
		col--
	}

	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return -1, 0, fmt.Errorf("invalid cell reference %q", s)
		}
		row = row*10 + int(s[i]-'0')
	}
	if col < 0 && row == 0 {
		return -1, 0, fmt.Errorf("invalid cell reference %q", s)
	}
	return col, row, nil
}

// splitSheet separates the sheet name from the cell span. A quoted name may
// contain '!'; a doubled quote inside it is a literal quote
func splitSheet(spec string) (sheet, cells string, hasCells bool, err error) {
	if !strings.HasPrefix(spec, "'") {
		sheet, cells, hasCells = strings.Cut(spec, "!")
		return sheet, cells, hasCells, nil
	}

	var b strings.Builder
	for i := 1; i < len(spec); i++ {
		if spec[i] != '\'' {
			b.WriteByte(spec[i])
			continue
		}
		if i+1 < len(spec) && spec[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		rest := spec[i+1:]
		if rest == "" {
			return b.String(), "", false, nil
		}
		if rest[0] != '!' {
			return "", "", false, fmt.Errorf("unexpected %q after quoted sheet name", rest)
		}
		return b.String(), rest[1:], true, nil
	}
	return "", "", false, fmt.Errorf("unterminated quoted sheet name")
}
