package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		spec string
		want Range
	}{
		{"name", Range{Sheet: "name", StartCol: 0, EndCol: -1, StartRow: 1, EndRow: 0}},
		{"program!A2:D13", Range{Sheet: "program", StartCol: 0, EndCol: 3, StartRow: 2, EndRow: 13}},
		{"input!A2:F", Range{Sheet: "input", StartCol: 0, EndCol: 5, StartRow: 2, EndRow: 0}},
		{"input!A:F", Range{Sheet: "input", StartCol: 0, EndCol: 5, StartRow: 1, EndRow: 0}},
		{"'Seat Plan'!B3", Range{Sheet: "Seat Plan", StartCol: 1, EndCol: 1, StartRow: 3, EndRow: 3}},
		{"'a!b'!A1:B2", Range{Sheet: "a!b", StartCol: 0, EndCol: 1, StartRow: 1, EndRow: 2}},
		{"'it''s'", Range{Sheet: "it's", StartCol: 0, EndCol: -1, StartRow: 1, EndRow: 0}},
		{"wide!AA1:AB", Range{Sheet: "wide", StartCol: 26, EndCol: 27, StartRow: 1, EndRow: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseRange(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRange_Invalid(t *testing.T) {
	for _, spec := range []string{"", "!A1", "sheet!", "sheet!A1:", "sheet!D1:A1", "sheet!A9:A2", "sheet!A-1", "'open!A1", "'a'b!A1"} {
		_, err := ParseRange(spec)
		assert.Error(t, err, spec)
	}
}

func TestRange_Window(t *testing.T) {
	r, err := ParseRange("s!B1:C")
	require.NoError(t, err)

	rows := [][]string{
		{"1", "S1001", "Mr.", "Somchai"},
		{"2"},
		{"3", "S1003"},
	}
	assert.Equal(t, [][]string{
		{"S1001", "Mr."},
		{},
		{"S1003"},
	}, r.Window(rows))
}
