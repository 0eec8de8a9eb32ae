package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jjenkins/programselect/internal/model"
	"github.com/jjenkins/programselect/internal/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestParsePrograms(t *testing.T) {
	rows := [][]string{
		{"Science", "30", "28", "2"},
		{"Arts", "40", "40", "0"},
		{"Math", "20", "19", "n/a"},
		{"", "", "", ""},
		{"Music", "10"},
	}

	programs, malformed := ParsePrograms(rows)

	require.Len(t, programs, 4)
	assert.Equal(t, model.Program{Name: "Science", Capacity: "30", Reserved: "28", Available: "2"}, programs[0])
	assert.Equal(t, model.Program{Name: "Music", Capacity: "10"}, programs[3])

	require.Len(t, malformed, 2)
	assert.Equal(t, "Math", malformed[0].Name)
	assert.Equal(t, "Music", malformed[1].Name)
}

func TestParsePrograms_AvailableIsNotRecomputed(t *testing.T) {
	// The sheet may adjust availability with its own formulas
	programs, _ := ParsePrograms([][]string{{"Science", "30", "28", "5"}})

	seats, ok := programs[0].Seats()
	assert.True(t, ok)
	assert.Equal(t, 5, seats)
}

func TestOfferable(t *testing.T) {
	programs, _ := ParsePrograms([][]string{
		{"Science", "30", "28", "2"},
		{"Arts", "40", "40", "0"},
		{"Math", "20", "19", "n/a"},
		{"History", "20", "25", "-5"},
		{"Music", "10", "9", " 1 "},
	})

	offerable := Offerable(programs)

	var names []string
	for _, p := range offerable {
		names = append(names, p.Name)
		seats, _ := p.Seats()
		assert.Greater(t, seats, 0)
	}
	assert.Equal(t, []string{"Science", "Music"}, names)
}

func TestCapacityView_Lookup(t *testing.T) {
	wf := newTestWorkflow(t, newTestStore(), nil)

	p, err := wf.capacity.Lookup(context.Background(), " Science ")
	require.NoError(t, err)
	assert.Equal(t, "2", p.Available)

	_, err = wf.capacity.Lookup(context.Background(), "Astronomy")
	assert.True(t, errors.Is(err, ErrUnknownProgram))
}

func TestCapacityView_ReadsFreshEachTime(t *testing.T) {
	m := newTestStore()
	wf := newTestWorkflow(t, m, nil)

	first, err := wf.Programs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", first[0].Available)

	m.SetCell("program", 1, 3, "0")

	second, err := wf.Programs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0", second[0].Available)
	assert.Equal(t, 2, m.Reads)
}

func TestCapacityView_RangeNotFound(t *testing.T) {
	m := newTestStore()
	wf := NewWorkflow(m, Options{ProgramsRange: "missing!A2:D"}, zaptest.NewLogger(t))

	_, err := wf.Programs(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, tabular.ErrRangeNotFound))
	assert.Equal(t, 1, m.Reads, "missing ranges are not retried")
}
