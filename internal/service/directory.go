package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jjenkins/programselect/internal/model"
)

// Directory table columns. Column 0 is a running number and is ignored
const (
	colDirectoryID = iota + 1
	colDirectoryTitle
	colDirectoryGivenName
	colDirectorySurname
)

// DirectoryHeader is row 1 of the student directory
var DirectoryHeader = []string{"no", "studentId", "title", "name", "surname"}

// Directory maps trimmed student ids to identities
type Directory map[string]model.StudentIdentity

// ParseDirectory skips the header row. When an id repeats, the last row wins
func ParseDirectory(rows [][]string) Directory {
	dir := make(Directory)
	if len(rows) <= 1 {
		return dir
	}

	for _, row := range rows[1:] {
		id := strings.TrimSpace(cell(row, colDirectoryID))
		if id == "" {
			continue
		}
		dir[id] = model.StudentIdentity{
			StudentID: id,
			Title:     cell(row, colDirectoryTitle),
			GivenName: cell(row, colDirectoryGivenName),
			Surname:   cell(row, colDirectorySurname),
		}
	}
	return dir
}

// Find matches id exactly after trimming; the match is case-sensitive
func (d Directory) Find(id string) (model.StudentIdentity, bool) {
	identity, ok := d[strings.TrimSpace(id)]
	return identity, ok
}

// DirectoryLookup reads the student directory fresh on every call
type DirectoryLookup struct {
	reader    *reader
	rangeSpec string
}

func newDirectoryLookup(r *reader, rangeSpec string) *DirectoryLookup {
	return &DirectoryLookup{reader: r, rangeSpec: rangeSpec}
}

// Find returns the identity for id or ErrStudentNotFound
func (l *DirectoryLookup) Find(ctx context.Context, id string) (model.StudentIdentity, error) {
	rows, err := l.reader.read(ctx, l.rangeSpec)
	if err != nil {
		return model.StudentIdentity{}, fmt.Errorf("failed to read directory: %w", err)
	}

	identity, ok := ParseDirectory(rows).Find(id)
	if !ok {
		return model.StudentIdentity{}, fmt.Errorf("%w: %q", ErrStudentNotFound, strings.TrimSpace(id))
	}
	return identity, nil
}
