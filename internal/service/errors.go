package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStudentNotFound means the directory has no row for the student id
	ErrStudentNotFound = errors.New("student not found")
	// ErrNoCapacity means no program has seats left for this attempt
	ErrNoCapacity = errors.New("no program has seats remaining")
	// ErrSeatFilled means the chosen program lost its last seat between search
	// and confirm. It matches ErrNoCapacity under errors.Is
	ErrSeatFilled = fmt.Errorf("%w: the chosen program has just filled", ErrNoCapacity)
	// ErrProgramFull means a resumed submission chose a program with no seats.
	// Without an earlier search it is unknown whether the seat just filled
	ErrProgramFull = fmt.Errorf("%w: the chosen program has no seats", ErrNoCapacity)
	// ErrUnknownProgram means the chosen program is not in the program table
	ErrUnknownProgram = errors.New("unknown program")
	// ErrProgramNotOffered means the chosen program was not offerable at search time
	ErrProgramNotOffered = errors.New("program was not offered to this student")
	// ErrInvalidTransition means the session is not in a state that allows the call
	ErrInvalidTransition = errors.New("invalid workflow transition")
)

// ValidationError lists submission fields that are missing or blank
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
