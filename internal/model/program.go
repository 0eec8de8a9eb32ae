package model

import (
	"strconv"
	"strings"
)

// Program is one row of the program table as read from the store. The seat
// figures are kept verbatim; the store is the arithmetic authority
type Program struct {
	Name      string
	Capacity  string
	Reserved  string
	Available string
}

// Seats parses the available-seat cell. ok is false when the cell is not an
// integer, in which case seats is 0
func (p Program) Seats() (seats int, ok bool) {
	return ParseCount(p.Available)
}

// Offerable reports whether the program had at least one seat when it was read
func (p Program) Offerable() bool {
	seats, _ := p.Seats()
	return seats > 0
}

// ParseCount parses an integer-like cell such as "28", " 1,200 " or "3.0"
func ParseCount(raw string) (int, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
