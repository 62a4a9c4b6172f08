package ast

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sequence is the total-order key of a journal entry: a calendar date plus an
// optional intra-day ordinal that disambiguates entries on the same day.
//
// The text form is YYYY-M-D or YYYY-M-D/ORD; single-digit months and days are
// accepted. Sequences are comparable and usable as map keys (dates are
// normalized to UTC midnight on construction).
type Sequence struct {
	Date time.Time
	Ord  int
}

// NewSequence builds a Sequence from calendar components.
func NewSequence(year int, month time.Month, day, ord int) Sequence {
	return Sequence{
		Date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Ord:  ord,
	}
}

// ParseSequence parses the text form YYYY-M-D[/ORD].
func ParseSequence(s string) (Sequence, error) {
	datePart := s
	ord := 0

	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		datePart = s[:idx]
		o, err := strconv.Atoi(s[idx+1:])
		if err != nil || o < 0 {
			return Sequence{}, fmt.Errorf("invalid sequence ordinal %q", s[idx+1:])
		}
		ord = o
	}

	parts := strings.Split(datePart, "-")
	if len(parts) != 3 {
		return Sequence{}, fmt.Errorf("invalid date %q", datePart)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return Sequence{}, fmt.Errorf("invalid year in %q", datePart)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Sequence{}, fmt.Errorf("invalid month in %q", datePart)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return Sequence{}, fmt.Errorf("invalid day in %q", datePart)
	}

	// Reject impossible dates like 2024-2-30: time.Date normalizes overflow,
	// so a round-trip mismatch means the components were out of range.
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != time.Month(month) {
		return Sequence{}, fmt.Errorf("no such date %q", datePart)
	}

	return Sequence{Date: date, Ord: ord}, nil
}

// Compare returns -1, 0 or 1 ordering s against other by date, then ordinal.
func (s Sequence) Compare(other Sequence) int {
	if s.Date.Before(other.Date) {
		return -1
	}
	if s.Date.After(other.Date) {
		return 1
	}
	if s.Ord != other.Ord {
		if s.Ord < other.Ord {
			return -1
		}
		return 1
	}
	return 0
}

// Before reports whether s orders strictly before other.
func (s Sequence) Before(other Sequence) bool {
	return s.Compare(other) < 0
}

// String returns the canonical text form.
func (s Sequence) String() string {
	base := s.Date.Format("2006-01-02")
	if s.Ord == 0 {
		return base
	}
	return base + "/" + strconv.Itoa(s.Ord)
}
