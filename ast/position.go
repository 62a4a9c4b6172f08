package ast

import "fmt"

// Position represents a location in the source file.
type Position struct {
	Filename string
	Offset   int // Byte offset
	Line     int // Line number (1-indexed)
	Column   int // Column number (1-indexed)
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p occurs earlier in the source than other.
// Used to track the furthest position reached during parsing.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}
