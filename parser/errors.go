package parser

import (
	"fmt"
	"strings"

	"github.com/blossomtext/blossom/ast"
)

// ParseError is the fatal result of a failed parse. It reports the furthest
// source position the parser reached and the productions that were still
// viable there. A malformed file never yields a partial element stream.
type ParseError struct {
	Pos      ast.Position
	Message  string
	Expected []string // productions viable at the failure point
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d:%d", e.Pos.Filename, e.Pos.Line, e.Pos.Column)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("%d:%d", e.Pos.Line, e.Pos.Column)
	}

	if len(e.Expected) == 0 {
		return fmt.Sprintf("%s: %s", location, e.Message)
	}
	return fmt.Sprintf("%s: %s (expected %s)", location, e.Message, strings.Join(e.Expected, " | "))
}

// GetPosition returns the position of the error for renderers.
func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}

func newErrorf(pos ast.Position, expected []string, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
		Expected: expected,
	}
}
