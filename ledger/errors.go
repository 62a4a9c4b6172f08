package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blossomtext/blossom/ast"
)

// location formats an error prefix from a source position, falling back to
// the sequence key when the position carries no filename.
func location(pos ast.Position, seq ast.Sequence) string {
	if pos.Filename == "" {
		if pos.Line > 0 {
			return fmt.Sprintf("%d:%d", pos.Line, pos.Column)
		}
		return seq.String()
	}
	return fmt.Sprintf("%s:%d", pos.Filename, pos.Line)
}

// RejectionError is returned when an entry fails the balancing decision and
// cannot be admitted to the journal.
type RejectionError struct {
	Pos       ast.Position
	Seq       ast.Sequence
	Message   string
	Residuals []ast.Value // nonzero per-commodity sums, sorted by commodity
}

func (e *RejectionError) Error() string {
	if len(e.Residuals) == 0 {
		return fmt.Sprintf("%s: %s", location(e.Pos, e.Seq), e.Message)
	}

	parts := make([]string, 0, len(e.Residuals))
	for _, r := range e.Residuals {
		parts = append(parts, r.String())
	}
	return fmt.Sprintf("%s: %s (%s)", location(e.Pos, e.Seq), e.Message, strings.Join(parts, ", "))
}

// GetPosition returns the position of the error for renderers.
func (e *RejectionError) GetPosition() ast.Position {
	return e.Pos
}

// DuplicateDeclError is returned when an account or commodity is declared
// twice.
type DuplicateDeclError struct {
	Pos      ast.Position
	Kind     string // "account" or "commodity"
	Name     string
	Previous ast.Position
}

func (e *DuplicateDeclError) Error() string {
	msg := fmt.Sprintf("%s: duplicate %s declaration %q", location(e.Pos, ast.Sequence{}), e.Kind, e.Name)
	if e.Previous.Line > 0 {
		msg += fmt.Sprintf(" (first declared at %s)", location(e.Previous, ast.Sequence{}))
	}
	return msg
}

// GetPosition returns the position of the error for renderers.
func (e *DuplicateDeclError) GetPosition() ast.Position {
	return e.Pos
}

// AssertionError is returned when an assertion does not match the account's
// computed balance at its sequence point.
type AssertionError struct {
	Pos      ast.Position
	Seq      ast.Sequence
	Account  ast.Account
	Expected ast.Value
	Actual   ast.Value
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: assertion failed for %s: expected %s, have %s",
		location(e.Pos, e.Seq), e.Account, e.Expected, e.Actual)
}

// GetPosition returns the position of the error for renderers.
func (e *AssertionError) GetPosition() ast.Position {
	return e.Pos
}

// ProcessErrors wraps the errors collected while folding an element stream
// into a journal. Processing continues past rejected entries so that a
// single run reports every problem in the file.
type ProcessErrors struct {
	Errors []error
}

func (e *ProcessErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping.
func (e *ProcessErrors) Unwrap() []error {
	return e.Errors
}

// sortResiduals orders residual values by commodity for deterministic
// error messages and synthesis order.
func sortResiduals(residuals []ast.Value) {
	sort.Slice(residuals, func(i, j int) bool {
		return residuals[i].Commodity < residuals[j].Commodity
	})
}
