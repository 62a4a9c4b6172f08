package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/blossomtext/blossom/ast"
)

var errCaretStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})

// positioned is implemented by every diagnostic that can point into the
// source: parse errors, rejections, assertion failures.
type positioned interface {
	GetPosition() ast.Position
	Error() string
}

// ErrorRenderer renders diagnostics with terminal styling and a few lines
// of source context around the failure point.
type ErrorRenderer struct {
	filename string
	source   []byte
}

// NewErrorRenderer creates a renderer holding the named file's source for
// context. A nil source renders messages without context.
func NewErrorRenderer(filename string, source []byte) *ErrorRenderer {
	return &ErrorRenderer{filename: filename, source: source}
}

// Render formats a single error. Source context is drawn only for positions
// in the renderer's own file; a diagnostic from an imported file renders as
// its message alone, which already names file, line and column.
func (r *ErrorRenderer) Render(err error) string {
	if e, ok := err.(positioned); ok && r.source != nil {
		if pos := e.GetPosition(); pos.Filename == r.filename {
			return r.renderWithContext(pos, e.Error())
		}
	}
	return errorStyle.Render(err.Error())
}

// RenderAll formats multiple errors, separated by blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}
	return buf.String()
}

func (r *ErrorRenderer) renderWithContext(pos ast.Position, message string) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	lines := strings.Split(string(r.source), "\n")

	startLine := pos.Line - 3
	if startLine < 0 {
		startLine = 0
	}
	endLine := pos.Line + 1
	if endLine > len(lines) {
		endLine = len(lines)
	}

	for i := startLine; i < endLine; i++ {
		buf.WriteString("   ")
		buf.WriteString(dimStyle.Render(lines[i]))
		buf.WriteByte('\n')

		if i == pos.Line-1 && pos.Column > 0 {
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", pos.Column-1))
			buf.WriteString(errCaretStyle.Render("^"))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}
