// Package cli implements the blossom command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/blossomtext/blossom/ast"
	"github.com/blossomtext/blossom/loader"
	"github.com/blossomtext/blossom/parser"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		successStyle.Render(successSymbol),
		message,
	)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		errorStyle.Render(errorSymbol),
		errorStyle.Render(message),
	)
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		infoStyle.Render(infoSymbol),
		fmt.Sprintf(format, args...),
	)
}

// promptYesNo prompts the user with a yes/no question. Returns false
// without prompting when stdin is not a terminal.
func promptYesNo(question string) (bool, error) {
	if !isTerminal() {
		return false, nil
	}

	var confirm bool
	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	return confirm, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// terminalWidth returns the width of the output terminal, or a default for
// non-terminal writers.
func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// FileOrStdin accepts either a journal path or "-" for stdin.
// For stdin: Filename="<stdin>", Contents populated.
// For files: Filename set, Contents nil (read by the loader).
type FileOrStdin struct {
	Filename string
	Contents []byte
}

// Decode implements kong.MapperValue.
func (f *FileOrStdin) Decode(ctx *kong.DecodeContext) error {
	var filename string
	if err := ctx.Scan.PopValueInto("filename", &filename); err != nil {
		return err
	}

	if filename == "-" || filename == "" {
		contents, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		f.Filename = "<stdin>"
		f.Contents = contents
		return nil
	}

	if _, err := os.Stat(filename); err != nil {
		return err
	}
	f.Filename = filename
	f.Contents = nil

	return nil
}

// EnsureContents populates Contents from stdin if no filename was given.
func (f *FileOrStdin) EnsureContents() error {
	if f.Filename == "" {
		contents, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		f.Filename = "<stdin>"
		f.Contents = contents
	}
	return nil
}

// IsStdin reports whether the input came from stdin.
func (f *FileOrStdin) IsStdin() bool {
	return f.Filename == "<stdin>"
}

// GetSourceContent returns the source bytes for error rendering.
func (f *FileOrStdin) GetSourceContent() ([]byte, error) {
	if f.IsStdin() {
		return f.Contents, nil
	}
	return os.ReadFile(f.Filename)
}

// GetAbsoluteFilename returns the absolute path, or "<stdin>" for stdin.
func (f *FileOrStdin) GetAbsoluteFilename() string {
	if f.IsStdin() {
		return f.Filename
	}
	absPath, err := filepath.Abs(f.Filename)
	if err != nil {
		return f.Filename
	}
	return absPath
}

// LoadFiles parses the input. File input goes through the loader with
// import resolution; stdin is parsed directly and must not import other
// files, since relative paths have no anchor there.
func (f *FileOrStdin) LoadFiles(ctx context.Context) ([]*ast.File, error) {
	if f.IsStdin() {
		file, err := parser.ParseBytesWithFilename(ctx, f.Filename, f.Contents)
		if err != nil {
			return nil, err
		}
		if len(file.Imports) > 0 {
			return nil, fmt.Errorf("%s: imports cannot be resolved when reading from stdin", f.Filename)
		}
		return []*ast.File{file}, nil
	}

	ldr := loader.New(loader.WithFollowImports())
	return ldr.Load(ctx, f.GetAbsoluteFilename())
}
