package cli

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/blossomtext/blossom/ledger"
)

// buildJournal loads and processes a journal for the reporting commands.
// Diagnostics are rendered to stderr; the returned error is a CommandError
// when the journal cannot be built.
func buildJournal(runCtx context.Context, ctx *kong.Context, file *FileOrStdin) (*ledger.Journal, error) {
	if err := file.EnsureContents(); err != nil {
		return nil, err
	}

	sourceContent, err := file.GetSourceContent()
	if err != nil {
		return nil, fmt.Errorf("failed to read file for error context: %w", err)
	}
	renderer := NewErrorRenderer(file.GetAbsoluteFilename(), sourceContent)

	files, err := file.LoadFiles(runCtx)
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		return nil, NewCommandError(1)
	}

	journal := ledger.New()
	if err := journal.Process(runCtx, files...); err != nil {
		var processErrors *ledger.ProcessErrors
		if stdErrors.As(err, &processErrors) {
			_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(processErrors.Errors))
			return nil, NewCommandError(1)
		}
		return nil, err
	}

	return journal, nil
}
