package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/blossomtext/blossom/parser"
)

// DoctorCmd provides doctor utilities for debugging journal files.
type DoctorCmd struct {
	Lex   LexCmd   `cmd:"" help:"Show lexical tokens from a journal file."`
	Parse ParseCmd `cmd:"" help:"Show the raw element stream from a journal file."`
}

// LexCmd shows lexical tokens from a journal file.
type LexCmd struct {
	File FileOrStdin `help:"Journal input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *LexCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	lexer := parser.NewLexer(source, cmd.File.Filename)
	for _, token := range lexer.ScanAll() {
		if token.Type == parser.EOF {
			continue
		}
		_, _ = fmt.Fprintf(ctx.Stdout, "%-10s %d:%d\t%q\n",
			token.Type, token.Line, token.Column, token.String(source))
	}

	return nil
}

// ParseCmd dumps the parsed element stream.
type ParseCmd struct {
	File FileOrStdin `help:"Journal input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *ParseCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	file, err := parser.ParseBytesWithFilename(context.Background(), cmd.File.Filename, source)
	if err != nil {
		renderer := NewErrorRenderer(cmd.File.Filename, source)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		return NewCommandError(1)
	}

	repr.New(ctx.Stdout, repr.Indent("  ")).Println(file)

	return nil
}
