package cli

import (
	"context"
	stdErrors "errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/blossomtext/blossom/ledger"
	"github.com/blossomtext/blossom/output"
	"github.com/blossomtext/blossom/telemetry"
)

type CheckCmd struct {
	File FileOrStdin `help:"Journal input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var checkTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				checkTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)
		checkTimer = collector.Start(fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))
		defer reportTelemetry()
	}

	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file for error context: %w", err)
	}

	files, err := cmd.File.LoadFiles(runCtx)
	if err != nil {
		renderer := NewErrorRenderer(cmd.File.GetAbsoluteFilename(), sourceContent)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))

		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "parse error")

		reportTelemetry()
		return NewCommandError(1)
	}

	journal := ledger.New()
	if err := journal.Process(runCtx, files...); err != nil {
		var processErrors *ledger.ProcessErrors
		if stdErrors.As(err, &processErrors) {
			renderer := NewErrorRenderer(cmd.File.GetAbsoluteFilename(), sourceContent)
			_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(processErrors.Errors))

			_, _ = fmt.Fprintln(ctx.Stderr)
			printError(ctx.Stderr, fmt.Sprintf("%d error(s) found", len(processErrors.Errors)))

			reportTelemetry()
			return NewCommandError(1)
		}
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed (%d entries)", len(journal.Entries)))

	return nil
}
