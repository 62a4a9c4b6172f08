package cli

import (
	"context"
	stdErrors "errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/blossomtext/blossom/ledger"
)

type WatchCmd struct {
	File FileOrStdin `help:"Journal input filename." arg:""`
}

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	if cmd.File.IsStdin() {
		return fmt.Errorf("watch requires a file, not stdin")
	}

	runCtx := context.Background()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	root := cmd.File.GetAbsoluteFilename()
	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	// Imported files change independently of the root; offer to watch the
	// whole graph.
	if imports := cmd.importGraph(runCtx); len(imports) > 0 {
		watchAll, err := promptYesNo(fmt.Sprintf("Watch %d imported file(s) as well?", len(imports)))
		if err != nil {
			return err
		}
		if watchAll {
			for _, path := range imports {
				if err := watcher.Add(path); err != nil {
					printInfof(ctx.Stderr, "cannot watch %s: %v", path, err)
				}
			}
		}
	}

	printInfof(ctx.Stdout, "watching %s", cmd.File.Filename)
	cmd.checkOnce(runCtx, ctx)

	// Editors replace files rather than rewriting them in place, which
	// fires several events in quick succession. Debounce before re-checking
	// and re-arm the watch in case the inode changed.
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				pending = time.After(200 * time.Millisecond)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, fmt.Sprintf("watch error: %v", err))

		case <-pending:
			pending = nil
			_ = watcher.Add(root)
			cmd.checkOnce(runCtx, ctx)
		}
	}
}

// importGraph returns the absolute paths of the files imported by the root,
// directly or transitively. Load failures are ignored here; checkOnce will
// surface them.
func (cmd *WatchCmd) importGraph(runCtx context.Context) []string {
	files, err := cmd.File.LoadFiles(runCtx)
	if err != nil || len(files) < 2 {
		return nil
	}

	baseDir := filepath.Dir(cmd.File.GetAbsoluteFilename())
	var paths []string
	for _, file := range files {
		for _, imp := range file.Imports {
			path := imp.Path
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			paths = append(paths, path)
		}
	}
	return paths
}

func (cmd *WatchCmd) checkOnce(runCtx context.Context, ctx *kong.Context) {
	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		printError(ctx.Stderr, fmt.Sprintf("failed to read %s: %v", cmd.File.Filename, err))
		return
	}
	renderer := NewErrorRenderer(cmd.File.GetAbsoluteFilename(), sourceContent)

	files, err := cmd.File.LoadFiles(runCtx)
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		printError(ctx.Stderr, "parse error")
		return
	}

	journal := ledger.New()
	if err := journal.Process(runCtx, files...); err != nil {
		var processErrors *ledger.ProcessErrors
		if stdErrors.As(err, &processErrors) {
			_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(processErrors.Errors))
			printError(ctx.Stderr, fmt.Sprintf("%d error(s) found", len(processErrors.Errors)))
			return
		}
		printError(ctx.Stderr, err.Error())
		return
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("%s: check passed (%d entries)",
		time.Now().Format("15:04:05"), len(journal.Entries)))
}
