// Package loader reads journal files from disk with optional import
// resolution.
//
// In simple mode only the named file is parsed and its import references
// are left for the caller. In follow mode every import is recursively
// resolved and parsed, relative to the directory of the importing file,
// with files imported more than once loaded a single time.
//
// Example usage:
//
//	// Parse a single file, imports untouched
//	files, err := loader.New().Load(ctx, "main.blossom")
//
//	// Resolve the whole import graph
//	files, err := loader.New(loader.WithFollowImports()).Load(ctx, "main.blossom")
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blossomtext/blossom/ast"
	"github.com/blossomtext/blossom/parser"
	"github.com/blossomtext/blossom/telemetry"
)

// Loader reads and parses journal files.
type Loader struct {
	// FollowImports determines whether imports are recursively resolved.
	// When false only the named file is parsed and its File.Imports are
	// preserved for the caller.
	FollowImports bool
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithFollowImports configures the loader to recursively resolve imports.
// Relative import paths are resolved from the directory of the importing
// file, and a file reached through several import paths is loaded once.
func WithFollowImports() Option {
	return func(l *Loader) {
		l.FollowImports = true
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses the named journal file. The returned slice holds the file's
// elements first, followed by imported files in depth-first import order;
// in simple mode it holds exactly one file.
func (l *Loader) Load(ctx context.Context, filename string) ([]*ast.File, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("load %s", filename))
	defer timer.End()

	if !l.FollowImports {
		file, err := parseFile(ctx, filename)
		if err != nil {
			return nil, err
		}
		return []*ast.File{file}, nil
	}

	state := &loadState{visited: make(map[string]bool)}
	return state.load(ctx, filename)
}

// loadState tracks the files already visited during import resolution.
type loadState struct {
	visited map[string]bool // absolute paths
}

func (s *loadState) load(ctx context.Context, filename string) ([]*ast.File, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}

	// A file reached through several import paths is loaded once.
	if s.visited[absPath] {
		return nil, nil
	}
	s.visited[absPath] = true

	file, err := parseFile(ctx, filename)
	if err != nil {
		return nil, err
	}

	files := []*ast.File{file}
	baseDir := filepath.Dir(absPath)

	for _, imp := range file.Imports {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		path := imp.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		imported, err := s.load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("in file %s: %w", filename, err)
		}
		files = append(files, imported...)
	}

	return files, nil
}

func parseFile(ctx context.Context, filename string) (*ast.File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return parser.ParseBytesWithFilename(ctx, filename, data)
}
