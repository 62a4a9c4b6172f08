package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestFileOrStdinLoadFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.blossom")
	assert.NoError(t, os.WriteFile(path, []byte(`2024-03-05 groceries
  Expense:Food 42 USD
  Asset:Cash
`), 0o644))

	file := &FileOrStdin{Filename: path}
	files, err := file.LoadFiles(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, len(files))
	assert.Equal(t, 1, len(files[0].Elements))
}

func TestFileOrStdinFollowsImports(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "accounts.blossom"),
		[]byte("account Asset:Cash\n"), 0o644))
	path := filepath.Join(dir, "main.blossom")
	assert.NoError(t, os.WriteFile(path, []byte("import \"accounts.blossom\"\n"), 0o644))

	file := &FileOrStdin{Filename: path}
	files, err := file.LoadFiles(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, len(files))
}

func TestFileOrStdinStdinContents(t *testing.T) {
	file := &FileOrStdin{
		Filename: "<stdin>",
		Contents: []byte("2024-03-05 groceries\n  Expense:Food 42 USD\n  Asset:Cash\n"),
	}

	assert.True(t, file.IsStdin())

	files, err := file.LoadFiles(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, len(files))

	source, err := file.GetSourceContent()
	assert.NoError(t, err)
	assert.Equal(t, file.Contents, source)
	assert.Equal(t, "<stdin>", file.GetAbsoluteFilename())
}

func TestFileOrStdinStdinRejectsImports(t *testing.T) {
	file := &FileOrStdin{
		Filename: "<stdin>",
		Contents: []byte("import \"other.blossom\"\n"),
	}

	_, err := file.LoadFiles(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stdin")
}
