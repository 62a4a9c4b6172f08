package cli

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCommandErrorExitCode(t *testing.T) {
	err := NewCommandError(2)
	assert.Equal(t, 2, err.ExitCode())
	assert.Equal(t, "command failed", err.Error())
}

func TestCommandErrorUnwrapsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("while checking: %w", NewCommandError(1))

	var cmdErr *CommandError
	assert.True(t, stdErrors.As(wrapped, &cmdErr))
	assert.Equal(t, 1, cmdErr.ExitCode())
}
