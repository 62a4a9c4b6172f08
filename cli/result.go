package cli

// CommandError signals a command failure with a specific exit code.
// Commands return it after writing their own output; main translates it
// into the process exit code instead of commands calling os.Exit.
type CommandError struct {
	exitCode int
}

// NewCommandError creates a CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

func (e *CommandError) Error() string {
	return "command failed"
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}
