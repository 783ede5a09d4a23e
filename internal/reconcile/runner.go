package reconcile

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// CommandRunner runs an external command to completion.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string) error
}

// ExecRunner runs commands as child processes with the parent's standard
// streams, so the command's own output reaches the user unmodified.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Dir is the working directory; empty means the current one.
	Dir string
}

// NewExecRunner returns an ExecRunner attached to os.Stdin/Stdout/Stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run starts name with args and waits for it to exit.
// A non-zero exit is returned as *CommandError.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string) error {
	//nolint:gosec // G204: the caller chose the command
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Dir = r.Dir

	if err := cmd.Run(); err != nil {
		cmdErr := &CommandError{
			Command:  name,
			Args:     append([]string(nil), args...),
			ExitCode: -1,
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		return cmdErr
	}
	return nil
}
