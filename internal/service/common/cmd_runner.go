package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Process represents a running process
type Process interface {
	Wait() error
	Kill() error
	// Stdin is the write end of the process standard input
	Stdin() io.WriteCloser
	// Stdout is the read end of the process standard output
	Stdout() io.Reader
}

// CmdRunner is interface for executing external commands
type CmdRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	Start(ctx context.Context, name string, args ...string) (Process, error)
}

// realCmdRunner implements CmdRunner using os/exec
type realCmdRunner struct{}

// NewCmdRunner creates a new CmdRunner
func NewCmdRunner() CmdRunner {
	return &realCmdRunner{}
}

// processWrapper wraps exec.Cmd to implement Process interface
type processWrapper struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.Reader
}

func (p *processWrapper) Wait() error {
	return p.cmd.Wait()
}

func (p *processWrapper) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

func (p *processWrapper) Stdin() io.WriteCloser {
	return p.stdin
}

func (p *processWrapper) Stdout() io.Reader {
	return p.stdout
}

// Run executes external command with given arguments
func (r *realCmdRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if err != nil {
		// Keep stderr in the error, callers classify failures by its content
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return output, fmt.Errorf("%w: %s", err, exitErr.Stderr)
		}
		return output, err
	}
	return output, nil
}

// Start starts external command with piped stdin/stdout and returns Process for management.
// Stderr is inherited so diagnostics of long-lived processes reach the terminal.
func (r *realCmdRunner) Start(ctx context.Context, name string, args ...string) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &processWrapper{cmd: cmd, stdin: stdin, stdout: stdout}, nil
}
