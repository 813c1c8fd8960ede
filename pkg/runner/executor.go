package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Result is the raw product of running a process to completion
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor starts a process and waits for it. Run returns an error only when
// the process could not be started or waited on; a non-zero exit status is
// reported through Result.ExitCode with a nil error.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (Result, error)
}

// ExecExecutor runs processes with os/exec
type ExecExecutor struct {
	// Dir is the working directory; empty means the current one
	Dir string
	// Env is appended to the inherited environment
	Env []string
	// WaitDelay bounds how long to wait for output pipes after a kill
	WaitDelay time.Duration
}

// NewExecExecutor creates an executor that inherits the environment and
// disables interactive pagers.
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{
		Env:       []string{"PAGER=cat", "CHEZMOI_NO_PAGER=1"},
		WaitDelay: 2 * time.Second,
	}
}

// Run implements Executor
func (e *ExecExecutor) Run(ctx context.Context, binary string, args []string) (Result, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = e.Dir
	if len(e.Env) > 0 {
		cmd.Env = append(cmd.Environ(), e.Env...)
	}
	cmd.WaitDelay = e.WaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		result.ExitCode = -1
		return result, err
	}
	return result, nil
}
