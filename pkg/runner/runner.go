package runner

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/chezui/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultTimeout applies when neither the request nor the runner sets one
const DefaultTimeout = 30 * time.Second

// Runner invokes the external binary for one Request at a time and turns
// whatever happens into an Outcome. It is safe for concurrent use.
type Runner struct {
	binary         string
	executor       Executor
	defaultTimeout time.Duration
	logger         zerolog.Logger
}

// Option configures a Runner
type Option func(*Runner)

// WithExecutor replaces the process execution strategy
func WithExecutor(e Executor) Option {
	return func(r *Runner) {
		r.executor = e
	}
}

// WithDefaultTimeout sets the timeout for requests that carry none.
// Zero disables the timeout.
func WithDefaultTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.defaultTimeout = d
	}
}

// New creates a runner for binary, which is a name looked up on PATH or a
// path to an executable.
func New(binary string, opts ...Option) *Runner {
	r := &Runner{
		binary:         binary,
		executor:       NewExecExecutor(),
		defaultTimeout: DefaultTimeout,
		logger:         logging.GetLogger("runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Binary returns the configured binary
func (r *Runner) Binary() string {
	return r.binary
}

// LookPath resolves the binary, returning a BINARY_NOT_FOUND error when it
// is not an executable file.
func (r *Runner) LookPath() (string, error) {
	resolved, err := exec.LookPath(r.binary)
	if err != nil {
		return "", BinaryNotFound("", r.binary, err).Err()
	}
	return resolved, nil
}

// Execute runs req to completion and never panics or returns an error.
// Failures to start, non-zero exits, deadlines and cancellations are all
// reported through the Outcome.
func (r *Runner) Execute(ctx context.Context, req Request) Outcome {
	timeout := req.Timeout()
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	argv := req.Argv()
	op := req.Operation()
	logger := r.logger.With().Str("operation", op).Logger()
	logger.Debug().
		Str("binary", r.binary).
		Strs("args", argv).
		Dur("timeout", timeout).
		Msg("Executing command")

	start := time.Now()
	result, err := r.executor.Run(runCtx, r.binary, argv)
	elapsed := time.Since(start)

	// Context state decides first: a start attempted on a done context
	// fails without the binary being at fault.
	if ctxErr := runCtx.Err(); ctxErr != nil {
		if ctx.Err() != nil {
			logger.Debug().Dur("elapsed", elapsed).Msg("Command cancelled")
			return Cancelled(op)
		}
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			logger.Warn().Dur("timeout", timeout).Msg("Command timed out")
			return TimedOut(op, timeout)
		}
	}

	if err != nil {
		logger.Error().Err(err).Str("binary", r.binary).Msg("Failed to start command")
		return BinaryNotFound(op, r.binary, err)
	}

	if result.ExitCode != 0 {
		logger.Debug().
			Int("exitCode", result.ExitCode).
			Str("stderr", strings.TrimSpace(result.Stderr)).
			Dur("elapsed", elapsed).
			Msg("Command failed")
		out := Failure(op, result.ExitCode, result.Stderr)
		out.stdout = result.Stdout
		return out
	}

	logger.Debug().
		Int("stdoutBytes", len(result.Stdout)).
		Dur("elapsed", elapsed).
		Msg("Command completed")
	return Success(op, result.Stdout)
}
