package runner

import (
	"fmt"
	"time"

	"github.com/arthur-debert/chezui/pkg/errors"
)

// Kind tags which variant an Outcome holds
type Kind int

const (
	// KindSuccess means the process exited with status 0
	KindSuccess Kind = iota
	// KindFailure means a non-zero exit, a timeout or a cancellation
	KindFailure
	// KindBinaryNotFound means the process could not be started
	KindBinaryNotFound
)

// String returns the variant name
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindFailure:
		return "failure"
	case KindBinaryNotFound:
		return "binary-not-found"
	default:
		return "unknown"
	}
}

// Outcome is the result of exactly one Execute call. It is built only by the
// constructors below, so a value always holds one complete variant.
type Outcome struct {
	kind      Kind
	operation string
	stdout    string
	exitCode  int
	stderr    string
	timedOut  bool
	cancelled bool
	limit     time.Duration
	binary    string
	cause     error
}

// Success builds the variant for a zero exit status
func Success(operation, stdout string) Outcome {
	return Outcome{kind: KindSuccess, operation: operation, stdout: stdout}
}

// Failure builds the variant for a non-zero exit status
func Failure(operation string, exitCode int, stderr string) Outcome {
	return Outcome{kind: KindFailure, operation: operation, exitCode: exitCode, stderr: stderr}
}

// TimedOut builds the failure variant for a process killed at its deadline.
// A synthetic message takes the place of stderr.
func TimedOut(operation string, limit time.Duration) Outcome {
	return Outcome{
		kind:      KindFailure,
		operation: operation,
		exitCode:  -1,
		stderr:    fmt.Sprintf("timed out after %s", limit),
		timedOut:  true,
		limit:     limit,
	}
}

// Cancelled builds the failure variant for a process stopped because its
// caller went away.
func Cancelled(operation string) Outcome {
	return Outcome{
		kind:      KindFailure,
		operation: operation,
		exitCode:  -1,
		stderr:    "cancelled",
		cancelled: true,
	}
}

// BinaryNotFound builds the variant for a binary that could not be started
func BinaryNotFound(operation, binary string, cause error) Outcome {
	return Outcome{kind: KindBinaryNotFound, operation: operation, binary: binary, cause: cause}
}

// Kind returns the variant tag
func (o Outcome) Kind() Kind { return o.kind }

// Operation returns the subcommand that produced the outcome
func (o Outcome) Operation() string { return o.operation }

// OK reports whether the outcome is a success
func (o Outcome) OK() bool { return o.kind == KindSuccess }

// Stdout returns captured standard output. On a plain non-zero exit it holds
// whatever the process printed before failing; some commands report through
// stdout and exit non-zero.
func (o Outcome) Stdout() string { return o.stdout }

// ExitCode returns the process exit status; -1 when killed
func (o Outcome) ExitCode() int { return o.exitCode }

// Stderr returns captured standard error or the synthetic failure indicator
func (o Outcome) Stderr() string { return o.stderr }

// TimedOut reports whether the failure was caused by the request deadline
func (o Outcome) TimedOut() bool { return o.timedOut }

// Cancelled reports whether the failure was caused by caller cancellation
func (o Outcome) Cancelled() bool { return o.cancelled }

// Err maps the outcome onto the error taxonomy. It returns nil on success.
func (o Outcome) Err() error {
	switch o.kind {
	case KindSuccess:
		return nil
	case KindBinaryNotFound:
		return errors.NewBinaryNotFound(o.binary, o.cause)
	}

	switch {
	case o.timedOut:
		return errors.NewTimeout(o.operation, o.limit.String())
	case o.cancelled:
		return errors.NewCancelled(o.operation)
	default:
		return errors.NewCommandFailed(o.operation, o.exitCode, o.stderr)
	}
}
