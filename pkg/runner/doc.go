// Package runner executes the external dotfile manager binary.
//
// A Request names a subcommand, its arguments, an optional target path and
// an optional timeout. Runner.Execute turns one Request into exactly one
// Outcome, a tagged value that is either:
//
//   - Success, carrying captured stdout
//   - Failure, carrying the exit status and stderr (or a synthetic message
//     when the process was killed at its deadline or cancelled)
//   - BinaryNotFound, when the process could not be started at all
//
// Process creation is behind the Executor interface so callers can swap in
// a fake. The default ExecExecutor uses os/exec with separate stdout and
// stderr buffers and never attaches a terminal.
package runner
