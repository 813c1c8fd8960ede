// Package chezmoi maps each chezmoi subcommand to a typed, blocking call.
//
// A Client builds the argument list, runs it through runner.Runner, turns
// the Outcome into the error taxonomy and hands stdout to the matching
// parser. It also owns the add policy: a path already present in the
// registry is rejected with CONFLICT before any process is started, and
// every successful add or remove marks the registry stale.
package chezmoi
