package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/arthur-debert/chezui/pkg/runner"
)

// Invocation records one call to FakeExecutor.Run
type Invocation struct {
	Binary string
	Args   []string
}

// Subcommand returns the first argument
func (i Invocation) Subcommand() string {
	if len(i.Args) == 0 {
		return ""
	}
	return i.Args[0]
}

// Response is the scripted answer for a subcommand
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err is returned as a start failure
	Err error
	// Block makes Run wait for the context to be done, or for Release to
	// be closed when it is set
	Block   bool
	Release chan struct{}
}

// FakeExecutor is a runner.Executor answering from a script keyed by
// subcommand. It records every invocation and never starts a process.
type FakeExecutor struct {
	mu          sync.Mutex
	responses   map[string]Response
	fallback    Response
	invocations []Invocation
}

// NewFakeExecutor creates an executor that answers every unknown
// subcommand with an empty success.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{responses: map[string]Response{}}
}

// On sets the response for subcommand
func (f *FakeExecutor) On(subcommand string, r Response) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[subcommand] = r
	return f
}

// Default sets the response for subcommands without a scripted one
func (f *FakeExecutor) Default(r Response) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallback = r
	return f
}

// Run implements runner.Executor
func (f *FakeExecutor) Run(ctx context.Context, binary string, args []string) (runner.Result, error) {
	f.mu.Lock()
	inv := Invocation{Binary: binary, Args: append([]string(nil), args...)}
	f.invocations = append(f.invocations, inv)
	r, ok := f.responses[inv.Subcommand()]
	if !ok {
		r = f.fallback
	}
	f.mu.Unlock()

	if r.Block {
		select {
		case <-ctx.Done():
			return runner.Result{ExitCode: -1}, ctx.Err()
		case <-r.Release:
		}
	}
	if r.Err != nil {
		return runner.Result{ExitCode: -1}, r.Err
	}
	return runner.Result{Stdout: r.Stdout, Stderr: r.Stderr, ExitCode: r.ExitCode}, nil
}

// Calls returns the number of invocations so far
func (f *FakeExecutor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.invocations)
}

// Invocations returns a copy of the recorded invocations
func (f *FakeExecutor) Invocations() []Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Invocation(nil), f.invocations...)
}

// Last returns the most recent invocation
func (f *FakeExecutor) Last() Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.invocations) == 0 {
		return Invocation{}
	}
	return f.invocations[len(f.invocations)-1]
}

// CommandLine joins the args of inv for compact assertions
func (i Invocation) CommandLine() string {
	return strings.Join(i.Args, " ")
}
