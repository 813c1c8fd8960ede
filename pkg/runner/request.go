package runner

import "time"

// Request describes one invocation of the external binary. It is immutable
// once created: accessors return copies.
type Request struct {
	operation string
	args      []string
	target    string
	timeout   time.Duration
}

// RequestOption configures a Request at construction time
type RequestOption func(*Request)

// WithArgs appends arguments after the operation name
func WithArgs(args ...string) RequestOption {
	return func(r *Request) {
		r.args = append(r.args, args...)
	}
}

// WithTarget sets the path the operation applies to. It is passed last.
func WithTarget(target string) RequestOption {
	return func(r *Request) {
		r.target = target
	}
}

// WithTimeout bounds the run time of the process. Zero means the runner's
// default applies.
func WithTimeout(d time.Duration) RequestOption {
	return func(r *Request) {
		r.timeout = d
	}
}

// NewRequest creates a request for the given subcommand
func NewRequest(operation string, opts ...RequestOption) Request {
	r := Request{operation: operation}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Operation returns the subcommand name
func (r Request) Operation() string {
	return r.operation
}

// Args returns a copy of the arguments
func (r Request) Args() []string {
	return append([]string(nil), r.args...)
}

// Target returns the optional target path
func (r Request) Target() string {
	return r.target
}

// Timeout returns the request timeout, zero if unset
func (r Request) Timeout() time.Duration {
	return r.timeout
}

// Argv returns the arguments passed to the binary:
// <operation> [args...] [target]
func (r Request) Argv() []string {
	argv := make([]string, 0, len(r.args)+2)
	argv = append(argv, r.operation)
	argv = append(argv, r.args...)
	if r.target != "" {
		argv = append(argv, r.target)
	}
	return argv
}
