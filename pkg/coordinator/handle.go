package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arthur-debert/chezui/pkg/errors"
)

// State is the lifecycle position of a Handle
type State int

const (
	StateRunning State = iota
	StateCompleted
	StateCancelled
	StateFailed
)

// String returns the lowercase state name
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition can happen
func (s State) Terminal() bool {
	return s != StateRunning
}

// Handle is one dispatched job. It moves from Running to exactly one
// terminal state and is never reused.
type Handle struct {
	id       uint64
	category Category
	started  time.Time
	cancel   context.CancelFunc
	done     chan struct{}
	coord    *Coordinator

	mu       sync.Mutex
	state    State
	value    interface{}
	err      error
	finished time.Time
}

func newHandle(id uint64, category Category, cancel context.CancelFunc, coord *Coordinator) *Handle {
	return &Handle{
		id:       id,
		category: category,
		started:  time.Now(),
		cancel:   cancel,
		done:     make(chan struct{}),
		coord:    coord,
		state:    StateRunning,
	}
}

// ID returns the dispatch sequence number
func (h *Handle) ID() uint64 { return h.id }

// Category returns the category the handle was dispatched in
func (h *Handle) Category() Category { return h.category }

// Done is closed at the terminal transition
func (h *Handle) Done() <-chan struct{} { return h.done }

// State returns the current state
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Result returns the value and error without blocking. Both are nil while
// the handle is running.
func (h *Handle) Result() (interface{}, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value, h.err
}

// Duration returns how long the handle ran, or has been running so far
func (h *Handle) Duration() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finished.IsZero() {
		return time.Since(h.started)
	}
	return h.finished.Sub(h.started)
}

// Wait blocks until the handle is terminal or ctx is done. A cancelled
// handle returns a CANCELLED error and no value.
func (h *Handle) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-h.done:
		return h.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel stops the handle without dispatching a replacement. The job's
// context is cancelled and any result it still produces is discarded.
func (h *Handle) Cancel() {
	h.coord.cancelHandle(h)
}

// finish performs the terminal transition once. It reports whether this
// call made the transition.
func (h *Handle) finish(state State, value interface{}, err error) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state.Terminal() {
		return false
	}
	h.state = state
	h.value = value
	h.err = err
	h.finished = time.Now()
	close(h.done)
	return true
}

func (h *Handle) event() Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Event{
		ID:       h.id,
		Category: h.category,
		State:    h.state,
		Value:    h.value,
		Err:      h.err,
		Duration: h.finished.Sub(h.started),
	}
}

// Await waits for h and asserts its value to T
func Await[T any](ctx context.Context, h *Handle) (T, error) {
	var zero T
	v, err := h.Wait(ctx)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.Newf(errors.ErrInternal, "%s produced %T, want %T", h.category, v, zero)
	}
	return typed, nil
}
