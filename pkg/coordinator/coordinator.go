package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/logging"
	"github.com/rs/zerolog"
)

// Category groups operations that supersede each other
type Category string

const (
	CategoryStatus      Category = "status"
	CategoryDiff        Category = "diff"
	CategoryApply       Category = "apply"
	CategoryAddRemove   Category = "add-remove"
	CategoryManaged     Category = "managed"
	CategoryData        Category = "data"
	CategoryDiagnostics Category = "diagnostics"
)

// Categories lists every known category
func Categories() []Category {
	return []Category{
		CategoryStatus, CategoryDiff, CategoryApply, CategoryAddRemove,
		CategoryManaged, CategoryData, CategoryDiagnostics,
	}
}

// Job is the work run for a handle. It must return promptly once ctx is
// cancelled.
type Job func(ctx context.Context) (interface{}, error)

// Event describes a terminal transition. Cancelled events carry no value.
type Event struct {
	ID       uint64
	Category Category
	State    State
	Value    interface{}
	Err      error
	Duration time.Duration
}

// Listener receives one Event per handle
type Listener func(Event)

// Coordinator runs jobs in the background, at most one live handle per
// category. Categories run independently of each other.
type Coordinator struct {
	mu       sync.Mutex
	current  map[Category]*Handle
	nextID   uint64
	closed   bool
	ctx      context.Context
	stop     context.CancelFunc
	wg       sync.WaitGroup
	listener Listener
	logger   zerolog.Logger
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithListener registers the terminal-transition callback. It is called
// from background goroutines and must not block.
func WithListener(l Listener) Option {
	return func(c *Coordinator) {
		c.listener = l
	}
}

// New creates a coordinator
func New(opts ...Option) *Coordinator {
	ctx, stop := context.WithCancel(context.Background())
	c := &Coordinator{
		current: make(map[Category]*Handle),
		ctx:     ctx,
		stop:    stop,
		logger:  logging.GetLogger("coordinator"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispatch starts job in category and returns its handle. A handle still
// running in the same category is cancelled first and its result will
// never be delivered.
func (c *Coordinator) Dispatch(category Category, job Job) *Handle {
	c.mu.Lock()
	c.nextID++
	id := c.nextID

	if c.closed {
		h := newHandle(id, category, func() {}, c)
		h.finish(StateCancelled, nil, errors.NewCancelled(string(category)))
		c.mu.Unlock()
		c.notify(h)
		return h
	}

	var superseded *Handle
	if prev := c.current[category]; prev != nil {
		prev.cancel()
		if prev.finish(StateCancelled, nil, errors.NewCancelled(string(category))) {
			superseded = prev
		}
	}

	ctx, cancel := context.WithCancel(c.ctx)
	h := newHandle(id, category, cancel, c)
	c.current[category] = h
	c.wg.Add(1)
	c.mu.Unlock()

	if superseded != nil {
		c.logger.Debug().
			Str("category", string(category)).
			Uint64("superseded", superseded.id).
			Uint64("by", id).
			Msg("Superseded running operation")
		c.notify(superseded)
	}

	c.logger.Debug().Str("category", string(category)).Uint64("id", id).Msg("Dispatched")
	go c.run(ctx, h, job)
	return h
}

func (c *Coordinator) run(ctx context.Context, h *Handle, job Job) {
	defer c.wg.Done()
	defer h.cancel()

	value, err := call(ctx, h.category, job)

	state := StateCompleted
	if err != nil {
		state = StateFailed
		value = nil
	}

	c.mu.Lock()
	if c.current[h.category] == h {
		delete(c.current, h.category)
	}
	delivered := h.finish(state, value, err)
	c.mu.Unlock()

	if !delivered {
		c.logger.Debug().
			Str("category", string(h.category)).
			Uint64("id", h.id).
			Msg("Discarded result of cancelled operation")
		return
	}

	logger := c.logger.With().
		Str("category", string(h.category)).
		Uint64("id", h.id).
		Dur("duration", h.Duration()).
		Logger()
	if err != nil {
		logger.Debug().Err(err).Msg("Operation failed")
	} else {
		logger.Debug().Msg("Operation completed")
	}
	c.notify(h)
}

// call runs job, turning a panic into an INTERNAL error
func call(ctx context.Context, category Category, job Job) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = errors.Newf(errors.ErrInternal, "%s operation panicked: %v", category, r)
		}
	}()
	return job(ctx)
}

func (c *Coordinator) cancelHandle(h *Handle) {
	c.mu.Lock()
	h.cancel()
	if c.current[h.category] == h {
		delete(c.current, h.category)
	}
	cancelled := h.finish(StateCancelled, nil, errors.NewCancelled(string(h.category)))
	c.mu.Unlock()

	if cancelled {
		c.notify(h)
	}
}

func (c *Coordinator) notify(h *Handle) {
	if c.listener != nil {
		c.listener(h.event())
	}
}

// Running reports whether category has a live handle
func (c *Coordinator) Running(category Category) bool {
	return c.Current(category) != nil
}

// Current returns the live handle of category, or nil when idle
func (c *Coordinator) Current(category Category) *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := c.current[category]
	if h == nil || h.State().Terminal() {
		return nil
	}
	return h
}

// Shutdown cancels every live handle and waits for their jobs to return or
// for ctx to be done. Later dispatches are cancelled immediately.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	var cancelled []*Handle
	for category, h := range c.current {
		h.cancel()
		if h.finish(StateCancelled, nil, errors.NewCancelled(string(category))) {
			cancelled = append(cancelled, h)
		}
		delete(c.current, category)
	}
	c.mu.Unlock()
	c.stop()

	for _, h := range cancelled {
		c.notify(h)
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), errors.ErrTimeout, "coordinator shutdown did not finish")
	}
}
