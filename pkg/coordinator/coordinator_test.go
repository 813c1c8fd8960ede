package coordinator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects listener events
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) listen(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// blockingJob returns value once release is closed, ignoring cancellation
// so the late result path is exercised.
func blockingJob(release <-chan struct{}, value interface{}) Job {
	return func(ctx context.Context) (interface{}, error) {
		<-release
		return value, nil
	}
}

func TestDispatch_Completes(t *testing.T) {
	rec := &recorder{}
	c := New(WithListener(rec.listen))

	h := c.Dispatch(CategoryStatus, func(ctx context.Context) (interface{}, error) {
		return "clean", nil
	})

	v, err := h.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "clean", v)
	assert.Equal(t, StateCompleted, h.State())
	assert.False(t, c.Running(CategoryStatus))

	require.NoError(t, c.Shutdown(waitCtx(t)))
	events := rec.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, StateCompleted, events[0].State)
	assert.Equal(t, "clean", events[0].Value)
}

func TestDispatch_Fails(t *testing.T) {
	c := New()
	h := c.Dispatch(CategoryApply, func(ctx context.Context) (interface{}, error) {
		return "ignored", errors.NewCommandFailed("apply", 1, "boom")
	})

	v, err := h.Wait(waitCtx(t))
	assert.Nil(t, v)
	assert.ErrorIs(t, err, errors.CommandFailed)
	assert.Equal(t, StateFailed, h.State())
}

func TestDispatch_TimeoutIsFailed(t *testing.T) {
	c := New()
	h := c.Dispatch(CategoryApply, func(ctx context.Context) (interface{}, error) {
		return nil, errors.NewTimeout("apply", "1s")
	})

	_, err := h.Wait(waitCtx(t))
	assert.ErrorIs(t, err, errors.Timeout)
	assert.Equal(t, StateFailed, h.State())
}

func TestDispatch_Supersedes(t *testing.T) {
	rec := &recorder{}
	c := New(WithListener(rec.listen))

	releaseFirst := make(chan struct{})
	first := c.Dispatch(CategoryDiff, blockingJob(releaseFirst, "stale"))
	second := c.Dispatch(CategoryDiff, func(ctx context.Context) (interface{}, error) {
		return "fresh", nil
	})

	assert.Equal(t, StateCancelled, first.State(), "superseded immediately")
	_, err := first.Wait(waitCtx(t))
	assert.ErrorIs(t, err, errors.Cancelled)

	v, err := second.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)

	// The first job finishing late must not change anything
	close(releaseFirst)
	require.NoError(t, c.Shutdown(waitCtx(t)))

	assert.Equal(t, StateCancelled, first.State())
	value, _ := first.Result()
	assert.Nil(t, value)

	events := rec.snapshot()
	require.Len(t, events, 2)
	delivered := 0
	for _, e := range events {
		if e.State == StateCancelled {
			assert.Equal(t, first.ID(), e.ID)
			assert.Nil(t, e.Value)
			assert.ErrorIs(t, e.Err, errors.Cancelled)
			continue
		}
		delivered++
		assert.Equal(t, "fresh", e.Value)
	}
	assert.Equal(t, 1, delivered)
}

func TestDispatch_SupersedeCancelsContext(t *testing.T) {
	c := New()
	started := make(chan struct{})
	observed := make(chan error, 1)

	c.Dispatch(CategoryStatus, func(ctx context.Context) (interface{}, error) {
		close(started)
		<-ctx.Done()
		observed <- ctx.Err()
		return nil, ctx.Err()
	})
	<-started
	c.Dispatch(CategoryStatus, func(ctx context.Context) (interface{}, error) { return nil, nil })

	select {
	case err := <-observed:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded job context was not cancelled")
	}
}

func TestDispatch_CategoriesIndependent(t *testing.T) {
	c := New()
	release := make(chan struct{})

	apply := c.Dispatch(CategoryApply, blockingJob(release, "applied"))
	status := c.Dispatch(CategoryStatus, func(ctx context.Context) (interface{}, error) {
		return "ok", nil
	})

	v, err := status.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, StateRunning, apply.State())
	assert.True(t, c.Running(CategoryApply))

	close(release)
	v, err = apply.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "applied", v)
}

func TestHandle_Cancel(t *testing.T) {
	rec := &recorder{}
	c := New(WithListener(rec.listen))
	release := make(chan struct{})

	h := c.Dispatch(CategoryData, blockingJob(release, "data"))
	h.Cancel()
	h.Cancel()

	assert.Equal(t, StateCancelled, h.State())
	assert.False(t, c.Running(CategoryData))

	close(release)
	require.NoError(t, c.Shutdown(waitCtx(t)))
	assert.Len(t, rec.snapshot(), 1)
}

func TestDispatch_PanicIsFailed(t *testing.T) {
	c := New()
	h := c.Dispatch(CategoryDiagnostics, func(ctx context.Context) (interface{}, error) {
		panic("kaboom")
	})

	_, err := h.Wait(waitCtx(t))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
	assert.Equal(t, StateFailed, h.State())
}

func TestShutdown(t *testing.T) {
	rec := &recorder{}
	c := New(WithListener(rec.listen))

	h := c.Dispatch(CategoryManaged, func(ctx context.Context) (interface{}, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	require.NoError(t, c.Shutdown(waitCtx(t)))
	assert.Equal(t, StateCancelled, h.State())

	late := c.Dispatch(CategoryManaged, func(ctx context.Context) (interface{}, error) {
		t.Error("job must not run after shutdown")
		return nil, nil
	})
	assert.Equal(t, StateCancelled, late.State())
	assert.Len(t, rec.snapshot(), 2)
}

func TestAwait(t *testing.T) {
	c := New()

	h := c.Dispatch(CategoryManaged, func(ctx context.Context) (interface{}, error) {
		return []string{"/a", "/b"}, nil
	})
	files, err := Await[[]string](waitCtx(t), h)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, files)

	h = c.Dispatch(CategoryManaged, func(ctx context.Context) (interface{}, error) {
		return 42, nil
	})
	_, err = Await[string](waitCtx(t), h)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}

func TestWait_ContextDone(t *testing.T) {
	c := New()
	release := make(chan struct{})
	defer close(release)

	h := c.Dispatch(CategoryDiff, blockingJob(release, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := h.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateRunning, h.State())
}
