package provider

import (
	"context"
	"sync"

	docerrors "github.com/standardbeagle/docnav/internal/errors"
)

// Task is the future of one asynchronous operation. It completes exactly
// once with nil, a cancelled error, or a typed failure.
type Task struct {
	done   chan struct{}
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

// Go runs fn on its own goroutine with a context derived from ctx
func Go(ctx context.Context, fn func(ctx context.Context) error) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer cancel()
		err := fn(ctx)
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
		close(t.done)
	}()
	return t
}

// Done is closed once the operation completed
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel asks the operation to stop; Wait still reports its outcome
func (t *Task) Cancel() { t.cancel() }

// Err returns the outcome, or nil while the task is still running
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Wait blocks until the task completes or ctx is done. Giving up on the
// wait cancels the task and waits for it to unwind.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.Err()
	case <-ctx.Done():
		t.cancel()
		<-t.done
		if err := t.Err(); err != nil {
			return err
		}
		return docerrors.Cancelled("wait", ctx.Err())
	}
}
