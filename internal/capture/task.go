package capture

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Result is the outcome of one capture task.
type Result struct {
	Ref ImageRef
	Err error
}

// Task is a single in-flight capture. It runs the capability on its own
// goroutine and can be cancelled at any time; the result is only readable once
// Done is closed.
type Task struct {
	id        uint64
	invokedAt time.Time
	cancel    context.CancelFunc
	done      chan struct{}
	result    Result
}

var taskSeq atomic.Uint64

// Start launches c under a context derived from ctx. A positive timeout bounds
// the request. invokedAt is recorded for callers that derive data from the
// moment the capture was asked for.
func Start(ctx context.Context, c Capability, timeout time.Duration, invokedAt time.Time) *Task {
	var runCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	t := &Task{
		id:        taskSeq.Add(1),
		invokedAt: invokedAt,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go t.run(runCtx, c)
	return t
}

func (t *Task) run(ctx context.Context, c Capability) {
	defer close(t.done)
	defer t.cancel()
	defer func() {
		if r := recover(); r != nil {
			t.result = Result{Err: fmt.Errorf("capture: capability panicked: %v", r)}
		}
	}()
	ref, err := c.Request(ctx)
	t.result = Result{Ref: ref, Err: err}
}

// ID is a process-unique task number, handy for logs.
func (t *Task) ID() uint64 { return t.id }

// InvokedAt is the time passed to Start.
func (t *Task) InvokedAt() time.Time { return t.invokedAt }

// Cancel asks the capability to stop. It does not wait.
func (t *Task) Cancel() { t.cancel() }

// Done is closed once the capability has returned.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the capability returns and yields its result.
func (t *Task) Wait() Result {
	<-t.done
	return t.result
}

// Await is Wait bounded by ctx. If ctx ends first the task is cancelled and
// ctx's error is returned.
func (t *Task) Await(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		t.cancel()
		return Result{}, ctx.Err()
	}
}
