package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrBusy is returned when a task of the same kind is still running.
var ErrBusy = errors.New("operation already in progress")

// Task is a handle to one background operation. Done is closed exactly
// once, after the task body has returned or panicked.
type Task struct {
	done chan struct{}
	err  error
}

// Done returns a channel closed when the task finishes.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err returns the task's error. It is valid only after Done is closed.
func (t *Task) Err() error {
	<-t.done
	return t.err
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Runner admits at most one in-flight task (strict back-pressure, no
// queue). Each operation kind owns its own Runner.
type Runner struct {
	name    string
	mu      sync.Mutex
	current *Task
}

// NewRunner returns an idle runner; name is used in logs.
func NewRunner(name string) *Runner {
	return &Runner{name: name}
}

// Busy reports whether a task is running.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}

// Go starts fn on a new goroutine unless a task is already running, in
// which case it returns ErrBusy. A panic in fn becomes the task's error.
// onDone, if set, runs exactly once with that error before the runner
// accepts new work and before Done is closed.
func (r *Runner) Go(ctx context.Context, fn func(ctx context.Context) error, onDone func(error)) (*Task, error) {
	r.mu.Lock()
	if r.current != nil {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	t := &Task{done: make(chan struct{})}
	r.current = t
	r.mu.Unlock()

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("worker %s: recovered panic: %v", r.name, rec)
				t.err = fmt.Errorf("%s: panic: %v", r.name, rec)
			}
			if onDone != nil {
				onDone(t.err)
			}
			r.mu.Lock()
			r.current = nil
			r.mu.Unlock()
			close(t.done)
		}()
		t.err = fn(ctx)
	}()
	return t, nil
}
