package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRunnerSingleFlight(t *testing.T) {
	r := NewRunner("test")
	release := make(chan struct{})

	first, err := r.Go(context.Background(), func(ctx context.Context) error {
		<-release
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("first Go: %v", err)
	}
	if !r.Busy() {
		t.Fatalf("runner should be busy")
	}
	if _, err := r.Go(context.Background(), func(ctx context.Context) error { return nil }, nil); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Go err = %v, want ErrBusy", err)
	}

	close(release)
	if err := first.Wait(context.Background()); err != nil {
		t.Fatalf("first task err: %v", err)
	}

	again, err := r.Go(context.Background(), func(ctx context.Context) error { return errors.New("boom") }, nil)
	if err != nil {
		t.Fatalf("Go after completion: %v", err)
	}
	if err := again.Err(); err == nil || err.Error() != "boom" {
		t.Fatalf("Err() = %v, want boom", err)
	}
}

func TestRunnerRecoversPanic(t *testing.T) {
	r := NewRunner("panicky")
	var finals []error
	task, err := r.Go(context.Background(), func(ctx context.Context) error {
		panic("kaboom")
	}, func(err error) { finals = append(finals, err) })
	if err != nil {
		t.Fatalf("Go: %v", err)
	}
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task never finished")
	}
	if err := task.Err(); err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("Err() = %v", err)
	}
	if r.Busy() {
		t.Fatalf("runner should be idle after panic")
	}
	if len(finals) != 1 || finals[0] == nil {
		t.Fatalf("onDone calls = %v, want exactly one with the panic error", finals)
	}
}

func TestTaskWaitHonoursContext(t *testing.T) {
	r := NewRunner("slow")
	release := make(chan struct{})
	defer close(release)
	task, err := r.Go(context.Background(), func(ctx context.Context) error {
		<-release
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("Go: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := task.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait err = %v, want deadline exceeded", err)
	}
}
