package worker

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type countingJob struct {
	id      string
	counter *int64
	done    *sync.WaitGroup
}

func (j *countingJob) Execute(ctx context.Context) error {
	atomic.AddInt64(j.counter, 1)
	j.done.Done()
	return nil
}

func (j *countingJob) ID() string { return j.id }

func TestDispatcherRunsSubmittedJobs(t *testing.T) {
	d := NewDispatcher(3, 10, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Run(ctx)

	var counter int64
	var done sync.WaitGroup
	done.Add(5)
	for i := 0; i < 5; i++ {
		if !d.SubmitJob(&countingJob{id: "job", counter: &counter, done: &done}) {
			t.Fatal("submit rejected with queue capacity available")
		}
	}

	waitCh := make(chan struct{})
	go func() {
		done.Wait()
		close(waitCh)
	}()
	select {
	case <-waitCh:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs did not complete in time")
	}
	if got := atomic.LoadInt64(&counter); got != 5 {
		t.Fatalf("expected 5 executions, got %d", got)
	}
	d.Stop()
}

func TestDispatcherRejectsWhenQueueFull(t *testing.T) {
	// No workers running, so nothing drains the queue.
	d := NewDispatcher(1, 1, testLogger())

	var counter int64
	var done sync.WaitGroup
	done.Add(1)
	if !d.SubmitJob(&countingJob{id: "first", counter: &counter, done: &done}) {
		t.Fatal("first submit should fit in the queue")
	}
	if d.SubmitJob(&countingJob{id: "second", counter: &counter, done: &done}) {
		t.Fatal("second submit should be rejected")
	}
}
