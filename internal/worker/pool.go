// Package worker provides the dispatcher/worker pool the processor runs
// background jobs on. Workers register a personal job channel with the pool;
// the dispatcher hands each queued job to the next free worker.
package worker

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Job is a unit of background work.
type Job interface {
	Execute(ctx context.Context) error
	ID() string
}

// Worker pulls jobs from its own channel and runs them.
type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job
	Quit       chan struct{}
	Logger     *logrus.Logger
	wg         *sync.WaitGroup
}

// NewWorker creates a worker registered against the given pool.
func NewWorker(id int, workerPool chan chan Job, logger *logrus.Logger, wg *sync.WaitGroup) Worker {
	return Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Quit:       make(chan struct{}),
		Logger:     logger,
		wg:         wg,
	}
}

// Start makes the worker listen for jobs on its JobChannel until stopped.
func (w Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			// Re-register for the next job.
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Infof("Worker %d: started job %s", w.ID, job.ID())
				if err := job.Execute(ctx); err != nil {
					w.Logger.Errorf("Worker %d: job %s failed: %v", w.ID, job.ID(), err)
				} else {
					w.Logger.Infof("Worker %d: finished job %s", w.ID, job.ID())
				}
			case <-w.Quit:
				w.Logger.Infof("Worker %d: stopping", w.ID)
				return
			case <-ctx.Done():
				w.Logger.Infof("Worker %d: context cancelled, stopping", w.ID)
				return
			}
		}
	}()
}

// Stop signals the worker to exit after its current job.
func (w Worker) Stop() {
	close(w.Quit)
}

// Dispatcher owns the job queue and the worker pool.
type Dispatcher struct {
	MaxWorkers int
	WorkerPool chan chan Job
	JobQueue   chan Job
	Workers    []Worker
	Logger     *logrus.Logger
	wg         sync.WaitGroup
	quit       chan struct{}
}

// NewDispatcher creates a dispatcher with maxWorkers workers and a buffered
// queue of jobQueueSize jobs.
func NewDispatcher(maxWorkers, jobQueueSize int, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		MaxWorkers: maxWorkers,
		WorkerPool: make(chan chan Job, maxWorkers),
		JobQueue:   make(chan Job, jobQueueSize),
		Workers:    make([]Worker, 0, maxWorkers),
		Logger:     logger,
		quit:       make(chan struct{}),
	}
}

// Run starts the workers and the dispatch loop.
func (d *Dispatcher) Run(ctx context.Context) {
	d.Logger.Infof("Dispatcher starting with %d workers", d.MaxWorkers)
	for i := 1; i <= d.MaxWorkers; i++ {
		w := NewWorker(i, d.WorkerPool, d.Logger, &d.wg)
		d.Workers = append(d.Workers, w)
		w.Start(ctx)
	}
	go d.dispatch()
}

func (d *Dispatcher) dispatch() {
	for {
		select {
		case job := <-d.JobQueue:
			// Hand the job to the next free worker without blocking the
			// dispatch loop.
			go func(job Job) {
				jobChannel := <-d.WorkerPool
				jobChannel <- job
			}(job)
		case <-d.quit:
			d.Logger.Info("Dispatcher: stopping dispatch loop")
			return
		}
	}
}

// SubmitJob queues a job. Returns false when the queue is full.
func (d *Dispatcher) SubmitJob(job Job) bool {
	select {
	case d.JobQueue <- job:
		d.Logger.Infof("Dispatcher: job %s queued", job.ID())
		return true
	default:
		d.Logger.Warnf("Dispatcher: queue full, job %s rejected", job.ID())
		return false
	}
}

// Stop shuts the dispatcher down, waiting for in-flight jobs to finish.
func (d *Dispatcher) Stop() {
	d.Logger.Info("Dispatcher: shutting down")
	close(d.quit)
	for _, w := range d.Workers {
		w.Stop()
	}
	d.wg.Wait()
	d.Logger.Info("Dispatcher: all workers stopped")
}
