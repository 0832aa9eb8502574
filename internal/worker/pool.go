package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned when submitting to a pool that no longer accepts jobs
var ErrPoolClosed = errors.New("worker pool closed")

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool manages a pool of workers that execute jobs concurrently
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	queueOnce  sync.Once
}

// NewPool creates a pool bound to parent; cancelling parent stops the workers
func NewPool(parent context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(parent)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		results:    make(chan Result, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It blocks while the queue is full and fails once the
// pool's context is done.
func (p *Pool) Submit(job Job) error {
	if p.ctx.Err() != nil {
		return ErrPoolClosed
	}

	select {
	case <-p.ctx.Done():
		return ErrPoolClosed
	case p.jobQueue <- job:
		return nil
	}
}

// Results exposes the result stream; it is closed once all workers exit
func (p *Pool) Results() <-chan Result {
	return p.results
}

// CloseQueue signals that no more jobs will be submitted
func (p *Pool) CloseQueue() {
	p.queueOnce.Do(func() {
		close(p.jobQueue)
	})

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()
}

// Wait closes the queue, waits for all jobs and returns their results
func (p *Pool) Wait() []Result {
	p.CloseQueue()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}

	p.cancelFunc()
	return results
}

// Shutdown stops the workers without draining the queue
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
