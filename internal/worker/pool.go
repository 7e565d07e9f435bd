package worker

import (
	"context"
	"sync"
)

// Job is one unit of eval work: typically a single model call plus
// scoring of its response.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job
type Result interface {
	GetError() error
}

// Pool fans eval jobs out over a fixed number of workers. Order of
// results is unspecified; callers carry their own indices in the
// results.
type Pool struct {
	workers   int
	jobs      chan Job
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool. Jobs run under a context derived from ctx,
// so caller timeouts and cancellation reach every Execute call. Fewer
// than one worker means one.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutines
func (p *Pool) Start() {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			select {
			case p.results <- job.Execute(p.ctx):
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. After Shutdown it returns without queuing.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Wait closes the queue, drains all results and returns them once
// every worker has finished.
func (p *Pool) Wait() []Result {
	close(p.jobs)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}
	return results
}

// Shutdown cancels in-flight jobs and stops the workers
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
