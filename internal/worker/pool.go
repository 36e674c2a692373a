// Package worker provides the concurrency primitives for the indexing
// path: a bounded job pool, batch embedding on top of it, and a
// per-domain rate limiter for outbound scraping.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work, typically one embedding batch.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job.
type Result interface {
	GetError() error
}

// Pool executes jobs on a fixed number of workers. It is single-use:
// build one, call Process, discard it.
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a pool with the given number of workers. Fewer than
// one worker is clamped to one.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		results:    make(chan Result, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

func (p *Pool) start() {
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

func (p *Pool) submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobQueue <- job:
	}
}

// Process runs a fixed job list to completion and returns all results.
// Jobs are fed from a separate goroutine while results are drained, so
// the job list may be much larger than the channel buffers. Cancelling
// ctx stops the pool early.
func (p *Pool) Process(ctx context.Context, jobs []Job) []Result {
	p.start()

	stop := context.AfterFunc(ctx, p.cancelFunc)
	defer stop()

	go func() {
		for _, job := range jobs {
			p.submit(job)
		}
		close(p.jobQueue)
	}()

	go func() {
		p.wg.Wait()
		p.closeOnce.Do(func() {
			close(p.results)
		})
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}
	return results
}
