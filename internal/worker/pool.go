// Package worker runs independent document jobs on a bounded set of
// goroutines and throttles repeated rebuilds.
package worker

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Job is one unit of document work.
type Job interface {
	// Name identifies the job in results, usually the input path.
	Name() string
	Execute(ctx context.Context) error
}

// Result is the outcome of one job.
type Result struct {
	Index    int // submission order
	Name     string
	Duration time.Duration
	Err      error
}

type task struct {
	index int
	job   Job
}

// Pool runs jobs on a fixed number of goroutines.
type Pool struct {
	size    int
	queue   chan task
	done    *ResultCollector
	queued  int
	running sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	closed  sync.Once
}

// NewPool creates a pool of size workers bound to ctx. Sizes below one
// become one.
func NewPool(ctx context.Context, size int) *Pool {
	size = max(size, 1)
	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		size:   size,
		queue:  make(chan task, size*2),
		done:   NewResultCollector(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	p.running.Add(p.size)
	for range p.size {
		go p.loop()
	}
}

func (p *Pool) loop() {
	defer p.running.Done()
	for {
		var t task
		select {
		case <-p.ctx.Done():
			return
		case next, ok := <-p.queue:
			if !ok {
				return
			}
			t = next
		}
		p.done.Add(p.execute(t))
	}
}

func (p *Pool) execute(t task) Result {
	started := time.Now()
	err := t.job.Execute(p.ctx)
	return Result{Index: t.index, Name: t.job.Name(), Duration: time.Since(started), Err: err}
}

// Submit queues a job. It must not be called concurrently with itself or
// after Wait. Jobs submitted after Shutdown are dropped.
func (p *Pool) Submit(job Job) {
	t := task{index: p.queued, job: job}
	p.queued++
	select {
	case p.queue <- t:
	case <-p.ctx.Done():
	}
}

// Wait lets the queued jobs finish and returns their results in submission
// order. Jobs dropped by cancellation have no result.
func (p *Pool) Wait() []Result {
	p.closed.Do(func() { close(p.queue) })
	p.running.Wait()
	p.cancel()
	return p.done.Results()
}

// Shutdown cancels running jobs and stops the workers. The queue stays
// open so a late Submit returns instead of panicking.
func (p *Pool) Shutdown() {
	p.cancel()
	p.running.Wait()
}

// ResultCollector gathers results from concurrent workers.
type ResultCollector struct {
	mu      sync.Mutex
	results []Result
}

func NewResultCollector() *ResultCollector {
	return &ResultCollector{}
}

func (c *ResultCollector) Add(r Result) {
	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
}

// Results returns a copy of the collected results in submission order.
func (c *ResultCollector) Results() []Result {
	c.mu.Lock()
	out := slices.Clone(c.results)
	c.mu.Unlock()
	if out == nil {
		out = []Result{}
	}
	slices.SortFunc(out, func(a, b Result) int { return a.Index - b.Index })
	return out
}
