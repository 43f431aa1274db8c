package worker

import (
	"context"
	"log"
	"runtime"
	"sync"

	"qr-code-viewer/candidate"
	"qr-code-viewer/decode"
)

// ResultCallback is invoked on decode completion (from a worker goroutine).
// The event loop should pass a closure that posts back into the loop safely.
// A non-nil err means the run was cancelled and the outcome must be dropped.
type ResultCallback func(out decode.Outcome, err error)

// Runner executes the decode pipeline for one candidate.
type Runner func(ctx context.Context, c *candidate.Candidate, opts decode.Options) (decode.Outcome, error)

// Pool is a fixed-size decode worker pool with a 1-slot input queue
// (strict back-pressure).
type Pool struct {
	jobs   chan job
	runner Runner
	wg     sync.WaitGroup
}

type job struct {
	ctx  context.Context
	cand *candidate.Candidate
	opts decode.Options
	cb   ResultCallback
}

// New creates a worker pool. Size defaults to NumCPU when size<=0. Queue is 1 slot.
func New(size int) *Pool {
	return NewWithRunner(size, decode.Run)
}

// NewWithRunner creates a pool with a custom pipeline function.
func NewWithRunner(size int, runner Runner) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{jobs: make(chan job, 1), runner: runner}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				log.Printf("Worker: starting decode for %q (%d bytes)", j.cand.Filename, j.cand.Size)
				out, err := p.runWithContext(j.ctx, j.cand, j.opts)
				log.Printf("Worker: decode completed, status=%v, err=%v", out.Status, err)
				j.cb(out, err)
			}
		}()
	}
}

// Submit enqueues a decode job if the single-slot queue is free. Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, c *candidate.Candidate, opts decode.Options, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, cand: c, opts: opts, cb: cb}:
		return true
	default:
		return false
	}
}

// SubmitWait enqueues a decode job, waiting for the queue slot to free up
// until ctx is done. Returns false only when ctx ends first.
func (p *Pool) SubmitWait(ctx context.Context, c *candidate.Candidate, opts decode.Options, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, cand: c, opts: opts, cb: cb}:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

// runWithContext runs the pipeline, returning early when the deadline fires.
// The pipeline itself checks ctx at its continuation points; this shim only
// covers a reader that outlives the deadline.
func (p *Pool) runWithContext(ctx context.Context, c *candidate.Candidate, opts decode.Options) (decode.Outcome, error) {
	if _, ok := ctx.Deadline(); !ok {
		return p.runner(ctx, c, opts)
	}
	resCh := make(chan struct {
		out decode.Outcome
		err error
	}, 1)
	go func() {
		out, err := p.runner(ctx, c, opts)
		resCh <- struct {
			out decode.Outcome
			err error
		}{out, err}
	}()
	select {
	case r := <-resCh:
		return r.out, r.err
	case <-ctx.Done():
		// Let the underlying decode finish in the background; report timeout.
		return decode.Outcome{}, ctx.Err()
	}
}
