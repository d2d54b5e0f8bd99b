// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package parallel splits per-particle work across a fixed set of goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// MinChunk is the smallest range handed to a single worker by Range. Below
// it the goroutine handoff costs more than the work.
const MinChunk = 1024

// Pool is a fixed set of worker goroutines fed from one shared queue.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	jobs    chan func()
	wg      sync.WaitGroup
	running atomic.Bool
	mu      sync.RWMutex
}

// NewPool starts a pool with the given number of workers. If workers is 0 or
// negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: workers,
		jobs:    make(chan func(), workers*4),
	}
	p.running.Store(true)
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// Running reports whether the pool still accepts work.
func (p *Pool) Running() bool { return p.running.Load() }

// ExecuteAll runs every item of work and waits for all of them. On a closed
// pool the items run on the calling goroutine.
func (p *Pool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running.Load() {
		for _, fn := range work {
			fn()
		}
		return
	}

	var done sync.WaitGroup
	done.Add(len(work))
	for _, fn := range work {
		p.jobs <- func() {
			defer done.Done()
			fn()
		}
	}
	done.Wait()
}

// Range calls fn over [0, n) split into contiguous [lo, hi) chunks of at
// least MinChunk elements, one chunk per worker at most, and waits for every
// chunk. A range that fits in one chunk runs on the calling goroutine.
func (p *Pool) Range(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	chunks := min(p.workers, (n+MinChunk-1)/MinChunk)
	if chunks <= 1 {
		fn(0, n)
		return
	}

	size := (n + chunks - 1) / chunks
	work := make([]func(), 0, chunks)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		work = append(work, func() { fn(lo, hi) })
	}
	p.ExecuteAll(work)
}

// Close stops the workers after the queued work drains. It is safe to call
// more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
