// Package parallel splits per-pixel work into horizontal bands and runs the
// bands on a fixed set of goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// minBandRows keeps bands large enough that scheduling stays cheap compared
// to the work inside them.
const minBandRows = 16

// Pool is a fixed set of worker goroutines.
//
// Thread safety: Pool is safe for concurrent use. Close must not race with
// Rows.
type Pool struct {
	workers int
	work    chan func()
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: workers,
		work:    make(chan func(), workers*4),
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
	for fn := range p.work {
		fn()
	}
}

// Rows calls fn for consecutive row bands [y0, y1) covering [0, height) and
// returns when every call has finished. Bands never overlap.
//
// Small heights, single-worker pools and closed pools run fn once on the
// calling goroutine.
func (p *Pool) Rows(height int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	bands := min(p.workers, height/minBandRows)
	if bands <= 1 || !p.running.Load() {
		fn(0, height)
		return
	}

	var done sync.WaitGroup
	done.Add(bands)
	for i := range bands {
		y0 := height * i / bands
		y1 := height * (i + 1) / bands
		p.work <- func() {
			defer done.Done()
			fn(y0, y1)
		}
	}
	done.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// Close stops the workers after the queued bands finish.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.work)
	p.wg.Wait()
}
