// Package task implements the thread pool and per-world task queue that
// back the simulation's data-parallel work: channel dispatch stays strictly
// sequential (session package), but a feature handler may fan out through
// this package's Queue to the shared Pool.
package task

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/phoenix-sim/phoenix-core/internal/container"
	"github.com/sirupsen/logrus"
)

// Func is a unit of work submitted to the pool.
type Func func()

// Handle lets a submitter poll or wait for a submitted task's completion.
type Handle struct {
	done atomic.Bool
	wg   *sync.WaitGroup
}

// IsCompleted reports whether the task has finished running.
func (h *Handle) IsCompleted() bool { return h.done.Load() }

// WaitForCompleted blocks up to maxWait for the task to finish, returning
// false on timeout. It does not cancel the task — per spec.md §5, this
// system has no cancellation primitive.
func (h *Handle) WaitForCompleted(maxWait time.Duration) bool {
	ch := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(ch)
	}()
	select {
	case <-ch:
		return true
	case <-time.After(maxWait):
		return false
	}
}

type job struct {
	fn     Func
	handle *Handle
}

// Pool is a fixed-size worker pool draining a bounded MPMC queue. Workers
// back off on an empty queue with exponential pause up to spinLimit
// iterations, then yield to the OS scheduler, per spec.md §4.6.
type Pool struct {
	queue   *container.MPMCQueue[job]
	done    atomic.Bool
	wg      sync.WaitGroup
}

const spinLimit = 256

// NewPool starts numWorkers goroutines draining a bounded queue of the
// given capacity (rounded up to a power of two by the MPMC queue).
func NewPool(numWorkers, queueCapacity int) *Pool {
	p := &Pool{queue: container.NewMPMCQueue[job](queueCapacity)}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.workerLoop()
	}
	return p
}

func (p *Pool) workerLoop() {
	defer p.wg.Done()
	backoff := 1
	for {
		j, ok := p.queue.Dequeue()
		if !ok {
			if p.done.Load() {
				return
			}
			spin(backoff)
			if backoff < spinLimit {
				backoff *= 2
			} else {
				runtimeGosched()
			}
			continue
		}
		backoff = 1
		j.fn()
		j.handle.done.Store(true)
		j.handle.wg.Done()
	}
}

// spin busy-waits for n iterations — cheap yield-free backoff for short
// queue-empty windows.
func spin(n int) {
	for i := 0; i < n; i++ {
	}
}

// Submit enqueues fn and returns its Handle. If the queue is full the
// submission is dropped with a warning logged on every drop (spec.md §7's
// capacity-exhaustion policy), and the returned Handle is already marked
// complete.
func (p *Pool) Submit(fn Func) *Handle {
	var wg sync.WaitGroup
	wg.Add(1)
	h := &Handle{wg: &wg}
	if !p.queue.Enqueue(job{fn: fn, handle: h}) {
		logrus.Warnf("task: pool queue full, dropping submission")
		h.done.Store(true)
		wg.Done()
		return h
	}
	return h
}

// WaitIdle blocks up to maxWait for the pool's queue to drain, returning
// false on timeout. Does not stop new submissions from refilling it.
func (p *Pool) WaitIdle(maxWait time.Duration) bool {
	deadline := time.Now().Add(maxWait)
	for time.Now().Before(deadline) {
		if !p.queue.IsEmpty() {
			time.Sleep(time.Millisecond)
			continue
		}
		return true
	}
	return false
}

// Shutdown signals workers to exit once the queue drains and waits for them.
func (p *Pool) Shutdown() {
	p.done.Store(true)
	p.wg.Wait()
}

func runtimeGosched() {
	// A tiny sleep stands in for runtime.Gosched()+OS yield; avoids an
	// extra import purely for this one call while keeping the same
	// "actually give up the P" intent.
	time.Sleep(time.Microsecond)
}
