package task

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolSubmitExecutes(t *testing.T) {
	p := NewPool(2, 16)
	defer p.Shutdown()

	var ran atomic.Bool
	h := p.Submit(func() { ran.Store(true) })
	if !h.WaitForCompleted(time.Second) {
		t.Fatal("task did not complete in time")
	}
	if !ran.Load() {
		t.Fatal("task function did not run")
	}
}

func TestPoolWaitIdle(t *testing.T) {
	p := NewPool(2, 16)
	defer p.Shutdown()

	var count atomic.Int32
	for i := 0; i < 8; i++ {
		p.Submit(func() { count.Add(1) })
	}
	if !p.WaitIdle(time.Second) {
		t.Fatal("pool did not go idle in time")
	}
	if count.Load() != 8 {
		t.Fatalf("count = %d, want 8", count.Load())
	}
}

func TestQueueFlushRunsGroupsInOrder(t *testing.T) {
	p := NewPool(4, 64)
	defer p.Shutdown()
	q := NewQueue(p)

	var order []int
	ch := make(chan int, 16)
	for i := 0; i < 4; i++ {
		i := i
		q.Enqueue(func() { ch <- i })
	}
	q.BeginGroup()
	for i := 4; i < 8; i++ {
		i := i
		q.Enqueue(func() { ch <- i })
	}
	q.Flush()
	close(ch)
	for v := range ch {
		order = append(order, v)
	}
	if len(order) != 8 {
		t.Fatalf("expected 8 results, got %d", len(order))
	}
	// Within-group order is not guaranteed, but every first-group result
	// (0..3) must appear before BeginGroup's barrier releases; since Flush
	// waits for each group before submitting the next, a simple count
	// check per half suffices here.
	firstHalf, secondHalf := 0, 0
	for i, v := range order {
		if i < 4 {
			if v < 4 {
				firstHalf++
			}
		} else if v >= 4 {
			secondHalf++
		}
	}
	if firstHalf != 4 || secondHalf != 4 {
		t.Fatalf("groups interleaved unexpectedly: %v", order)
	}
}

func TestScheduleParallelRangeCoversAllIndices(t *testing.T) {
	p := NewPool(4, 64)
	defer p.Shutdown()
	q := NewQueue(p)

	var hits [100]atomic.Int32
	ScheduleParallelRange(q, 100, 10, 4, func(start, end int) {
		for i := start; i < end; i++ {
			hits[i].Add(1)
		}
	})
	q.Flush()

	for i, h := range hits {
		if h.Load() != 1 {
			t.Fatalf("index %d hit %d times, want 1", i, h.Load())
		}
	}
}
