package task

import "time"

// Queue owns ordered groups of tasks for one world. Enqueue adds to the
// current group; BeginGroup starts a new one. Flush submits groups to the
// pool sequentially, blocking the caller between groups until the
// previously submitted group's handles all complete — establishing a
// happens-before barrier between channel phases without cross-group
// dependency tracking, per spec.md §4.6.
type Queue struct {
	pool        *Pool
	groups      [][]Func
	flushWait   time.Duration
}

// NewQueue constructs an empty per-world task queue bound to pool.
func NewQueue(pool *Pool) *Queue {
	return &Queue{pool: pool, groups: [][]Func{{}}, flushWait: time.Second}
}

// Enqueue adds fn to the current group.
func (q *Queue) Enqueue(fn Func) {
	last := len(q.groups) - 1
	q.groups[last] = append(q.groups[last], fn)
}

// BeginGroup starts a new group boundary. Calling it on an empty current
// group is a no-op (avoids emitting empty groups from repeated calls).
func (q *Queue) BeginGroup() {
	if len(q.groups[len(q.groups)-1]) == 0 {
		return
	}
	q.groups = append(q.groups, []Func{})
}

// EndGroup is an alias for BeginGroup — the two exist as separate spellings
// because callers naturally write either "BeginGroup() ... tasks ...
// BeginGroup()" or "... tasks ... EndGroup() ... tasks ...", and spec.md
// names both.
func (q *Queue) EndGroup() { q.BeginGroup() }

// Flush submits every group in enqueue order, blocking between groups for
// the previous group's tasks to complete, then clears the queue for the
// next channel phase. Each handle is waited on for at most flushWait (one
// second); a task still running after that does not hold back the next
// group.
func (q *Queue) Flush() {
	for _, group := range q.groups {
		if len(group) == 0 {
			continue
		}
		handles := make([]*Handle, 0, len(group))
		for _, fn := range group {
			handles = append(handles, q.pool.Submit(fn))
		}
		for _, h := range handles {
			h.WaitForCompleted(q.flushWait)
		}
	}
	q.groups = [][]Func{{}}
}

// ScheduleParallelRange partitions [0,total) into chunks of at least
// minChunk elements, targeting roughly one chunk per submission, and
// enqueues each chunk as a task in the queue's current group. f receives
// the half-open [start,end) range to process.
func ScheduleParallelRange(q *Queue, total, minChunk int, numWorkers int, f func(start, end int)) {
	if total <= 0 {
		return
	}
	if minChunk < 1 {
		minChunk = 1
	}
	chunks := numWorkers
	if chunks < 1 {
		chunks = 1
	}
	chunkSize := total / chunks
	if chunkSize < minChunk {
		chunkSize = minChunk
	}
	for start := 0; start < total; start += chunkSize {
		end := start + chunkSize
		if end > total {
			end = total
		}
		s, e := start, end
		q.Enqueue(func() { f(s, e) })
	}
}
