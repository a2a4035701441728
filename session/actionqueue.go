package session

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// MaxQueuedActions bounds the action queue, per §7's "capacity
// exhaustion never allocates" failure-kind discipline.
const MaxQueuedActions = 4096

// ActionQueue is Session's mutex-guarded pending-action buffer, per
// spec.md §4.3/§5 ("the action-queue mutex is acquired twice per tick:
// append and drain").
type ActionQueue struct {
	mu      sync.Mutex
	pending []Action
}

// NewActionQueue constructs an empty queue.
func NewActionQueue() *ActionQueue {
	return &ActionQueue{pending: make([]Action, 0, MaxQueuedActions)}
}

// Queue timestamps a at simTime+1 and appends it, per
// `Session::queue_action`. Returns false if the queue is full.
func (q *ActionQueue) Queue(a Action, simTime int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) >= MaxQueuedActions {
		logrus.Warnf("session: action queue full (%d), dropping verb %q", MaxQueuedActions, a.Verb)
		return false
	}
	a.Timestamp = simTime + 1
	q.pending = append(q.pending, a)
	return true
}

// Drain sorts the queue by timestamp (stable, so ties preserve enqueue
// order per §5's ordering guarantee), then splits off every entry whose
// timestamp equals simTime for dispatch. Entries with a timestamp
// strictly less than simTime are dropped with a warning — the §9 Open
// Question resolved as "drop with a logged warning" in DESIGN.md.
func (q *ActionQueue) Drain(simTime int64) []Action {
	q.mu.Lock()
	defer q.mu.Unlock()

	sort.SliceStable(q.pending, func(i, j int) bool {
		return q.pending[i].Timestamp < q.pending[j].Timestamp
	})

	var due []Action
	var remaining []Action
	for _, a := range q.pending {
		switch {
		case a.Timestamp < simTime:
			logrus.Warnf("session: dropping action %q timestamped %d, sim_time already at %d", a.Verb, a.Timestamp, simTime)
		case a.Timestamp == simTime:
			due = append(due, a)
		default:
			remaining = append(remaining, a)
		}
	}
	q.pending = remaining
	return due
}
