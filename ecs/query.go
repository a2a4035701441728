package ecs

import (
	"github.com/phoenix-sim/phoenix-core/internal/container"
	"github.com/phoenix-sim/phoenix-core/internal/task"
)

// maxQueryTerms bounds how many component ids a single inclusion set
// (AllOf/AnyOf/NoneOf) may carry — queries are declared once at feature
// init and never grow at runtime, so a generous fixed cap costs nothing.
const maxQueryTerms = 32

// Query is a filter over archetype definitions, carrying three inclusion
// sets (AllOf, AnyOf, NoneOf) over component ids, per spec.md §4.7.
type Query struct {
	manager *Manager
	allOf   *container.Set[ComponentID]
	anyOf   *container.Set[ComponentID]
	noneOf  *container.Set[ComponentID]
}

// NewQuery starts an empty query (matches every archetype) bound to m.
func NewQuery(m *Manager) *Query {
	return &Query{
		manager: m,
		allOf:   container.NewSet[ComponentID](maxQueryTerms),
		anyOf:   container.NewSet[ComponentID](maxQueryTerms),
		noneOf:  container.NewSet[ComponentID](maxQueryTerms),
	}
}

// RequireAll adds ids to the AllOf set. Returns q for chaining
// (Entities().RequireAll(A, B).RequireAny(C)).
func (q *Query) RequireAll(ids ...ComponentID) *Query {
	for _, id := range ids {
		q.allOf.Add(id)
	}
	return q
}

// RequireAny adds ids to the AnyOf set.
func (q *Query) RequireAny(ids ...ComponentID) *Query {
	for _, id := range ids {
		q.anyOf.Add(id)
	}
	return q
}

// Exclude adds ids to the NoneOf set.
func (q *Query) Exclude(ids ...ComponentID) *Query {
	for _, id := range ids {
		q.noneOf.Add(id)
	}
	return q
}

// PassesFilter reports whether def matches q's inclusion sets: NoneOf must
// be disjoint from def's components, AnyOf must be empty or intersect,
// AllOf must be a subset, per spec.md §4.7.
func (q *Query) PassesFilter(def ArchetypeDef) bool {
	defIDs := container.NewSet[ComponentID](len(def.Members) + 1)
	for _, m := range def.Members {
		defIDs.Add(m.ID)
	}
	if !defIDs.IsDisjoint(q.noneOf) {
		return false
	}
	if !q.anyOf.IsEmpty() && !defIDs.Intersects(q.anyOf) {
		return false
	}
	if !q.allOf.IsSubsetOf(defIDs) {
		return false
	}
	return true
}

func (q *Query) matchingLists() []*List {
	var out []*List
	for _, l := range q.manager.Lists() {
		if q.PassesFilter(l.Def()) {
			out = append(out, l)
		}
	}
	return out
}

// EntityVisitor is called once per live entity matched by a query.
type EntityVisitor func(handle EntityHandle, list *List)

// Schedule iterates every matching list's live slots sequentially, in
// list-then-slot order, per spec.md §4.7's sequential dispatch form.
func (q *Query) Schedule(fn EntityVisitor) {
	for _, list := range q.matchingLists() {
		list.ForEachLive(func(slot int, entityID EntityID) {
			fn(EntityHandle{ListID: list.id, SlotIndex: slot, EntityID: entityID}, list)
		})
	}
}

// ListVisitor processes one entire matching archetype list's span — the
// unit of work the parallel form schedules, per spec.md §4.7.
type ListVisitor func(list *List)

// ScheduleParallel enqueues one task per matching list into q's task
// queue, per spec.md §4.7: "enqueues one task per matching list into the
// world task queue; each task processes its list's span." Jobs within the
// same enqueue (task.Queue's current group) run concurrently with no
// ordering guarantee between them — callers must not register two
// parallel queries in the same group that mutably alias the same
// component on the same archetype (§9's documented, not-runtime-enforced
// discipline).
func (q *Query) ScheduleParallel(queue *task.Queue, fn ListVisitor) {
	for _, list := range q.matchingLists() {
		list := list
		queue.Enqueue(func() { fn(list) })
	}
}
