package ecs

import (
	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
	"github.com/phoenix-sim/phoenix-core/internal/hashing"
	"github.com/phoenix-sim/phoenix-core/internal/task"
)

// System is a named, orderable unit that registers its query once and is
// scheduled every world update — the SystemJob-style registration pulled
// in from original_source's System.h/SystemJob.h (§[FULL] supplemented
// features), one level of ordering below the session's feature/channel
// list.
type System struct {
	Name   hashing.Name
	Query  *Query
	Update func(s *System, handle EntityHandle, list *List, dt fixedpoint.Fixed)
}

// SystemList holds systems in declaration order, the same
// ordered-registration idiom the session package uses for features.
type SystemList struct {
	systems []*System
}

// NewSystemList constructs an empty, ordered system list.
func NewSystemList() *SystemList { return &SystemList{} }

// Register appends s, preserving declaration order.
func (l *SystemList) Register(s *System) { l.systems = append(l.systems, s) }

// RunSequential dispatches every system's query sequentially over its
// matching entities, in declaration order.
func (l *SystemList) RunSequential(dt fixedpoint.Fixed) {
	for _, s := range l.systems {
		s.Query.Schedule(func(handle EntityHandle, list *List) {
			s.Update(s, handle, list, dt)
		})
	}
}

// RunParallel enqueues every system's matching lists as parallel jobs in
// queue's current group, in declaration order of systems (jobs within a
// system's own fan-out carry no ordering between each other, per spec.md
// §4.7's parallel dispatch form).
func (l *SystemList) RunParallel(queue *task.Queue, dt fixedpoint.Fixed) {
	for _, s := range l.systems {
		s.Query.ScheduleParallel(queue, func(list *List) {
			list.ForEachLive(func(slot int, entityID EntityID) {
				s.Update(s, EntityHandle{ListID: list.id, SlotIndex: slot, EntityID: entityID}, list, dt)
			})
		})
	}
}
