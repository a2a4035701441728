package ecs

import (
	"github.com/phoenix-sim/phoenix-core/internal/hashing"
	"github.com/sirupsen/logrus"
)

// Manager is the per-world EntityManager: archetype registry, the set of
// archetype lists currently in use, and entity-id bookkeeping. Archetype
// lists are allocated directly rather than through internal/container's
// ChunkAllocator — a list's row width varies per archetype definition, so
// the chunk allocator's homogeneous-chunk contract doesn't fit; the tag
// pool (tags.go) is the component that actually uses ChunkAllocator, per
// spec.md §4.7's tag-pool description.
type Manager struct {
	defs        *DefRegistry
	lists       map[hashing.Name]*List // keyed by ArchetypeDef.ID
	nextListID  uint32
	maxEntities int
	nextSlot    int
	generation  []uint32
	freeSlots   []int
}

// NewManager constructs a Manager with room for maxEntities live entity
// ids and backed by defs for archetype lookup.
func NewManager(maxEntities int, defs *DefRegistry) *Manager {
	return &Manager{
		defs:        defs,
		lists:       make(map[hashing.Name]*List),
		maxEntities: maxEntities,
		generation:  make([]uint32, maxEntities),
	}
}

// AllocateEntityID hands out a fresh EntityID encoding a physical slot in
// its low bits (id % MaxEntities == slot) and a generation counter in the
// quotient, so that stale handles referencing a reused slot compare
// unequal to the slot's new occupant. Returns InvalidEntity if every slot
// is in use.
func (m *Manager) AllocateEntityID() EntityID {
	var slot int
	if n := len(m.freeSlots); n > 0 {
		slot = m.freeSlots[n-1]
		m.freeSlots = m.freeSlots[:n-1]
	} else if m.nextSlot < m.maxEntities {
		slot = m.nextSlot
		m.nextSlot++
	} else {
		logrus.Warnf("ecs: entity id pool exhausted at capacity %d", m.maxEntities)
		return InvalidEntity
	}
	m.generation[slot]++
	id := EntityID(uint32(slot) + m.generation[slot]*uint32(m.maxEntities))
	if id == InvalidEntity {
		id = EntityID(uint32(slot) + (m.generation[slot]+1)*uint32(m.maxEntities))
		m.generation[slot]++
	}
	return id
}

// FreeEntityID returns id's physical slot to the free pool. Call only
// after Release has torn down its archetype row.
func (m *Manager) FreeEntityID(id EntityID) {
	if !id.IsValid() {
		return
	}
	slot := int(uint32(id) % uint32(m.maxEntities))
	m.freeSlots = append(m.freeSlots, slot)
}

func (m *Manager) listFor(def ArchetypeDef) *List {
	if l, ok := m.lists[def.ID]; ok {
		return l
	}
	l := NewList(m.nextListID, def, m.maxEntities)
	m.nextListID++
	m.lists[def.ID] = l
	return l
}

// Acquire implements spec.md §4.7's three-step EntityManager.Acquire:
// look up kind's archetype, find-or-allocate its list, allocate a slot and
// default-construct its components. Returns an invalid handle if kind is
// unregistered or the list is full.
func (m *Manager) Acquire(entityID EntityID, kind hashing.Name) (EntityHandle, bool) {
	def, ok := m.defs.Lookup(kind)
	if !ok {
		return EntityHandle{}, false
	}
	list := m.listFor(def)
	slot := list.AllocateSlot(entityID)
	if slot < 0 {
		logrus.Warnf("ecs: archetype list for kind %s is full", kind)
		return EntityHandle{}, false
	}
	return EntityHandle{ListID: list.id, SlotIndex: slot, EntityID: entityID}, true
}

// Release validates handle against its owning list and tears down the
// entity's row, per spec.md §4.7's Release semantics. Returns false on a
// stale or unknown handle.
func (m *Manager) Release(handle EntityHandle) bool {
	list := m.listByID(handle.ListID)
	if list == nil {
		return false
	}
	return list.ReleaseSlot(handle.SlotIndex, handle.EntityID)
}

func (m *Manager) listByID(id uint32) *List {
	for _, l := range m.lists {
		if l.id == id {
			return l
		}
	}
	return nil
}

// IsValid reports whether handle still addresses a live entity — its
// list's slot must still hold exactly its EntityID.
func (m *Manager) IsValid(handle EntityHandle) bool {
	list := m.listByID(handle.ListID)
	if list == nil {
		return false
	}
	return list.EntityAt(handle.SlotIndex) == handle.EntityID
}

// Lists exposes every archetype list currently allocated, for query
// dispatch (query.go) and Compact-all maintenance passes.
func (m *Manager) Lists() map[hashing.Name]*List { return m.lists }

// CompactAll runs List.Compact on every archetype list, between ticks per
// spec.md §4.2/§4.7 (allocations happen outside parallel regions).
func (m *Manager) CompactAll() {
	for _, l := range m.lists {
		l.Compact(nil)
	}
}

// GetComponent is the id-addressed typed accessor. ComponentMember.New()
// values are stored as `any` holding a *T; spec.md's `GetComponent<T>(handle)`
// resolves T to a component id at compile time via the source's type
// descriptor table, which Go has no equivalent for without reflection, so
// callers supply id explicitly (the same id the archetype was defined
// with). Returns (nil, false) if the entity is stale, the archetype lacks
// id, or T doesn't match the stored component's Go type.
func GetComponent[T any](m *Manager, handle EntityHandle, id ComponentID) (*T, bool) {
	list := m.listByID(handle.ListID)
	if list == nil {
		return nil, false
	}
	raw, ok := list.ComponentAt(handle.SlotIndex, id)
	if !ok {
		return nil, false
	}
	ptr, ok := raw.(*T)
	return ptr, ok
}
