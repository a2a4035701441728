package ecs

import (
	"sort"

	"github.com/phoenix-sim/phoenix-core/internal/hashing"
)

// ComponentID names a component type. Two archetypes with the same member
// set (in any registration order) fold to the same definition id.
type ComponentID = hashing.Name

// ComponentMember describes one component slot in an archetype: its id and
// a zero-value constructor. Go's component storage is a slice of pointers
// per component (see List), so size/offset bookkeeping from the original
// byte-buffer layout collapses into "New returns a fresh zero component."
type ComponentMember struct {
	ID  ComponentID
	New func() any
}

// ArchetypeDef is an ordered set of component members. Its ID is the
// FNV-1a fold of member ids in sorted order, so a definition's identity is
// independent of the order callers declared its members in, per spec.md
// §3.
type ArchetypeDef struct {
	Kind    hashing.Name
	ID      hashing.Name
	Members []ComponentMember
}

// DefineArchetype builds an ArchetypeDef for kind from members, computing
// its content-derived ID.
func DefineArchetype(kind hashing.Name, members ...ComponentMember) ArchetypeDef {
	sorted := append([]ComponentMember(nil), members...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	h := hashing.FNV1a32("")
	for _, m := range sorted {
		h = hashing.FoldUint32(h, uint32(m.ID))
	}
	return ArchetypeDef{Kind: kind, ID: hashing.Name(h), Members: sorted}
}

// HasComponent reports whether id is a member of def.
func (d ArchetypeDef) HasComponent(id ComponentID) bool {
	for _, m := range d.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// ComponentSet returns d's member ids as a lookup set. (PassesFilter
// builds its own container.Set instead of calling this.)
func (d ArchetypeDef) ComponentSet() map[ComponentID]struct{} {
	set := make(map[ComponentID]struct{}, len(d.Members))
	for _, m := range d.Members {
		set[m.ID] = struct{}{}
	}
	return set
}

// DefRegistry maps kind names to their registered ArchetypeDef, per-world
// per spec.md §4.7 ("Definitions are registered per-world by name").
type DefRegistry struct {
	byKind map[hashing.Name]ArchetypeDef
}

// NewDefRegistry constructs an empty registry.
func NewDefRegistry() *DefRegistry {
	return &DefRegistry{byKind: make(map[hashing.Name]ArchetypeDef)}
}

// Register adds def under its Kind, returning false if Kind is already
// registered with a different definition.
func (r *DefRegistry) Register(def ArchetypeDef) bool {
	if existing, ok := r.byKind[def.Kind]; ok {
		return existing.ID == def.ID
	}
	r.byKind[def.Kind] = def
	return true
}

// Lookup returns the ArchetypeDef registered for kind.
func (r *DefRegistry) Lookup(kind hashing.Name) (ArchetypeDef, bool) {
	def, ok := r.byKind[kind]
	return def, ok
}
