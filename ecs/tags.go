package ecs

import (
	"github.com/phoenix-sim/phoenix-core/internal/container"
	"github.com/phoenix-sim/phoenix-core/internal/hashing"
)

// tagNode is one node of an entity's intrusive singly-linked tag list,
// drawn from a shared per-world pool, per spec.md §3/§4.7.
type tagNode struct {
	name hashing.Name
	next int32 // index into the pool, or -1
	used bool
}

// TagPool is the shared per-world tag node allocator. Backed by
// container.ChunkAllocator, the one place spec.md explicitly calls for a
// chunk allocator's homogeneous-fixed-size-chunk behavior ("a free slot in
// the tag pool (linear scan)").
type TagPool struct {
	nodes *container.ChunkAllocator[tagNode]
	heads map[EntityID]int32
}

// NewTagPool constructs a pool with room for capacity tag nodes across all
// entities.
func NewTagPool(capacity int) *TagPool {
	return &TagPool{
		nodes: container.NewChunkAllocator[tagNode](capacity),
		heads: make(map[EntityID]int32),
	}
}

// AddTag appends name to entityID's tag list, scanning for a free node in
// the shared pool and walking to the current tail, per spec.md §4.7.
// Returns false if the pool is exhausted.
func (p *TagPool) AddTag(entityID EntityID, name hashing.Name) bool {
	idx, node := p.nodes.Acquire()
	if node == nil {
		return false
	}
	node.name = name
	node.next = -1
	node.used = true

	head, ok := p.heads[entityID]
	if !ok {
		p.heads[entityID] = int32(idx)
		return true
	}
	cur := head
	for {
		n := p.nodes.At(int(cur))
		if n.next == -1 {
			n.next = int32(idx)
			return true
		}
		cur = n.next
	}
}

// HasTag reports whether entityID's tag list contains name.
func (p *TagPool) HasTag(entityID EntityID, name hashing.Name) bool {
	head, ok := p.heads[entityID]
	if !ok {
		return false
	}
	for cur := head; cur != -1; {
		n := p.nodes.At(int(cur))
		if n.name == name {
			return true
		}
		cur = n.next
	}
	return false
}

// RemoveTag unsplices the first node matching name from entityID's list.
func (p *TagPool) RemoveTag(entityID EntityID, name hashing.Name) bool {
	head, ok := p.heads[entityID]
	if !ok {
		return false
	}
	var prev int32 = -1
	for cur := head; cur != -1; {
		n := p.nodes.At(int(cur))
		if n.name == name {
			if prev == -1 {
				p.heads[entityID] = n.next
				if n.next == -1 {
					delete(p.heads, entityID)
				}
			} else {
				p.nodes.At(int(prev)).next = n.next
			}
			p.nodes.Release(int(cur))
			return true
		}
		prev = cur
		cur = n.next
	}
	return false
}

// RemoveAllTags traverses and frees every node of entityID's tag list —
// also the cleanup step release of an entity must perform, per §4.7's
// blackboard/tag teardown discipline.
func (p *TagPool) RemoveAllTags(entityID EntityID) {
	head, ok := p.heads[entityID]
	if !ok {
		return
	}
	for cur := head; cur != -1; {
		n := p.nodes.At(int(cur))
		next := n.next
		p.nodes.Release(int(cur))
		cur = next
	}
	delete(p.heads, entityID)
}
