package ecs

import (
	"sort"

	"github.com/phoenix-sim/phoenix-core/internal/container"
	"github.com/phoenix-sim/phoenix-core/internal/hashing"
)

// BlackboardKey packs [24-bit hi | 8-bit type | 32-bit lo] into a uint64,
// per spec.md §3. lo == 0 marks an empty slot.
type BlackboardKey uint64

// MakeBlackboardKey builds a key from its three fields, masking each to
// its declared width.
func MakeBlackboardKey(hi uint32, typeTag uint8, lo uint32) BlackboardKey {
	return BlackboardKey(uint64(hi&0xFFFFFF)<<40 | uint64(typeTag)<<32 | uint64(lo))
}

// EntityBlackboardKey builds the key an entity's blackboard entries use:
// hi = hash32(keyName) (truncated to 24 bits), lo = the entity id,
// type = typeTag — per spec.md §4.7's "Blackboard helpers for entities".
func EntityBlackboardKey(keyName hashing.Name, entityID EntityID, typeTag uint8) BlackboardKey {
	return MakeBlackboardKey(uint32(keyName), typeTag, uint32(entityID))
}

// Hi, Type, Lo extract a key's three fields.
func (k BlackboardKey) Hi() uint32   { return uint32(k>>40) & 0xFFFFFF }
func (k BlackboardKey) Type() uint8  { return uint8(k >> 32) }
func (k BlackboardKey) Lo() uint32   { return uint32(k) }
func (k BlackboardKey) IsEmpty() bool { return k.Lo() == 0 }

// BlackboardEntry is one (key, value) row.
type BlackboardEntry struct {
	Key   BlackboardKey
	Value int64
}

// BlackboardQuery filters entries by any subset of (hi, lo, type); a nil
// field is a "don't care" wildcard, per spec.md §3.
type BlackboardQuery struct {
	Hi   *uint32
	Type *uint8
	Lo   *uint32
}

func (q BlackboardQuery) matches(e BlackboardEntry) bool {
	if q.Hi != nil && e.Key.Hi() != *q.Hi {
		return false
	}
	if q.Type != nil && e.Key.Type() != *q.Type {
		return false
	}
	if q.Lo != nil && e.Key.Lo() != *q.Lo {
		return false
	}
	return true
}

// Blackboard is a fixed-capacity array of (key, value) pairs, sorted by
// full key between ticks to binary-search on Hi, per spec.md §3.
type Blackboard struct {
	entries []BlackboardEntry
	cap     int
	sorted  bool
}

// NewBlackboard constructs an empty Blackboard with the given capacity.
func NewBlackboard(capacity int) *Blackboard {
	return &Blackboard{entries: make([]BlackboardEntry, 0, capacity), cap: capacity}
}

// Num returns the current entry count.
func (b *Blackboard) Num() int { return len(b.entries) }

// IsFull reports whether the blackboard is at capacity.
func (b *Blackboard) IsFull() bool { return len(b.entries) >= b.cap }

// Insert adds (key, value), returning false if key is empty (lo == 0) or
// the blackboard is full. Insertion invalidates sort order; call Sort
// before relying on binary-search-backed queries again.
func (b *Blackboard) Insert(key BlackboardKey, value int64) bool {
	if key.IsEmpty() || b.IsFull() {
		return false
	}
	b.entries = append(b.entries, BlackboardEntry{Key: key, Value: value})
	b.sorted = false
	return true
}

// Sort orders entries by full key, enabling binary search on Hi — run
// once between ticks, per spec.md §3.
func (b *Blackboard) Sort() {
	sort.Slice(b.entries, func(i, j int) bool { return b.entries[i].Key < b.entries[j].Key })
	b.sorted = true
}

// Query returns every entry matching q. When the blackboard is sorted and
// q constrains Hi, the scan starts from the lower-bound of Hi rather than
// the whole array; otherwise it's a full linear scan (acceptable for the
// small, fixed-capacity blackboards this type backs).
func (b *Blackboard) Query(q BlackboardQuery) []BlackboardEntry {
	var result []BlackboardEntry
	start := 0
	end := len(b.entries)
	if b.sorted && q.Hi != nil {
		hi := *q.Hi & 0xFFFFFF
		hiKeyLo := BlackboardKey(uint64(hi) << 40)
		start = sort.Search(len(b.entries), func(i int) bool { return b.entries[i].Key >= hiKeyLo })
		if hi < 0xFFFFFF {
			hiKeyHi := BlackboardKey(uint64(hi+1) << 40)
			end = sort.Search(len(b.entries), func(i int) bool { return b.entries[i].Key >= hiKeyHi })
		}
	}
	for i := start; i < end; i++ {
		if q.matches(b.entries[i]) {
			result = append(result, b.entries[i])
		}
	}
	return result
}

// RemoveMatching deletes every entry matching q via swap-with-last,
// returning the count removed. A Lo-constrained, Hi-wildcard query sweeps
// every blackboard row of one entity; Manager.Release does not call this.
func (b *Blackboard) RemoveMatching(q BlackboardQuery) int {
	removed := 0
	for i := 0; i < len(b.entries); {
		if q.matches(b.entries[i]) {
			n := len(b.entries) - 1
			b.entries[i] = b.entries[n]
			b.entries = b.entries[:n]
			b.sorted = false
			removed++
			continue
		}
		i++
	}
	return removed
}

// BlackboardSet is a fixed-capacity map from owner name to Blackboard —
// the FixedBlackboardSet supplemented feature (original_source's
// FixedBlackboardSet.h): the spec's single per-world Blackboard becomes
// one of potentially several, keyed by owner (e.g. one per squad plus a
// global one under hashing.Empty).
type BlackboardSet struct {
	boards *container.Map[hashing.Name, *Blackboard]
}

// NewBlackboardSet constructs a set with room for maxOwners distinct
// blackboards. boardCapacity is not stored: each board's capacity is the
// one passed to the Get call that creates it.
func NewBlackboardSet(maxOwners, boardCapacity int) *BlackboardSet {
	set := &BlackboardSet{boards: container.NewMap[hashing.Name, *Blackboard](maxOwners, nil)}
	return set
}

// Get returns owner's blackboard, creating it with boardCapacity entries
// on first access if room remains; for an existing board boardCapacity is
// ignored.
func (s *BlackboardSet) Get(owner hashing.Name, boardCapacity int) (*Blackboard, bool) {
	if b, ok := s.boards.Get(owner); ok {
		return b, true
	}
	b := NewBlackboard(boardCapacity)
	if !s.boards.Set(owner, b) {
		return nil, false
	}
	return b, true
}

// Remove deletes owner's blackboard entirely.
func (s *BlackboardSet) Remove(owner hashing.Name) bool {
	return s.boards.Delete(owner)
}
