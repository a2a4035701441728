package ecs

import (
	"testing"

	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
	"github.com/phoenix-sim/phoenix-core/internal/hashing"
)

var (
	compTransform = hashing.NewName("Transform")
	compVelocity  = hashing.NewName("Velocity")
	kindAgent     = hashing.NewName("Agent")
	kindStatic    = hashing.NewName("StaticProp")
)

type velocity struct {
	V fixedpoint.Vec2
}

func newTestManager() (*Manager, *DefRegistry) {
	defs := NewDefRegistry()
	agentDef := DefineArchetype(kindAgent,
		ComponentMember{ID: compTransform, New: func() any { return &Transform{} }},
		ComponentMember{ID: compVelocity, New: func() any { return &velocity{} }},
	)
	staticDef := DefineArchetype(kindStatic,
		ComponentMember{ID: compTransform, New: func() any { return &Transform{} }},
	)
	defs.Register(agentDef)
	defs.Register(staticDef)
	return NewManager(64, defs), defs
}

func TestAcquireAndGetComponent(t *testing.T) {
	m, _ := newTestManager()
	id := m.AllocateEntityID()
	if !id.IsValid() {
		t.Fatal("expected valid entity id")
	}
	handle, ok := m.Acquire(id, kindAgent)
	if !ok {
		t.Fatal("Acquire failed")
	}
	tr, ok := GetComponent[Transform](m, handle, compTransform)
	if !ok {
		t.Fatal("expected Transform component")
	}
	tr.Position = fixedpoint.NewVec2(1, 2)

	tr2, ok := GetComponent[Transform](m, handle, compTransform)
	if !ok || tr2.Position.X.Float64() != 1 {
		t.Fatal("mutation through pointer did not persist")
	}

	if _, ok := GetComponent[velocity](m, handle, compVelocity); !ok {
		t.Fatal("expected Velocity component on agent archetype")
	}
}

func TestAcquireUnknownKindFails(t *testing.T) {
	m, _ := newTestManager()
	id := m.AllocateEntityID()
	if _, ok := m.Acquire(id, hashing.NewName("NoSuchKind")); ok {
		t.Fatal("expected Acquire to fail for unregistered kind")
	}
}

func TestReleaseInvalidatesHandle(t *testing.T) {
	m, _ := newTestManager()
	id := m.AllocateEntityID()
	handle, _ := m.Acquire(id, kindAgent)
	if !m.IsValid(handle) {
		t.Fatal("expected fresh handle to be valid")
	}
	if !m.Release(handle) {
		t.Fatal("Release failed")
	}
	if m.IsValid(handle) {
		t.Fatal("expected handle to be invalid after Release")
	}
}

func TestCompactPacksLiveSlots(t *testing.T) {
	m, _ := newTestManager()
	var handles []EntityHandle
	for i := 0; i < 5; i++ {
		id := m.AllocateEntityID()
		h, _ := m.Acquire(id, kindAgent)
		handles = append(handles, h)
	}
	// release the first three, leaving holes at the front
	for i := 0; i < 3; i++ {
		m.Release(handles[i])
	}
	m.CompactAll()

	list := m.lists[mustLookup(t, m, kindAgent).ID]
	if list.HighWater() != 2 {
		t.Fatalf("HighWater = %d, want 2", list.HighWater())
	}
}

func mustLookup(t *testing.T, m *Manager, kind hashing.Name) ArchetypeDef {
	t.Helper()
	def, ok := m.defs.Lookup(kind)
	if !ok {
		t.Fatalf("kind %v not registered", kind)
	}
	return def
}

func TestQueryRequireAllExcludesMismatchedArchetype(t *testing.T) {
	m, _ := newTestManager()
	agentID := m.AllocateEntityID()
	m.Acquire(agentID, kindAgent)
	staticID := m.AllocateEntityID()
	m.Acquire(staticID, kindStatic)

	q := NewQuery(m).RequireAll(compTransform, compVelocity)
	var seen []EntityID
	q.Schedule(func(handle EntityHandle, list *List) {
		seen = append(seen, handle.EntityID)
	})
	if len(seen) != 1 || seen[0] != agentID {
		t.Fatalf("expected only the agent entity, got %v", seen)
	}
}

func TestTagPoolAddRemove(t *testing.T) {
	pool := NewTagPool(16)
	e := EntityID(7)
	tagA := hashing.NewName("Hostile")
	tagB := hashing.NewName("Visible")

	if !pool.AddTag(e, tagA) || !pool.AddTag(e, tagB) {
		t.Fatal("AddTag failed")
	}
	if !pool.HasTag(e, tagA) || !pool.HasTag(e, tagB) {
		t.Fatal("expected both tags present")
	}
	if !pool.RemoveTag(e, tagA) {
		t.Fatal("RemoveTag failed")
	}
	if pool.HasTag(e, tagA) {
		t.Fatal("tag should have been removed")
	}
	pool.RemoveAllTags(e)
	if pool.HasTag(e, tagB) {
		t.Fatal("expected all tags removed")
	}
}

func TestBlackboardQueryWildcards(t *testing.T) {
	b := NewBlackboard(8)
	e1, e2 := EntityID(1), EntityID(2)
	keyName := hashing.NewName("Health")
	b.Insert(EntityBlackboardKey(keyName, e1, 0), 100)
	b.Insert(EntityBlackboardKey(keyName, e2, 0), 50)
	b.Sort()

	lo := uint32(e1)
	results := b.Query(BlackboardQuery{Lo: &lo})
	if len(results) != 1 || results[0].Value != 100 {
		t.Fatalf("expected one entry for e1, got %v", results)
	}

	removed := b.RemoveMatching(BlackboardQuery{Lo: &lo})
	if removed != 1 {
		t.Fatalf("expected to remove 1 entry, removed %d", removed)
	}
	if b.Num() != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", b.Num())
	}
}

func TestResolveWorldTransformComposesChain(t *testing.T) {
	parent := EntityID(1)
	child := EntityID(2)
	transforms := map[EntityID]*Transform{
		parent: {Position: fixedpoint.NewVec2(10, 0)},
		child:  {Position: fixedpoint.NewVec2(1, 0), AttachParent: parent},
	}
	lookup := func(id EntityID) (*Transform, bool) {
		t, ok := transforms[id]
		return t, ok
	}

	world, ok := ResolveWorldTransform(lookup, child)
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if world.Position.X.Float64() != 11 {
		t.Fatalf("expected composed X = 11, got %v", world.Position.X.Float64())
	}
}

func TestResolveWorldTransformBreaksCycle(t *testing.T) {
	a, b := EntityID(1), EntityID(2)
	transforms := map[EntityID]*Transform{
		a: {Position: fixedpoint.NewVec2(1, 0), AttachParent: b},
		b: {Position: fixedpoint.NewVec2(1, 0), AttachParent: a},
	}
	lookup := func(id EntityID) (*Transform, bool) {
		t, ok := transforms[id]
		return t, ok
	}
	if _, ok := ResolveWorldTransform(lookup, a); !ok {
		t.Fatal("expected a deterministic result despite the cycle, not a failure")
	}
}
