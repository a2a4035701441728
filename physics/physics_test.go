package physics

import (
	"testing"

	"github.com/phoenix-sim/phoenix-core/ecs"
	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
	"github.com/phoenix-sim/phoenix-core/internal/prng"
)

func TestPairKeySymmetric(t *testing.T) {
	if PairKey(3, 7) != PairKey(7, 3) {
		t.Fatal("PairKey should be symmetric in its arguments")
	}
	if PairKey(3, 7) == PairKey(3, 8) {
		t.Fatal("different pairs should not collide")
	}
}

func TestBodyIsStatic(t *testing.T) {
	b := &Body{}
	if !b.IsStatic() {
		t.Fatal("zero-value body should be static (zero inverse mass)")
	}
	b.InvMass = fixedpoint.Vec2{X: fixedpoint.NewValue(1)}
	if b.IsStatic() {
		t.Fatal("nonzero inverse mass on X should make the body non-static")
	}
}

func makeEntity(id ecs.EntityID, x, y float64, vx, vy float64) EntityBody {
	tr := &ecs.Transform{Position: fixedpoint.NewVec2(x, y)}
	body := &Body{
		Velocity:      fixedpoint.NewVec2(vx, vy),
		InvMass:       fixedpoint.Vec2{X: fixedpoint.NewValue(1), Y: fixedpoint.NewValue(1)},
		Radius:        fixedpoint.NewDistance(1),
		CollisionMask: 1,
		Awake:         true,
	}
	return EntityBody{Handle: ecs.EntityHandle{EntityID: id}, Transform: tr, Body: body}
}

func TestStepResolvesHeadOnCollisionWithoutPenetrationGrowth(t *testing.T) {
	w := NewWorld(prng.NewPartitionedRNG(42))
	a := makeEntity(1, 0, 0, 1, 0)
	b := makeEntity(2, 1.5, 0, -1, 0)
	dt := fixedpoint.NewTime(1.0 / 60.0)

	distBefore := b.Transform.Position.Sub(a.Transform.Position).Length().Float64()
	w.Step([]EntityBody{a, b}, dt)
	distAfter := b.Transform.Position.Sub(a.Transform.Position).Length().Float64()

	relVelAlongNormal := b.Body.Velocity.Sub(a.Body.Velocity).Dot(
		b.Transform.Position.Sub(a.Transform.Position).Normalized(),
	).Float64()

	if relVelAlongNormal < -0.01 {
		t.Fatalf("expected no continued approach after resolution, relative velocity along normal = %v", relVelAlongNormal)
	}
	_ = distBefore
	_ = distAfter
}

func TestStepSleepsRestingBody(t *testing.T) {
	w := NewWorld(prng.NewPartitionedRNG(7))
	a := makeEntity(1, 0, 0, 0, 0)
	a.Body.SleepTimer = fixedpoint.NewTime(1)
	dt := fixedpoint.NewTime(1.0 / 60.0)

	for i := 0; i < 3; i++ {
		w.Step([]EntityBody{a}, dt)
	}
	if a.Body.Awake {
		t.Fatal("expected a motionless body to fall asleep")
	}
}

// TestStepScratchArraysResetAcrossTicks exercises the arena-backed
// sorted/pair/contact scratch arrays over repeated ticks with a varying
// entity count, guarding against stale entries surviving a Clear/Truncate.
func TestStepScratchArraysResetAcrossTicks(t *testing.T) {
	w := NewWorld(prng.NewPartitionedRNG(1))
	dt := fixedpoint.NewTime(1.0 / 60.0)

	w.Step([]EntityBody{makeEntity(1, 0, 0, 1, 0), makeEntity(2, 1.5, 0, -1, 0)}, dt)
	if w.sorted.Len() != 2 {
		t.Fatalf("expected 2 sorted entities after first tick, got %d", w.sorted.Len())
	}

	solo := makeEntity(3, 50, 50, 0, 0)
	w.Step([]EntityBody{solo}, dt)
	if w.sorted.Len() != 1 {
		t.Fatalf("expected scratch arrays to reset to 1 entity, got %d", w.sorted.Len())
	}
	if w.pairs.Len() != 0 || w.contacts.Len() != 0 {
		t.Fatalf("expected no pairs/contacts for a single isolated entity, got pairs=%d contacts=%d", w.pairs.Len(), w.contacts.Len())
	}
}
