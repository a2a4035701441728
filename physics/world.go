package physics

import (
	"sort"
	"unsafe"

	"github.com/phoenix-sim/phoenix-core/ecs"
	"github.com/phoenix-sim/phoenix-core/internal/container"
	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
	"github.com/phoenix-sim/phoenix-core/internal/prng"
	"github.com/phoenix-sim/phoenix-core/internal/task"
)

// Default scratch capacities for the per-tick sorted-entity, contact-pair,
// and contact arrays, charged against a single bump arena at construction
// so a running World never allocates — the FixedArena supplement named in
// SPEC_FULL.md's supplemented-features section.
const (
	DefaultMaxSortedEntities = 8192
	DefaultMaxContactPairs   = 16384
	DefaultMaxContacts       = 16384
)

// World is the per-world physics scratch state and tunable constants, per
// spec.md §4.8.
type World struct {
	NumIterations         int
	NumSolverSteps        int
	NumSeparationSteps    int
	Baumgarte             fixedpoint.Fixed
	Slop                  fixedpoint.Fixed
	PenetrationThreshold  fixedpoint.Fixed
	PenetrationCorrection fixedpoint.Fixed

	// AllowSleep gates integratePosition's sleep-timer logic, per
	// original_source's IntegrateJob::Execute: when false, every body is
	// forced Awake every tick instead of running the speed/timer
	// threshold check. Set from session.World.AllowSleep by the
	// set_allow_sleep action verb.
	AllowSleep bool

	CollisionLines []CollisionLine

	rng *prng.PartitionedRNG

	arena    *container.Arena
	sorted   *container.ArenaSlice[EntityBody]
	pairs    *container.ArenaSlice[ContactPair]
	contacts *container.ArenaSlice[Contact]
}

// CollisionLine is a fixed world-space line segment bodies are separated
// from in the overlap-separation pass's first sub-pass, per spec.md
// §4.8.3f.
type CollisionLine struct {
	A, B fixedpoint.Vec2
}

// NewWorld constructs a World with spec.md's documented defaults
// (NumIterations=2, NumSolverSteps=6, NumSeparationSteps=40). Its scratch
// arrays are charged once against a single bump Arena sized for
// DefaultMaxSortedEntities/DefaultMaxContactPairs/DefaultMaxContacts, so a
// running World never allocates on the tick path.
func NewWorld(rng *prng.PartitionedRNG) *World {
	var eb EntityBody
	var cp ContactPair
	var ct Contact
	arenaSize := DefaultMaxSortedEntities*int(unsafe.Sizeof(eb)) +
		DefaultMaxContactPairs*int(unsafe.Sizeof(cp)) +
		DefaultMaxContacts*int(unsafe.Sizeof(ct))
	arena := container.NewArena(arenaSize)

	sorted, ok := container.NewArenaSlice[EntityBody](arena, DefaultMaxSortedEntities, int(unsafe.Sizeof(eb)))
	if !ok {
		panic("physics: arena too small for sorted-entity scratch array")
	}
	pairs, ok := container.NewArenaSlice[ContactPair](arena, DefaultMaxContactPairs, int(unsafe.Sizeof(cp)))
	if !ok {
		panic("physics: arena too small for contact-pair scratch array")
	}
	contacts, ok := container.NewArenaSlice[Contact](arena, DefaultMaxContacts, int(unsafe.Sizeof(ct)))
	if !ok {
		panic("physics: arena too small for contact scratch array")
	}

	return &World{
		NumIterations:         2,
		NumSolverSteps:        6,
		NumSeparationSteps:    40,
		Baumgarte:             fixedpoint.NewValue(0.1),
		Slop:                  fixedpoint.NewValue(0.01),
		PenetrationThreshold:  fixedpoint.NewValue(0.05),
		PenetrationCorrection: fixedpoint.NewValue(0.1),
		AllowSleep:            true,
		rng:                   rng,
		arena:                 arena,
		sorted:                sorted,
		pairs:                 pairs,
		contacts:              contacts,
	}
}

// Step runs one full physics pass over entities (every live entity with a
// Transform and Body), per spec.md §4.8 steps 1-3.
func (w *World) Step(entities []EntityBody, dt fixedpoint.Fixed) {
	w.populateSorted(entities)
	w.integrateVelocity(dt)
	for iter := 0; iter < w.NumIterations; iter++ {
		w.broadPhase(dt)
		w.dedupAndSortPairs()
		w.deriveContacts(dt)
		for step := 0; step < w.NumSolverSteps; step++ {
			w.solveStep()
		}
		w.integratePosition(dt)
		for step := 0; step < w.NumSeparationSteps; step++ {
			w.separationStep()
		}
	}
}

// populateSorted copies entities into the scratch array and stable-sorts
// by Morton Z-code (tie-break on entity id, per spec.md §4.8's determinism
// contract) — the ordering point every later physics step relies on.
func (w *World) populateSorted(entities []EntityBody) {
	w.sorted.Clear()
	for _, e := range entities {
		e.ZCode = zCodeOf(e.Transform.Position)
		w.sorted.Append(e)
	}
	items := w.sorted.Slice()
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ZCode != b.ZCode {
			return a.ZCode < b.ZCode
		}
		return a.Handle.EntityID < b.Handle.EntityID
	})
}

// populateSortedParallel is the data-parallel form of populateSorted: Morton
// codes are computed concurrently over disjoint index chunks (each writes
// only its own slots, so no synchronization is needed beyond the queue's
// Flush barrier), then the single ordering sort runs sequentially — per
// spec.md §4.8.1's "parallel per-span... then a single-threaded sort".
func (w *World) populateSortedParallel(queue *task.Queue, entities []EntityBody) {
	w.sorted.Clear()
	for _, e := range entities {
		w.sorted.Append(e)
	}
	items := w.sorted.Slice()
	task.ScheduleParallelRange(queue, len(items), 32, 4, func(start, end int) {
		for i := start; i < end; i++ {
			items[i].ZCode = zCodeOf(items[i].Transform.Position)
		}
	})
	queue.Flush()
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ZCode != b.ZCode {
			return a.ZCode < b.ZCode
		}
		return a.Handle.EntityID < b.Handle.EntityID
	})
}

// integrateVelocity applies v ← v + (F · invMass) · dt and clears force,
// skipping static bodies, per spec.md §4.8.2.
func (w *World) integrateVelocity(dt fixedpoint.Fixed) {
	items := w.sorted.Slice()
	for i := range items {
		b := items[i].Body
		if b.IsStatic() || !b.Awake {
			b.Force = fixedpoint.Vec2{}
			continue
		}
		accel := fixedpoint.Vec2{X: fixedpoint.Mul(b.Force.X, b.InvMass.X), Y: fixedpoint.Mul(b.Force.Y, b.InvMass.Y)}
		b.Velocity = b.Velocity.Add(accel.Scale(dt))
		b.Force = fixedpoint.Vec2{}
	}
}

// broadPhase derives a candidate ContactPair for every overlapping AABB
// pair found via the Morton index, per spec.md §4.8.3a.
func (w *World) broadPhase(dt fixedpoint.Fixed) {
	w.pairs.Clear()
	items := w.sorted.Slice()
	for i, e := range items {
		broadPhaseCandidates(items, i, dt, func(other EntityBody) {
			key := PairKey(e.Handle.EntityID, other.Handle.EntityID)
			w.pairs.Append(ContactPair{
				Key: key,
				A:   e.Handle, B: other.Handle,
				TA: e.Transform, TB: other.Transform,
				BA: e.Body, BB: other.Body,
			})
		})
	}
}

// dedupAndSortPairs sorts pairs by key and collapses equal-key runs into a
// single pair per spec.md §4.8.3b (broad phase visits each unordered pair
// from both sides, so every real collision appears as (A,B) and (B,A)).
func (w *World) dedupAndSortPairs() {
	items := w.pairs.Slice()
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	n := 0
	for i := 0; i < len(items); i++ {
		if i == 0 || items[i].Key != items[i-1].Key {
			items[n] = items[i]
			n++
		}
	}
	w.pairs.Truncate(n)
}

// deriveContacts computes normal/bias/effective-mass for each unique pair,
// handling the degenerate coincident-position case with a deterministic
// RNG draw, per spec.md §4.8.3c.
func (w *World) deriveContacts(dt fixedpoint.Fixed) {
	w.contacts.Clear()
	rng := w.rng.ForSubsystem(prng.SubsystemPhysicsSeparation)
	for i, pair := range w.pairs.Slice() {
		posA, posB := pair.TA.Position, pair.TB.Position
		delta := posB.Sub(posA)
		dist := delta.Length()
		if dist.Raw() == 0 {
			angle := fixedpoint.NewAngle(rng.Float64() * 6.283185307179586)
			nudge := fixedpoint.Vec2{X: fixedpoint.NewDistance(0.0001)}.Rotate(angle)
			totalInv := fixedpoint.Add(pair.BA.InvMass.X, pair.BB.InvMass.X)
			if totalInv.Raw() != 0 {
				wA := fixedpoint.Div(pair.BA.InvMass.X, totalInv)
				wB := fixedpoint.Div(pair.BB.InvMass.X, totalInv)
				pair.TA.Position = pair.TA.Position.Sub(nudge.Scale(wA))
				pair.TB.Position = pair.TB.Position.Add(nudge.Scale(wB))
			}
			posA, posB = pair.TA.Position, pair.TB.Position
			delta = posB.Sub(posA)
			dist = delta.Length()
		}

		radiusSum := fixedpoint.Add(pair.BA.Radius, pair.BB.Radius)
		penetration := fixedpoint.Sub(radiusSum, dist)
		normal := delta.Normalized()
		slop := fixedpoint.Mul(w.Slop, radiusSum)
		over := fixedpoint.Sub(penetration, slop)
		if over.Raw() < 0 {
			over = fixedpoint.Fixed{}
		}
		invDt := fixedpoint.NewInvFixed(dt)
		bias := fixedpoint.Neg(invDt.MulFixed(fixedpoint.Mul(w.Baumgarte, over)))

		invMassSum := fixedpoint.Add(pair.BA.InvMass.X, pair.BB.InvMass.X)
		effMass := fixedpoint.Fixed{}
		if invMassSum.Raw() != 0 {
			effMass = fixedpoint.Reciprocal(invMassSum)
		}

		pair.BA.Awake = true
		pair.BB.Awake = true

		w.contacts.Append(Contact{
			PairIndex: i,
			Normal:    normal,
			EffMass:   effMass,
			Bias:      bias,
			Impulse:   fixedpoint.Fixed{},
		})
	}
}

// solveStep runs one sequential PGS iteration over every contact, per
// spec.md §4.8.3d. Contacts are independent of each other within a step in
// principle (spec calls the per-contact loop "parallel"), but the
// accumulation each contact performs into its two bodies' shared velocity
// state is exactly the aliasing hazard §9 warns query jobs about; this
// kernel resolves it the same way the spec's own determinism contract
// does — by keeping the accumulation sequential rather than trying to
// make read-modify-write velocity updates lock-free.
func (w *World) solveStep() {
	contacts := w.contacts.Slice()
	pairs := w.pairs.Slice()
	for idx := range contacts {
		c := &contacts[idx]
		pair := pairs[c.PairIndex]
		relVel := c.Normal.Dot(pair.BB.Velocity.Sub(pair.BA.Velocity))
		lambda := fixedpoint.Neg(fixedpoint.Mul(fixedpoint.Add(relVel, c.Bias), c.EffMass))
		old := c.Impulse
		newImpulse := fixedpoint.Add(old, lambda)
		if newImpulse.Raw() < 0 {
			newImpulse = fixedpoint.Fixed{}
		}
		delta := fixedpoint.Sub(newImpulse, old)
		c.Impulse = newImpulse

		impulseVec := c.Normal.Scale(delta)
		if pair.BA.InvMass.X.Raw() != 0 || pair.BA.InvMass.Y.Raw() != 0 {
			pair.BA.Velocity = pair.BA.Velocity.Sub(fixedpoint.Vec2{
				X: fixedpoint.Mul(impulseVec.X, pair.BA.InvMass.X),
				Y: fixedpoint.Mul(impulseVec.Y, pair.BA.InvMass.Y),
			})
		}
		if pair.BB.InvMass.X.Raw() != 0 || pair.BB.InvMass.Y.Raw() != 0 {
			pair.BB.Velocity = pair.BB.Velocity.Add(fixedpoint.Vec2{
				X: fixedpoint.Mul(impulseVec.X, pair.BB.InvMass.X),
				Y: fixedpoint.Mul(impulseVec.Y, pair.BB.InvMass.Y),
			})
		}
	}
}

// integratePosition applies pos ← pos + v*dt, v ← v*(1-linearDamping*dt)
// for non-attached bodies, and refreshes/decrements sleep timers, per
// spec.md §4.8.3e. Attached bodies (AttachParent valid) instead resolve
// their transform from ecs.ResolveWorldTransform and are skipped here —
// the hardcoded 10.0 rotation in the source was identified in DESIGN.md as
// test scaffolding and is not reproduced.
func (w *World) integratePosition(dt fixedpoint.Fixed) {
	items := w.sorted.Slice()
	for i := range items {
		t := items[i].Transform
		b := items[i].Body
		if t.AttachParent.IsValid() {
			continue
		}
		if b.IsStatic() {
			continue
		}
		t.Position = t.Position.Add(b.Velocity.Scale(dt))
		damp := fixedpoint.Sub(fixedpoint.NewValue(1), fixedpoint.Mul(b.LinearDamping, dt))
		b.Velocity = b.Velocity.Scale(damp)

		if !w.AllowSleep {
			b.Awake = true
			continue
		}

		speed := b.Velocity.Length()
		if speed.Raw() > SleepSpeedThreshold.Raw() {
			b.SleepTimer = fixedpoint.NewTime(SleepTimerTicks)
		} else {
			b.SleepTimer = fixedpoint.Sub(b.SleepTimer, fixedpoint.NewTime(1))
			if b.SleepTimer.Raw() <= 0 {
				b.Awake = false
				b.Velocity = fixedpoint.Vec2{}
			}
		}
	}
}

// separationStep runs one pass of line-vs-circle then per-contact overlap
// correction, per spec.md §4.8.3f.
func (w *World) separationStep() {
	items := w.sorted.Slice()
	for i := range items {
		t := items[i].Transform
		b := items[i].Body
		if b.IsStatic() {
			continue
		}
		for _, line := range w.CollisionLines {
			pushOutOfLine(t, b, line)
		}
	}
	pairs := w.pairs.Slice()
	for _, c := range w.contacts.Slice() {
		pair := pairs[c.PairIndex]
		delta := pair.TB.Position.Sub(pair.TA.Position)
		dist := delta.Length()
		radiusSum := fixedpoint.Add(pair.BA.Radius, pair.BB.Radius)
		pen := fixedpoint.Sub(radiusSum, dist)
		if pen.Raw() <= w.PenetrationThreshold.Raw() {
			continue
		}
		normal := delta.Normalized()
		correction := fixedpoint.Mul(w.PenetrationCorrection, pen)
		invSum := fixedpoint.Add(pair.BA.InvMass.X, pair.BB.InvMass.X)
		if invSum.Raw() == 0 {
			continue
		}
		wA := fixedpoint.Div(pair.BA.InvMass.X, invSum)
		wB := fixedpoint.Div(pair.BB.InvMass.X, invSum)
		pair.TA.Position = pair.TA.Position.Sub(normal.Scale(fixedpoint.Mul(correction, wA)))
		pair.TB.Position = pair.TB.Position.Add(normal.Scale(fixedpoint.Mul(correction, wB)))
	}
}

// pushOutOfLine pushes t out of line if it penetrates, reflecting velocity
// across the line direction when moving into it, per spec.md §4.8.3f.
func pushOutOfLine(t *ecs.Transform, b *Body, line CollisionLine) {
	dir := line.B.Sub(line.A)
	length := dir.Length()
	if length.Raw() == 0 {
		return
	}
	invLen := fixedpoint.NewInvFixed(length)
	unit := fixedpoint.Vec2{X: invLen.MulFixed(dir.X), Y: invLen.MulFixed(dir.Y)}
	toPoint := t.Position.Sub(line.A)
	proj := toPoint.Dot(unit)
	closest := line.A.Add(unit.Scale(proj))
	normalVec := t.Position.Sub(closest)
	dist := normalVec.Length()
	if dist.Raw() >= b.Radius.Raw() {
		return
	}
	var normal fixedpoint.Vec2
	if dist.Raw() == 0 {
		normal = fixedpoint.Vec2{X: fixedpoint.NewDistance(0), Y: fixedpoint.NewDistance(1)}
	} else {
		normal = normalVec.Normalized()
	}
	penetration := fixedpoint.Sub(b.Radius, dist)
	t.Position = t.Position.Add(normal.Scale(penetration))

	vAlongNormal := b.Velocity.Dot(normal)
	if vAlongNormal.Raw() < 0 {
		reflect := normal.Scale(fixedpoint.Mul(fixedpoint.NewValue(2), vAlongNormal))
		b.Velocity = b.Velocity.Sub(reflect)
	}
}
