// Package physics implements Phoenix's per-tick physics pass: Morton
// broad phase, contact derivation, sequential-impulse (PGS) resolution,
// integration, sleep management, and overlap separation, per spec.md §4.8.
package physics

import (
	"github.com/phoenix-sim/phoenix-core/ecs"
	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
	"github.com/phoenix-sim/phoenix-core/internal/morton"
)

// mortonCode aliases morton.Code so EntityBody.MortonCode satisfies
// morton.Coded without every file in this package importing morton
// directly.
type mortonCode = morton.Code

// Body is the rigid-body component every physically-simulated entity
// carries alongside ecs.Transform. InvMass is per-axis so a body can be
// static on one axis and dynamic on the other — the "skipping bodies
// flagged static on that axis" behavior spec.md §4.8.d calls for, modeled
// as a zero inverse mass on that axis rather than a separate bool pair.
type Body struct {
	Velocity      fixedpoint.Vec2
	Force         fixedpoint.Vec2
	InvMass       fixedpoint.Vec2 // 0 on an axis means immovable on that axis
	Radius        fixedpoint.Fixed
	CollisionMask uint32
	Awake         bool
	SleepTimer    fixedpoint.Fixed
	LinearDamping fixedpoint.Fixed
}

// IsStatic reports whether the body has zero inverse mass on both axes —
// spec.md's "static bodies do not integrate velocity".
func (b *Body) IsStatic() bool {
	return b.InvMass.X.Raw() == 0 && b.InvMass.Y.Raw() == 0
}

// SleepTimerTicks is the default SLEEP_TIMER value (in ticks) a body's
// sleep countdown refreshes to when its speed exceeds SleepSpeedThreshold.
const SleepTimerTicks = 30

// SleepSpeedThreshold is the speed above which a body refreshes its sleep
// timer instead of counting it down. Expressed as Distance(Q12) rather
// than Speed(Q16) so it compares directly against Body.Velocity.Length(),
// whose raw value inherits Distance's frac from the position components
// it's derived from.
var SleepSpeedThreshold = fixedpoint.NewDistance(0.01)

// EntityBody pairs a handle with its resolved Transform/Body pointers, the
// row the broad phase's sorted-entity scratch array stores.
type EntityBody struct {
	Handle    ecs.EntityHandle
	Transform *ecs.Transform
	Body      *Body
	ZCode     mortonCode
}

// MortonCode satisfies morton.Coded for the sorted Z-order scratch array.
func (e EntityBody) MortonCode() mortonCode { return e.ZCode }
