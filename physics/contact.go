package physics

import (
	"github.com/phoenix-sim/phoenix-core/ecs"
	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
)

// PairKey packs two entity ids into the deduplication key
// `(max(a,b) << 32 | min(a,b))`, per spec.md §3.
func PairKey(a, b ecs.EntityID) uint64 {
	lo, hi := uint32(a), uint32(b)
	if lo > hi {
		lo, hi = hi, lo
	}
	return uint64(hi)<<32 | uint64(lo)
}

// ContactPair is a candidate collision between two entities found by the
// broad phase, deduplicated on Key, per spec.md §3.
type ContactPair struct {
	Key  uint64
	A, B ecs.EntityHandle
	TA   *ecs.Transform
	TB   *ecs.Transform
	BA   *Body
	BB   *Body
}

// Contact is the resolved, solvable form of one unique ContactPair,
// keeping accumulated impulse across a single tick's PGS iterations (reset
// to 0 on every new per-tick pair derivation — there is no warm starting
// across ticks), per spec.md §3.
type Contact struct {
	PairIndex int
	Normal    fixedpoint.Vec2
	EffMass   fixedpoint.Fixed
	Bias      fixedpoint.Fixed
	Impulse   fixedpoint.Fixed
}
