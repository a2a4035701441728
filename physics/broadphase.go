package physics

import (
	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
	"github.com/phoenix-sim/phoenix-core/internal/morton"
)

// cellOf quantizes a Distance(Q12) coordinate to an integer grid cell,
// per spec.md §4.5 ("interleaving 16 bits of (x >> GRID_BITS)").
func cellOf(v fixedpoint.Fixed) int32 {
	return int32(v.Raw() >> fixedpoint.FracDistance)
}

func zCodeOf(pos fixedpoint.Vec2) morton.Code {
	return morton.Encode(cellOf(pos.X), cellOf(pos.Y))
}

// projectedAABB returns the grid-cell AABB of e's circle at pos + v*dt,
// inflated by its radius, per spec.md §4.8.3a.
func projectedAABB(e EntityBody, dt fixedpoint.Fixed) (minX, minY, maxX, maxY int32) {
	projected := e.Transform.Position.Add(e.Body.Velocity.Scale(dt))
	r := e.Body.Radius
	minX = cellOf(fixedpoint.Sub(projected.X, r))
	minY = cellOf(fixedpoint.Sub(projected.Y, r))
	maxX = cellOf(fixedpoint.Add(projected.X, r))
	maxY = cellOf(fixedpoint.Add(projected.Y, r))
	return
}

// broadPhaseCandidates walks the Morton ranges covering e's projected AABB
// over the Z-sorted entity array, visiting every other entity whose
// collision mask overlaps e's — per spec.md §4.8.3a. May admit false
// positives (coarser grid cells than the exact circle), never false
// negatives; exact circle-vs-circle distance is resolved when the contact
// itself is derived.
func broadPhaseCandidates(sorted []EntityBody, selfIdx int, dt fixedpoint.Fixed, visit func(other EntityBody)) {
	e := sorted[selfIdx]
	minX, minY, maxX, maxY := projectedAABB(e, dt)
	ranges := morton.QueryRanges(minX, minY, maxX, maxY)
	morton.ForEachInRanges(sorted, ranges, func(other EntityBody) bool {
		if other.Handle.EntityID == e.Handle.EntityID {
			return true
		}
		if e.Body.CollisionMask&other.Body.CollisionMask == 0 {
			return true
		}
		visit(other)
		return true
	})
}
