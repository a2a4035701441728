package morton

// MaxRanges bounds how many sub-ranges QueryRanges will emit per quadrant
// before it gives up subdividing and emits one enclosing range instead —
// spec.md §4.5 explicitly trades range count for false positives, and an
// unbounded range count would defeat that trade.
const MaxRanges = 64

// QueryRanges decomposes an AABB given in grid cells into a list of Morton
// code ranges whose union contains every cell in the AABB (and, per
// spec.md §4.5, may also contain cells outside it — false positives are
// resolved by the physics broad phase's subsequent exact test, never false
// negatives).
func QueryRanges(minX, minY, maxX, maxY int32) []Range {
	var ranges []Range
	for _, q := range quadrantsOverlapping(minX, minY, maxX, maxY) {
		qxlo, qylo, qxhi, qyhi := q.clip(minX, minY, maxX, maxY)
		uxlo, uylo := magnitude(qxlo), magnitude(qylo)
		uxhi, uyhi := magnitude(qxhi), magnitude(qyhi)
		if uxlo > uxhi {
			uxlo, uxhi = uxhi, uxlo
		}
		if uylo > uyhi {
			uylo, uyhi = uyhi, uylo
		}
		sub := decomposeQuadrant(uxlo, uylo, uxhi, uyhi)
		for _, r := range sub {
			ranges = append(ranges, Range{
				Lo: Code(q.tag<<quadrantShift | uint64(r.Lo)),
				Hi: Code(q.tag<<quadrantShift | uint64(r.Hi)),
			})
		}
	}
	return ranges
}

type quadRegion struct {
	tag          uint64
	signX, signY int32 // +1 or -1
}

// quadrantsOverlapping returns the (up to 4) sign quadrants the query AABB
// spans.
func quadrantsOverlapping(minX, minY, maxX, maxY int32) []quadRegion {
	var qs []quadRegion
	spansNonNegX, spansNegX := maxX >= 0, minX < 0
	spansNonNegY, spansNegY := maxY >= 0, minY < 0
	if spansNonNegX && spansNonNegY {
		qs = append(qs, quadRegion{0, 1, 1})
	}
	if spansNegX && spansNonNegY {
		qs = append(qs, quadRegion{1, -1, 1})
	}
	if spansNegX && spansNegY {
		qs = append(qs, quadRegion{2, -1, -1})
	}
	if spansNonNegX && spansNegY {
		qs = append(qs, quadRegion{3, 1, -1})
	}
	return qs
}

// clip returns the portion of the query AABB lying in this quadrant's sign
// region, still expressed in signed grid coordinates.
func (q quadRegion) clip(minX, minY, maxX, maxY int32) (x0, y0, x1, y1 int32) {
	x0, x1 = minX, maxX
	y0, y1 = minY, maxY
	if q.signX > 0 {
		if x0 < 0 {
			x0 = 0
		}
	} else {
		if x1 > 0 {
			x1 = 0
		}
	}
	if q.signY > 0 {
		if y0 < 0 {
			y0 = 0
		}
	} else {
		if y1 > 0 {
			y1 = 0
		}
	}
	return x0, y0, x1, y1
}

type rangeU32 struct{ Lo, Hi uint32 }

// decomposeQuadrant recursively subdivides the unsigned [0, 2^interleaveBits)
// square by quadtree level, emitting a contiguous Morton range for any
// node fully covered by [minX,maxX]x[minY,maxY] and recursing into any
// node only partially covered. Stops subdividing (emitting one enclosing
// range) once MaxRanges would otherwise be exceeded or the node is a
// single cell.
//
// Each recursion level fixes 2 more bits of the Morton code (the quadtree
// child index IS the next 2 interleaved bits), so "prefix accumulated so
// far, shifted into position" is already a valid partial Morton code — no
// separate re-interleaving step is needed.
func decomposeQuadrant(minX, minY, maxX, maxY uint32) []rangeU32 {
	var out []rangeU32
	decomposeNode(0, interleaveBits, 0, 0, minX, minY, maxX, maxY, &out)
	return out
}

// decomposeNode considers the quadtree node identified by (prefix,
// bitsLeft): its cell-space extent is [nodeX0,nodeX0+size) x
// [nodeY0,nodeY0+size) where size = 2^bitsLeft. minX..maxY is the fixed
// query box for the whole recursion.
func decomposeNode(prefix uint64, bitsLeft uint, nodeX0, nodeY0 uint32, minX, minY, maxX, maxY uint32, out *[]rangeU32) {
	size := uint32(1) << bitsLeft
	nodeMaxX := nodeX0 + size - 1
	nodeMaxY := nodeY0 + size - 1

	if nodeMaxX < minX || nodeX0 > maxX || nodeMaxY < minY || nodeY0 > maxY {
		return
	}

	fullyInside := minX <= nodeX0 && maxX >= nodeMaxX && minY <= nodeY0 && maxY >= nodeMaxY
	if fullyInside || bitsLeft == 0 || len(*out) >= MaxRanges {
		origin := prefix << (2 * bitsLeft)
		count := uint64(size) * uint64(size)
		*out = append(*out, rangeU32{Lo: uint32(origin), Hi: uint32(origin + count - 1)})
		return
	}

	half := bitsLeft - 1
	halfSize := size / 2
	children := [4]struct{ ox, oy uint32 }{
		{nodeX0, nodeY0},
		{nodeX0 + halfSize, nodeY0},
		{nodeX0, nodeY0 + halfSize},
		{nodeX0 + halfSize, nodeY0 + halfSize},
	}
	for i, c := range children {
		decomposeNode(prefix<<2|uint64(i), half, c.ox, c.oy, minX, minY, maxX, maxY, out)
	}
}
