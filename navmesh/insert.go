package navmesh

import "github.com/phoenix-sim/phoenix-core/internal/fixedpoint"

// locateFace finds the face containing p by scanning every live face and
// testing p against each of its three half-planes — a linear scan, the
// same "meshes are small, scan is fine" discipline the rest of this
// package uses for face location rather than a point-location structure.
func (m *Mesh) locateFace(p fixedpoint.Vec2) FaceID {
	for i := 0; i < m.faces.Num(); i++ {
		f := FaceID(i)
		if !m.IsFaceAlive(f) {
			continue
		}
		e0 := m.face(f).HalfEdgeHead
		e1 := m.he(e0).Next
		e2 := m.he(e1).Next
		a, b, c := m.vertex(m.he(e0).VertA).Pos, m.vertex(e1va(m, e1)).Pos, m.vertex(e1va(m, e2)).Pos
		if orient2D(a, b, p).Raw() >= 0 && orient2D(b, c, p).Raw() >= 0 && orient2D(c, a, p).Raw() >= 0 {
			return f
		}
	}
	return None
}

func e1va(m *Mesh, e HalfEdgeID) VertexID { return m.he(e).VertA }

// InsertPoint inserts p into the mesh, per spec.md §4.9's InsertPoint
// operation: locate the containing face, split it into three around p,
// then (if enabled) repair the Delaunay condition around the new vertex.
// A point exactly on an existing vertex is rejected with ErrDuplicateVertex.
func (m *Mesh) InsertPoint(p fixedpoint.Vec2) (VertexID, error) {
	for i := 0; i < m.vertices.Num(); i++ {
		q := m.vertex(VertexID(i)).Pos
		if q.X.Raw() == p.X.Raw() && q.Y.Raw() == p.Y.Raw() {
			return None, ErrDuplicateVertex
		}
	}
	f := m.locateFace(p)
	if f == None {
		return 0, ErrNoContainingFace
	}
	return m.splitFace(f, p)
}

// splitFace replaces face f (vertices a,b,c) with three new faces fanning
// out from a newly inserted vertex at p.
func (m *Mesh) splitFace(f FaceID, p fixedpoint.Vec2) (VertexID, error) {
	e0 := m.face(f).HalfEdgeHead
	e1 := m.he(e0).Next
	e2 := m.he(e1).Next

	va, vb, vc := m.he(e0).VertA, m.he(e1).VertA, m.he(e2).VertA
	twin0, twin1, twin2 := m.he(e0).Twin, m.he(e1).Twin, m.he(e2).Twin

	vp, ok := m.addVertex(p)
	if !ok {
		return 0, ErrMeshFull
	}

	m.freeHalfEdge(e0)
	m.freeHalfEdge(e1)
	m.freeHalfEdge(e2)
	m.freeFace(f)

	newF, err := m.buildFan(vp, []VertexID{va, vb, vc}, []HalfEdgeID{None, None, None})
	if err != nil {
		return 0, err
	}
	// Relink the three outer edges to their original external twins.
	if err := m.restoreOuterTwin(newF[0][0], twin0); err != nil {
		return 0, err
	}
	if err := m.restoreOuterTwin(newF[1][0], twin1); err != nil {
		return 0, err
	}
	if err := m.restoreOuterTwin(newF[2][0], twin2); err != nil {
		return 0, err
	}

	if m.fixDelaunay {
		// The edge opposite the newly inserted apex in each new triangle is
		// "outer" (index 0) — the boundary shared with the pre-existing
		// neighbor across the original twin.
		queue := []HalfEdgeID{newF[0][0], newF[1][0], newF[2][0]}
		m.fixDelaunayAround(vp, queue)
	}
	return vp, nil
}

// buildFan builds len(ring) triangles fanning out from apex through
// consecutive pairs of ring, returning for each triangle its
// [outer, inner-to-next, inner-from-prev] half-edge ids so callers can
// relink twins. outerTwins[i], if not None, is reserved but unused here —
// retained for call-site symmetry with splitFace.
func (m *Mesh) buildFan(apex VertexID, ring []VertexID, _ []HalfEdgeID) ([][3]HalfEdgeID, error) {
	n := len(ring)
	spokes := make([]HalfEdgeID, n) // spokes[i] = apex->ring[i]
	for i := 0; i < n; i++ {
		spokes[i] = m.allocHalfEdge(apex, ring[i])
		if spokes[i] == None {
			return nil, ErrMeshFull
		}
	}
	result := make([][3]HalfEdgeID, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		outer := m.allocHalfEdge(ring[i], ring[j])
		if outer == None {
			return nil, ErrMeshFull
		}
		spokeIn := m.allocHalfEdge(ring[j], apex)
		if spokeIn == None {
			return nil, ErrMeshFull
		}
		// Triangle apex -> ring[i] -> ring[j] -> apex.
		m.makeFace(spokes[i], outer, spokeIn)
		if err := m.linkTwins(spokeIn, spokes[j]); err != nil {
			return nil, err
		}
		result[i] = [3]HalfEdgeID{outer, spokes[i], spokeIn}
	}
	return result, nil
}

func (m *Mesh) restoreOuterTwin(outer, originalTwin HalfEdgeID) error {
	if originalTwin == None {
		return nil
	}
	return m.linkTwins(outer, originalTwin)
}

// inCircumcircle reports whether d lies strictly inside the circumcircle
// of CCW triangle (a,b,c), via the standard incircle determinant,
// evaluated in Value(Q-format) fixed-point.
func inCircumcircle(a, b, c, d fixedpoint.Vec2) bool {
	ax, ay := fixedpoint.Sub(a.X, d.X), fixedpoint.Sub(a.Y, d.Y)
	bx, by := fixedpoint.Sub(b.X, d.X), fixedpoint.Sub(b.Y, d.Y)
	cx, cy := fixedpoint.Sub(c.X, d.X), fixedpoint.Sub(c.Y, d.Y)

	aSq := fixedpoint.Add(fixedpoint.Mul(ax, ax), fixedpoint.Mul(ay, ay))
	bSq := fixedpoint.Add(fixedpoint.Mul(bx, bx), fixedpoint.Mul(by, by))
	cSq := fixedpoint.Add(fixedpoint.Mul(cx, cx), fixedpoint.Mul(cy, cy))

	det := fixedpoint.Add(
		fixedpoint.Add(
			fixedpoint.Mul(ax, fixedpoint.Sub(fixedpoint.Mul(by, cSq), fixedpoint.Mul(bSq, cy))),
			fixedpoint.Mul(ay, fixedpoint.Sub(fixedpoint.Mul(bSq, cx), fixedpoint.Mul(bx, cSq))),
		),
		fixedpoint.Mul(aSq, fixedpoint.Sub(fixedpoint.Mul(bx, cy), fixedpoint.Mul(by, cx))),
	)
	return det.Raw() > 0
}

// fixDelaunayAround drains a worklist of half-edges opposite the newly
// inserted vertex vp, flipping any that violate the empty-circumcircle
// condition and are not Locked (constrained edges are never flipped), per
// spec.md §4.9's FixDelaunayConditions.
func (m *Mesh) fixDelaunayAround(vp VertexID, queue []HalfEdgeID) {
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if !m.he(e).alive || m.he(e).Locked {
			continue
		}
		twin := m.he(e).Twin
		if twin == None || !m.he(twin).alive {
			continue
		}
		apex := m.oppositeVertex(e)
		farApex := m.oppositeVertex(twin)
		if apex == None || farApex == None {
			continue
		}
		a, b := m.vertex(m.he(e).VertA).Pos, m.vertex(m.he(e).VertB).Pos
		p := m.vertex(farApex).Pos
		if inCircumcircle(a, b, m.vertex(apex).Pos, p) {
			e1, e2, ok := m.flipEdge(e)
			if ok {
				queue = append(queue, e1, e2)
			}
		}
	}
}

// oppositeVertex returns the vertex of e.Face opposite half-edge e (i.e.
// Next.VertB, the apex of the triangle not on e).
func (m *Mesh) oppositeVertex(e HalfEdgeID) VertexID {
	next := m.he(e).Next
	if next == None {
		return None
	}
	return m.he(next).VertB
}

// flipEdge replaces diagonal e (and its twin) of the quad formed by the
// two triangles sharing it — a-b-c and b-a-d — with the other diagonal
// c-d, the classic Delaunay edge flip. Returns the two new edges opposite
// the flipped diagonal, for re-enqueuing.
func (m *Mesh) flipEdge(e HalfEdgeID) (HalfEdgeID, HalfEdgeID, bool) {
	twin := m.he(e).Twin
	if twin == None {
		return None, None, false
	}
	outerBC, outerCA := m.he(e).Next, m.nextNext(e)
	outerAD, outerDB := m.he(twin).Next, m.nextNext(twin)

	a, b := m.he(e).VertA, m.he(e).VertB
	c := m.he(outerBC).VertB
	d := m.he(outerAD).VertB

	f1, f2 := m.he(e).Face, m.he(twin).Face
	twinBC, twinCA := m.he(outerBC).Twin, m.he(outerCA).Twin
	twinAD, twinDB := m.he(outerAD).Twin, m.he(outerDB).Twin

	m.freeHalfEdge(e)
	m.freeHalfEdge(twin)
	m.freeFace(f1)
	m.freeFace(f2)
	m.freeHalfEdge(outerBC)
	m.freeHalfEdge(outerCA)
	m.freeHalfEdge(outerAD)
	m.freeHalfEdge(outerDB)

	cd := m.allocHalfEdge(c, d)
	dc := m.allocHalfEdge(d, c)
	m.linkTwins(cd, dc)

	ad := m.allocHalfEdge(a, d)
	ca := m.allocHalfEdge(c, a)
	m.makeFace(ad, dc, ca)
	if twinAD != None {
		m.linkTwins(ad, twinAD)
	}
	if twinCA != None {
		m.linkTwins(ca, twinCA)
	}

	bc := m.allocHalfEdge(b, c)
	db := m.allocHalfEdge(d, b)
	m.makeFace(bc, cd, db)
	if twinBC != None {
		m.linkTwins(bc, twinBC)
	}
	if twinDB != None {
		m.linkTwins(db, twinDB)
	}

	return ad, bc, true
}

// nextNext returns e.Next.Next (the half-edge preceding e in its triangle's
// ring, since the ring has exactly three edges).
func (m *Mesh) nextNext(e HalfEdgeID) HalfEdgeID {
	return m.he(m.he(e).Next).Next
}
