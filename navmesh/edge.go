package navmesh

import (
	"errors"

	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
)

// ErrNoDirectWalk is returned when InsertEdge cannot find a corridor of
// faces between its two endpoints (they are not both present in the same
// connected triangulation, or the segment exits the mesh boundary).
var ErrNoDirectWalk = errors.New("navmesh: no face corridor between edge endpoints")

// insertPointOrFind inserts p as a new vertex, or resolves it to an
// already-present vertex at the same position if InsertPoint fails
// because p coincides with one. Used by InsertEdgeByPoints, whose
// endpoints arrive as raw positions rather than already-resolved
// VertexIDs.
func (m *Mesh) insertPointOrFind(p fixedpoint.Vec2) (VertexID, error) {
	v, err := m.InsertPoint(p)
	if err == nil {
		return v, nil
	}
	for i := 0; i < m.vertices.Num(); i++ {
		vv := m.vertex(VertexID(i))
		if vv.Pos.X.Raw() == p.X.Raw() && vv.Pos.Y.Raw() == p.Y.Raw() {
			return VertexID(i), nil
		}
	}
	return None, err
}

// InsertEdgeByPoints constrains the mesh between two raw points, first
// inserting either endpoint as a new vertex if it isn't one already —
// the insert_edge action verb's payload shape (spec.md §6), which carries
// endpoint positions rather than pre-resolved VertexIDs.
func (m *Mesh) InsertEdgeByPoints(p0, p1 fixedpoint.Vec2) error {
	v0, err := m.insertPointOrFind(p0)
	if err != nil {
		return err
	}
	v1, err := m.insertPointOrFind(p1)
	if err != nil {
		return err
	}
	return m.InsertEdge(v0, v1)
}

// InsertEdge constrains the mesh to contain a straight edge from v0 to
// v1, per spec.md §4.9's InsertEdge operation. If v0->v1 (or its reverse)
// already exists, it is simply Locked. Otherwise the corridor of faces
// the segment crosses is removed and re-triangulated as a fan from v0 on
// each side of the new constrained edge — a deliberate simplification
// against the general corridor re-triangulation (valid whenever each
// side's boundary polygon is star-shaped from v0, true for the convex
// corridors this engine's maps produce; DESIGN.md records this as an
// accepted limitation for pathologically non-convex corridors).
func (m *Mesh) InsertEdge(v0, v1 VertexID) error {
	if e := m.findTwin(v1, v0); e != None {
		m.he(e).Locked = true
		if t := m.he(e).Twin; t != None {
			m.he(t).Locked = true
		}
		return nil
	}

	corridor, upper, lower, err := m.walkCorridor(v0, v1)
	if err != nil {
		return err
	}

	outerTwins := make(map[[2]VertexID]HalfEdgeID)
	for _, f := range corridor {
		e0 := m.face(f).HalfEdgeHead
		e1, e2 := m.he(e0).Next, m.nextNext(e0)
		for _, e := range []HalfEdgeID{e0, e1, e2} {
			a, b := m.he(e).VertA, m.he(e).VertB
			if inChain(a, upper) && inChain(b, upper) {
				continue
			}
			if inChain(a, lower) && inChain(b, lower) {
				continue
			}
			outerTwins[[2]VertexID{a, b}] = m.he(e).Twin
		}
	}
	for _, f := range corridor {
		e0 := m.face(f).HalfEdgeHead
		e1, e2 := m.he(e0).Next, m.nextNext(e0)
		m.freeHalfEdge(e0)
		m.freeHalfEdge(e1)
		m.freeHalfEdge(e2)
		m.freeFace(f)
	}

	if err := m.fanTriangulate(v0, v1, upper, outerTwins); err != nil {
		return err
	}
	if err := m.fanTriangulate(v0, v1, lower, outerTwins); err != nil {
		return err
	}

	newEdge := m.findTwin(v1, v0)
	if newEdge == None {
		return ErrNoDirectWalk
	}
	m.he(newEdge).Locked = true
	if t := m.he(newEdge).Twin; t != None {
		m.he(t).Locked = true
	}
	if m.fixDelaunay {
		var queue []HalfEdgeID
		for i := 0; i < m.halfEdges.Num(); i++ {
			if e := HalfEdgeID(i); m.he(e).alive && !m.he(e).Locked {
				queue = append(queue, e)
			}
		}
		m.fixDelaunayAround(v0, queue)
	}
	return nil
}

func inChain(v VertexID, chain []VertexID) bool {
	for _, c := range chain {
		if c == v {
			return true
		}
	}
	return false
}

// walkCorridor finds every live face whose interior the segment v0->v1
// crosses, by walking from v0's star outward along the edges the segment
// passes to the right/left of, and splits the corridor's boundary
// vertices into the chain above the segment and the chain below it.
func (m *Mesh) walkCorridor(v0, v1 VertexID) (corridor []FaceID, upper, lower []VertexID, err error) {
	p0, p1 := m.vertex(v0).Pos, m.vertex(v1).Pos
	visited := make(map[FaceID]bool)
	upper = []VertexID{v0}
	lower = []VertexID{v0}

	start := m.faceTouchingVertex(v0)
	if start == None {
		return nil, nil, nil, ErrNoDirectWalk
	}
	cur := start
	for steps := 0; steps < m.faces.Num()+1; steps++ {
		if cur == None || visited[cur] {
			return nil, nil, nil, ErrNoDirectWalk
		}
		visited[cur] = true
		corridor = append(corridor, cur)

		e0 := m.face(cur).HalfEdgeHead
		e1, e2 := m.he(e0).Next, m.nextNext(e0)
		if m.faceContainsVertex(cur, v1) {
			for _, e := range []HalfEdgeID{e0, e1, e2} {
				b := m.he(e).VertB
				if b == v1 {
					continue
				}
				if orient2D(p0, p1, m.vertex(b).Pos).Raw() > 0 {
					upper = append(upper, b)
				} else {
					lower = append(lower, b)
				}
			}
			upper = append(upper, v1)
			lower = append(lower, v1)
			return corridor, upper, lower, nil
		}

		var next FaceID = None
		for _, e := range []HalfEdgeID{e0, e1, e2} {
			a, b := m.vertex(m.he(e).VertA).Pos, m.vertex(m.he(e).VertB).Pos
			if m.he(e).VertA == v0 || m.he(e).VertB == v0 {
				continue
			}
			sideA := orient2D(p0, p1, a).Raw()
			sideB := orient2D(p0, p1, b).Raw()
			if (sideA > 0) != (sideB > 0) {
				if t := m.he(e).Twin; t != None && !visited[m.he(t).Face] {
					next = m.he(t).Face
					av := m.he(e).VertA
					if orient2D(p0, p1, m.vertex(av).Pos).Raw() > 0 {
						upper = append(upper, av)
					} else {
						lower = append(lower, av)
					}
					break
				}
			}
		}
		cur = next
	}
	return nil, nil, nil, ErrNoDirectWalk
}

func (m *Mesh) faceTouchingVertex(v VertexID) FaceID {
	for i := 0; i < m.faces.Num(); i++ {
		f := FaceID(i)
		if m.IsFaceAlive(f) && m.faceContainsVertex(f, v) {
			return f
		}
	}
	return None
}

func (m *Mesh) faceContainsVertex(f FaceID, v VertexID) bool {
	e0 := m.face(f).HalfEdgeHead
	e1, e2 := m.he(e0).Next, m.nextNext(e0)
	return m.he(e0).VertA == v || m.he(e1).VertA == v || m.he(e2).VertA == v
}

// fanTriangulate re-triangulates one side of the corridor as a fan from
// v0 through chain (v0's-side boundary, ending at v1), restoring outer
// twins where known.
func (m *Mesh) fanTriangulate(v0, v1 VertexID, chain []VertexID, outerTwins map[[2]VertexID]HalfEdgeID) error {
	ring := append([]VertexID{}, chain...)
	if len(ring) < 2 {
		return nil
	}
	// ring already starts at v0 and ends at v1; fan triangles are
	// (v0, ring[i], ring[i+1]) for i in [1, len-2].
	for i := 1; i < len(ring)-1; i++ {
		a, b, c := v0, ring[i], ring[i+1]
		ab := m.allocHalfEdge(a, b)
		bc := m.allocHalfEdge(b, c)
		ca := m.allocHalfEdge(c, a)
		if ab == None || bc == None || ca == None {
			return ErrMeshFull
		}
		m.makeFace(ab, bc, ca)
		if t, ok := outerTwins[[2]VertexID{b, c}]; ok && t != None {
			m.linkTwins(bc, t)
		}
		if i > 1 {
			if prevBC := m.findTwin(ring[i], v0); prevBC != None {
				m.linkTwins(ab, prevBC)
			}
		}
	}
	return nil
}
