// Package navmesh implements Phoenix's navigation mesh: a half-edge
// constrained Delaunay triangulation over fixed-capacity arrays, A* path
// queries over face adjacency, and the funnel algorithm, per spec.md §3/
// §4.9.
package navmesh

import (
	"errors"

	"github.com/phoenix-sim/phoenix-core/internal/container"
	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
)

// None is the sentinel "no index" value shared by VertexID/HalfEdgeID/FaceID.
const None = -1

// VertexID, HalfEdgeID, FaceID index into a Mesh's fixed arrays.
type VertexID int32
type HalfEdgeID int32
type FaceID int32

// Vertex is a mesh point.
type Vertex struct {
	Pos fixedpoint.Vec2
}

// HalfEdge is one directed edge of a triangle, per spec.md §3.
type HalfEdge struct {
	VertA, VertB VertexID
	Twin         HalfEdgeID // None on the mesh border
	Next         HalfEdgeID
	Face         FaceID
	Locked       bool // constrained edges Delaunay flips must not touch
	alive        bool
}

// Face is a triangle, alive iff HalfEdgeHead != None and its ring closes.
type Face struct {
	HalfEdgeHead HalfEdgeID
	UserData     int64
	alive        bool
}

var (
	// ErrTwinConflict is returned when linkTwins would overwrite an edge's
	// existing, different twin — a precondition violation rather
	// than silently corrupting the twin-reflexivity invariant (Open
	// Question resolved in DESIGN.md).
	ErrTwinConflict = errors.New("navmesh: half-edge already has a conflicting twin")
	// ErrMeshFull is returned when a fixed-capacity array cannot accept a
	// new vertex/half-edge/face.
	ErrMeshFull = errors.New("navmesh: mesh capacity exhausted")
	// ErrDuplicateVertex is returned by InsertPoint when p coincides
	// exactly with an existing vertex.
	ErrDuplicateVertex = errors.New("navmesh: duplicate vertex")
	// ErrNoContainingFace is returned when a point lies outside every face.
	ErrNoContainingFace = errors.New("navmesh: point outside mesh bounds")
)

// Mesh is a fixed-capacity half-edge CDT, per spec.md §3.
type Mesh struct {
	vertices   *container.Array[Vertex]
	halfEdges  *container.Array[HalfEdge]
	faces      *container.Array[Face]
	freeHE     []HalfEdgeID
	freeFaces  []FaceID
	fixDelaunay bool

	// minX/minY/maxX/maxY are the bounds the current super-triangle
	// covers, remembered so Reset can rebuild it after a
	// delete_edges_and_points replay and Resize can grow/shrink it for
	// set_nav_mesh_size.
	minX, minY, maxX, maxY float64

	obstacles   []Obstacle
	obstacleBVH *container.BVH
}

// NewMesh constructs an empty Mesh with room for the given counts.
func NewMesh(maxVertices, maxHalfEdges, maxFaces int) *Mesh {
	return &Mesh{
		vertices:    container.NewArray[Vertex](maxVertices),
		halfEdges:   container.NewArray[HalfEdge](maxHalfEdges),
		faces:       container.NewArray[Face](maxFaces),
		fixDelaunay: true,
		obstacleBVH: container.NewBVH(maxObstacleLeaves),
	}
}

// SetFixDelaunayTriangulations toggles whether InsertPoint/InsertEdge run
// the Delaunay repair pass — the mesh_set_fix_delaunay_triangulations
// action verb (§[FULL] supplemented features).
func (m *Mesh) SetFixDelaunayTriangulations(enabled bool) { m.fixDelaunay = enabled }

// Bounds returns the box the mesh's current super-triangle covers.
func (m *Mesh) Bounds() (minX, minY, maxX, maxY float64) {
	return m.minX, m.minY, m.maxX, m.maxY
}

// Reset discards every vertex/half-edge/face and rebuilds a fresh
// super-triangle over the mesh's current bounds, preserving obstacles and
// the fix-Delaunay flag. This is the rebuild half of the
// delete_edges_and_points/set_nav_mesh_size action verbs, grounded on
// FeatureNavMesh.cpp's RebuildNavMesh: reset, then the caller replays
// whatever dynamic points/edges still apply.
func (m *Mesh) Reset() {
	m.vertices.Clear()
	m.halfEdges.Clear()
	m.faces.Clear()
	m.freeHE = nil
	m.freeFaces = nil
	m.buildSuperTriangle()
}

// Resize changes the mesh's bounding box and resets it to a single
// super-triangle covering the new bounds — the set_nav_mesh_size action
// verb.
func (m *Mesh) Resize(minX, minY, maxX, maxY float64) {
	m.minX, m.minY, m.maxX, m.maxY = minX, minY, maxX, maxY
	m.Reset()
}

// buildSuperTriangle allocates the single CCW triangle covering the
// mesh's current bounds with margin, the standard CDT bootstrap shared by
// NewMeshWithBounds and Reset.
func (m *Mesh) buildSuperTriangle() {
	width, height := m.maxX-m.minX, m.maxY-m.minY
	cx, cy := (m.minX+m.maxX)/2, (m.minY+m.maxY)/2
	span := width
	if height > span {
		span = height
	}
	span *= 20

	a := fixedpoint.NewVec2(cx-span, cy-span)
	b := fixedpoint.NewVec2(cx+span*2, cy-span)
	c := fixedpoint.NewVec2(cx-span, cy+span*2)

	va, _ := m.addVertex(a)
	vb, _ := m.addVertex(b)
	vc, _ := m.addVertex(c)

	ab := m.allocHalfEdge(va, vb)
	bc := m.allocHalfEdge(vb, vc)
	ca := m.allocHalfEdge(vc, va)
	m.makeFace(ab, bc, ca)
}

func (m *Mesh) vertex(id VertexID) *Vertex   { return m.vertices.At(int(id)) }
func (m *Mesh) he(id HalfEdgeID) *HalfEdge    { return m.halfEdges.At(int(id)) }
func (m *Mesh) face(id FaceID) *Face          { return m.faces.At(int(id)) }

func (m *Mesh) addVertex(p fixedpoint.Vec2) (VertexID, bool) {
	id := m.vertices.Num()
	if !m.vertices.Push(Vertex{Pos: p}) {
		return 0, false
	}
	return VertexID(id), true
}

func (m *Mesh) allocHalfEdge(a, b VertexID) HalfEdgeID {
	he := HalfEdge{VertA: a, VertB: b, Twin: None, Next: None, Face: None, alive: true}
	if n := len(m.freeHE); n > 0 {
		id := m.freeHE[n-1]
		m.freeHE = m.freeHE[:n-1]
		*m.halfEdges.At(int(id)) = he
		return id
	}
	id := m.halfEdges.Num()
	if !m.halfEdges.Push(he) {
		return None
	}
	return HalfEdgeID(id)
}

func (m *Mesh) allocFace() FaceID {
	f := Face{HalfEdgeHead: None, alive: true}
	if n := len(m.freeFaces); n > 0 {
		id := m.freeFaces[n-1]
		m.freeFaces = m.freeFaces[:n-1]
		*m.faces.At(int(id)) = f
		return id
	}
	id := m.faces.Num()
	if !m.faces.Push(f) {
		return None
	}
	return FaceID(id)
}

func (m *Mesh) freeFace(id FaceID) {
	f := m.face(id)
	f.alive = false
	f.HalfEdgeHead = None
	m.freeFaces = append(m.freeFaces, id)
}

func (m *Mesh) freeHalfEdge(id HalfEdgeID) {
	e := m.he(id)
	e.alive = false
	if t := e.Twin; t != None && m.he(t).Twin == id {
		m.he(t).Twin = None
	}
	m.freeHE = append(m.freeHE, id)
}

// IsFaceAlive reports whether f is a live triangle whose ring closes, per
// spec.md §3's face-liveness invariant.
func (m *Mesh) IsFaceAlive(f FaceID) bool {
	if f == None {
		return false
	}
	face := m.face(f)
	if !face.alive || face.HalfEdgeHead == None {
		return false
	}
	e0 := face.HalfEdgeHead
	e1 := m.he(e0).Next
	if e1 == None {
		return false
	}
	e2 := m.he(e1).Next
	if e2 == None {
		return false
	}
	return m.he(e2).Next == e0
}

// orient2D returns twice the signed area of (a,b,c): positive if CCW.
func orient2D(a, b, c fixedpoint.Vec2) fixedpoint.Fixed {
	return b.Sub(a).Cross(c.Sub(a))
}

// makeFace wires three half-edges a->b->c->a into a new CCW triangle.
func (m *Mesh) makeFace(ab, bc, ca HalfEdgeID) FaceID {
	f := m.allocFace()
	if f == None {
		return None
	}
	m.he(ab).Next, m.he(bc).Next, m.he(ca).Next = bc, ca, ab
	m.he(ab).Face, m.he(bc).Face, m.he(ca).Face = f, f, f
	m.face(f).HalfEdgeHead = ab
	return f
}

// linkTwins sets e and other as each other's twin, returning
// ErrTwinConflict if either already has a different, set twin.
func (m *Mesh) linkTwins(e, other HalfEdgeID) error {
	he, ot := m.he(e), m.he(other)
	if he.Twin != None && he.Twin != other {
		return ErrTwinConflict
	}
	if ot.Twin != None && ot.Twin != e {
		return ErrTwinConflict
	}
	he.Twin, ot.Twin = other, e
	return nil
}

// findTwin scans live half-edges for one running b->a, the reverse of a->b
// — used to relink twins after structural changes. Linear scan, the same
// "small mesh, scan is fine" discipline spec.md uses for face location.
func (m *Mesh) findTwin(a, b VertexID) HalfEdgeID {
	for i := 0; i < m.halfEdges.Num(); i++ {
		e := m.he(HalfEdgeID(i))
		if e.alive && e.VertA == b && e.VertB == a {
			return HalfEdgeID(i)
		}
	}
	return None
}
