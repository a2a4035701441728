package navmesh

import (
	"container/heap"
	"errors"

	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
)

// ErrNoPath is returned when no face-adjacency route connects start and
// goal.
var ErrNoPath = errors.New("navmesh: no path between start and goal faces")

// FindPath locates the faces containing start and goal, runs A* over the
// face-adjacency graph (non-locked shared edges only — locked/constrained
// edges act as walls), then strings the portal sequence through the
// funnel algorithm to produce a taut polyline, per spec.md §4.9.
func (m *Mesh) FindPath(start, goal fixedpoint.Vec2) ([]fixedpoint.Vec2, error) {
	startFace := m.locateFace(start)
	goalFace := m.locateFace(goal)
	if startFace == None || goalFace == None {
		return nil, ErrNoPath
	}
	if m.faceBlocked(startFace) || m.faceBlocked(goalFace) {
		return nil, ErrNoPath
	}
	if startFace == goalFace {
		return []fixedpoint.Vec2{start, goal}, nil
	}

	faces, err := m.aStarFaces(startFace, goalFace, goal)
	if err != nil {
		return nil, err
	}
	portals := m.buildPortals(faces, start, goal)
	return funnel(start, goal, portals), nil
}

type faceNode struct {
	face     FaceID
	g        fixedpoint.Fixed
	priority fixedpoint.Fixed
	index    int
}

type faceHeap []*faceNode

func (h faceHeap) Len() int            { return len(h) }
func (h faceHeap) Less(i, j int) bool  { return h[i].priority.Raw() < h[j].priority.Raw() }
func (h faceHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index, h[j].index = i, j }
func (h *faceHeap) Push(x any)         { n := x.(*faceNode); n.index = len(*h); *h = append(*h, n) }
func (h *faceHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func (m *Mesh) faceCentroid(f FaceID) fixedpoint.Vec2 {
	e0 := m.face(f).HalfEdgeHead
	e1, e2 := m.he(e0).Next, m.nextNext(e0)
	a, b, c := m.vertex(m.he(e0).VertA).Pos, m.vertex(m.he(e1).VertA).Pos, m.vertex(m.he(e2).VertA).Pos
	third := fixedpoint.NewInvFixed(fixedpoint.NewValue(3))
	sum := a.Add(b).Add(c)
	return fixedpoint.Vec2{X: third.MulFixed(sum.X), Y: third.MulFixed(sum.Y)}
}

// neighborsOf visits each face adjacent to f across a live, non-Locked
// edge, along with the shared edge's half-edge id (for portal extraction).
func (m *Mesh) neighborsOf(f FaceID, visit func(n FaceID, shared HalfEdgeID)) {
	e0 := m.face(f).HalfEdgeHead
	e1, e2 := m.he(e0).Next, m.nextNext(e0)
	for _, e := range []HalfEdgeID{e0, e1, e2} {
		if m.he(e).Locked {
			continue
		}
		t := m.he(e).Twin
		if t == None || !m.he(t).alive {
			continue
		}
		n := m.he(t).Face
		if n != None && m.IsFaceAlive(n) && !m.faceBlocked(n) {
			visit(n, e)
		}
	}
}

func (m *Mesh) aStarFaces(start, goal FaceID, goalPos fixedpoint.Vec2) ([]FaceID, error) {
	gScore := map[FaceID]fixedpoint.Fixed{start: {}}
	cameFrom := map[FaceID]FaceID{}
	closed := map[FaceID]bool{}

	open := &faceHeap{}
	heap.Init(open)
	heap.Push(open, &faceNode{face: start, g: fixedpoint.Fixed{}, priority: m.faceCentroid(start).Sub(goalPos).Length()})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*faceNode)
		if closed[cur.face] {
			continue
		}
		closed[cur.face] = true
		if cur.face == goal {
			return reconstructFacePath(cameFrom, goal), nil
		}
		m.neighborsOf(cur.face, func(n FaceID, shared HalfEdgeID) {
			if closed[n] {
				return
			}
			stepCost := m.faceCentroid(cur.face).Sub(m.faceCentroid(n)).Length()
			tentative := fixedpoint.Add(gScore[cur.face], stepCost)
			if existing, ok := gScore[n]; ok && existing.Raw() <= tentative.Raw() {
				return
			}
			gScore[n] = tentative
			cameFrom[n] = cur.face
			h := m.faceCentroid(n).Sub(goalPos).Length()
			heap.Push(open, &faceNode{face: n, g: tentative, priority: fixedpoint.Add(tentative, h)})
		})
	}
	return nil, ErrNoPath
}

func reconstructFacePath(cameFrom map[FaceID]FaceID, goal FaceID) []FaceID {
	path := []FaceID{goal}
	cur := goal
	for {
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		path = append([]FaceID{prev}, path...)
		cur = prev
	}
	return path
}

// portal is a left/right pair of points the funnel must pass between.
type portal struct{ left, right fixedpoint.Vec2 }

// buildPortals converts a face path into the sequence of shared-edge
// portals the funnel algorithm walks, bookended by start and goal as
// degenerate (left==right) portals.
func (m *Mesh) buildPortals(faces []FaceID, start, goal fixedpoint.Vec2) []portal {
	portals := []portal{{start, start}}
	for i := 0; i+1 < len(faces); i++ {
		var shared HalfEdgeID = None
		m.neighborsOf(faces[i], func(n FaceID, e HalfEdgeID) {
			if n == faces[i+1] && shared == None {
				shared = e
			}
		})
		if shared == None {
			continue
		}
		a := m.vertex(m.he(shared).VertA).Pos
		b := m.vertex(m.he(shared).VertB).Pos
		portals = append(portals, portal{left: b, right: a})
	}
	portals = append(portals, portal{goal, goal})
	return portals
}

// funnel runs the Simple Stupid Funnel Algorithm over a portal sequence,
// producing a taut polyline from start to goal, per spec.md §4.9's
// funnel(apex, portal_left, portal_right) description.
func funnel(start, goal fixedpoint.Vec2, portals []portal) []fixedpoint.Vec2 {
	path := []fixedpoint.Vec2{start}
	apex, left, right := start, start, start
	apexIdx, leftIdx, rightIdx := 0, 0, 0

	for i := 1; i < len(portals); i++ {
		p := portals[i]

		if triArea2(apex, right, p.right).Raw() <= 0 {
			if apex == right || triArea2(apex, left, p.right).Raw() > 0 {
				right = p.right
				rightIdx = i
			} else {
				path = append(path, left)
				apex, apexIdx = left, leftIdx
				left, right = apex, apex
				leftIdx, rightIdx = apexIdx, apexIdx
				i = apexIdx
				continue
			}
		}

		if triArea2(apex, left, p.left).Raw() >= 0 {
			if apex == left || triArea2(apex, right, p.left).Raw() < 0 {
				left = p.left
				leftIdx = i
			} else {
				path = append(path, right)
				apex, apexIdx = right, rightIdx
				left, right = apex, apex
				leftIdx, rightIdx = apexIdx, apexIdx
				i = apexIdx
				continue
			}
		}
	}
	path = append(path, goal)
	return path
}

func triArea2(a, b, c fixedpoint.Vec2) fixedpoint.Fixed {
	return orient2D(a, b, c)
}
