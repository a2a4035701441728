package session

import (
	"github.com/sirupsen/logrus"

	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
	"github.com/phoenix-sim/phoenix-core/navmesh"
)

// defaultPathFollowerSpeed is used when find_path's speed slot (Data[2])
// is left zero.
var defaultPathFollowerSpeed = fixedpoint.NewSpeed(5)

// NewNavMeshFeature builds the feature owning the nav mesh/path action
// verbs of spec.md §6, grounded on original_source's FeatureNavMesh.cpp:
// insert_point/insert_edge mutate the mesh (and are remembered for
// replay), set_nav_mesh_size/delete_edges_and_points rebuild it from
// scratch since CDT_InsertPoint/CDT_InsertEdge have no removal
// counterpart, and find_path/path_step/path_set_stepping drive the one
// active PathFollower per world.
func NewNavMeshFeature() *Feature {
	f := NewFeature("navmesh")

	f.OnAction(HandleWorldAction, func(s *Session, w *World, a *Action) bool {
		switch a.Verb {
		case "set_nav_mesh_size":
			handleSetNavMeshSize(w, a)
		case "insert_point":
			handleInsertPoint(w, a)
		case "insert_edge":
			handleInsertEdge(w, a)
		case "delete_edges_and_points":
			handleDeleteEdgesAndPoints(w, a)
		case "find_path":
			handleFindPath(w, a)
		case "path_step":
			handlePathStep(w, a)
		case "path_set_stepping":
			handlePathSetStepping(w, a)
		case "mesh_set_fix_delaunay_triangulations":
			w.Mesh.SetFixDelaunayTriangulations(a.Data[0].Bool)
		default:
			return false
		}
		return true
	})

	return f
}

// handleSetNavMeshSize resizes the mesh to a (0,0)-(width,height)
// bounding box and drops every remembered dynamic point/edge, per
// FeatureNavMesh.cpp's set_nav_mesh_size (Data[0]=width, Data[1]=height).
func handleSetNavMeshSize(w *World, a *Action) {
	width := a.Data[0].Fixed.Float64()
	height := a.Data[1].Fixed.Float64()
	w.Mesh.Resize(0, 0, width, height)
	w.NavDynamic.Points = nil
	w.NavDynamic.Edges = nil
}

// handleInsertPoint inserts Data[0] into the mesh and remembers it for a
// future rebuild.
func handleInsertPoint(w *World, a *Action) {
	p := a.Data[0].Vec2
	if _, err := w.Mesh.InsertPoint(p); err != nil {
		logrus.Warnf("session: world %q insert_point %v rejected: %v", w.Name, p, err)
		return
	}
	w.NavDynamic.Points = append(w.NavDynamic.Points, p)
}

// handleInsertEdge constrains the mesh between Data[0] and Data[1] and
// remembers the edge for a future rebuild.
func handleInsertEdge(w *World, a *Action) {
	p0, p1 := a.Data[0].Vec2, a.Data[1].Vec2
	if err := w.Mesh.InsertEdgeByPoints(p0, p1); err != nil {
		logrus.Warnf("session: world %q insert_edge %v-%v rejected: %v", w.Name, p0, p1, err)
		return
	}
	w.NavDynamic.Edges = append(w.NavDynamic.Edges, [2]fixedpoint.Vec2{p0, p1})
}

// handleDeleteEdgesAndPoints drops every remembered point within radius
// of Data[0] and every remembered edge passing within radius of it, then
// rebuilds the mesh from the surviving set — per FeatureNavMesh.cpp's
// delete_edges_and_points (Data[0]=center, Data[1]=radius).
func handleDeleteEdgesAndPoints(w *World, a *Action) {
	center := a.Data[0].Vec2
	radius := a.Data[1].Fixed

	points := w.NavDynamic.Points[:0:0]
	for _, p := range w.NavDynamic.Points {
		if p.Sub(center).Length().Raw() >= radius.Raw() {
			points = append(points, p)
		}
	}
	edges := w.NavDynamic.Edges[:0:0]
	for _, e := range w.NavDynamic.Edges {
		if distancePointToSegment(center, e[0], e[1]).Raw() >= radius.Raw() {
			edges = append(edges, e)
		}
	}
	w.NavDynamic.Points = points
	w.NavDynamic.Edges = edges
	rebuildNavMesh(w)
}

// rebuildNavMesh resets the mesh over its current bounds and replays
// every remembered dynamic point and edge, in insertion order.
func rebuildNavMesh(w *World) {
	minX, minY, maxX, maxY := w.Mesh.Bounds()
	w.Mesh.Resize(minX, minY, maxX, maxY)
	for _, p := range w.NavDynamic.Points {
		if _, err := w.Mesh.InsertPoint(p); err != nil {
			logrus.Warnf("session: world %q nav mesh rebuild dropped point %v: %v", w.Name, p, err)
		}
	}
	for _, e := range w.NavDynamic.Edges {
		if err := w.Mesh.InsertEdgeByPoints(e[0], e[1]); err != nil {
			logrus.Warnf("session: world %q nav mesh rebuild dropped edge %v-%v: %v", w.Name, e[0], e[1], err)
		}
	}
}

// handleFindPath computes a path from Data[0] to Data[1] and seeds the
// world's active PathFollower from it, ready for path_step/
// path_set_stepping. Data[2] optionally overrides the follower's speed.
func handleFindPath(w *World, a *Action) {
	start, goal := a.Data[0].Vec2, a.Data[1].Vec2
	path, err := w.Mesh.FindPath(start, goal)
	if err != nil {
		logrus.Warnf("session: world %q find_path %v->%v failed: %v", w.Name, start, goal, err)
		return
	}
	speed := a.Data[2].Fixed
	if speed.Raw() == 0 {
		speed = defaultPathFollowerSpeed
	}
	w.NavDynamic.Path = navmesh.NewPathFollower(path, speed)
}

// handlePathStep advances the world's active path follower by Data[0]'s
// dt, the interactive per-dispatch stepping named in SPEC_FULL.md's
// path_step supplement.
func handlePathStep(w *World, a *Action) {
	if w.NavDynamic.Path == nil {
		return
	}
	w.NavDynamic.Path.Step(a.Data[0].Fixed)
}

// handlePathSetStepping toggles whether path_step advances the active
// follower at all.
func handlePathSetStepping(w *World, a *Action) {
	if w.NavDynamic.Path == nil {
		return
	}
	w.NavDynamic.Path.SetStepping(a.Data[0].Bool)
}

// distancePointToSegment returns the shortest distance from p to the
// segment [a,b], clamping the projection to the segment's extent.
func distancePointToSegment(p, a, b fixedpoint.Vec2) fixedpoint.Fixed {
	dir := b.Sub(a)
	length := dir.Length()
	if length.Raw() == 0 {
		return p.Sub(a).Length()
	}
	invLen := fixedpoint.NewInvFixed(length)
	unit := fixedpoint.Vec2{X: invLen.MulFixed(dir.X), Y: invLen.MulFixed(dir.Y)}
	proj := p.Sub(a).Dot(unit)
	if proj.Raw() < 0 {
		proj = fixedpoint.Fixed{}
	} else if proj.Raw() > length.Raw() {
		proj = length
	}
	closest := a.Add(unit.Scale(proj))
	return p.Sub(closest).Length()
}
