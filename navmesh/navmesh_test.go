package navmesh

import (
	"testing"

	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
)

func TestInsertPointSplitsFaceIntoThree(t *testing.T) {
	m := NewMeshWithBounds(0, 0, 100, 100, 64, 256, 128)
	m.SetFixDelaunayTriangulations(false)

	before := 0
	for i := 0; i < m.faces.Num(); i++ {
		if m.IsFaceAlive(FaceID(i)) {
			before++
		}
	}
	if before != 1 {
		t.Fatalf("expected 1 seed face, got %d", before)
	}

	_, err := m.InsertPoint(fixedpoint.NewVec2(10, 10))
	if err != nil {
		t.Fatalf("InsertPoint failed: %v", err)
	}

	after := 0
	for i := 0; i < m.faces.Num(); i++ {
		if m.IsFaceAlive(FaceID(i)) {
			after++
		}
	}
	if after != 3 {
		t.Fatalf("expected 3 faces after split, got %d", after)
	}
}

func TestInsertPointOutsideBoundsErrors(t *testing.T) {
	m := NewMeshWithBounds(0, 0, 10, 10, 64, 256, 128)
	_, err := m.InsertPoint(fixedpoint.NewVec2(-1000, -1000))
	if err != ErrNoContainingFace {
		t.Fatalf("expected ErrNoContainingFace, got %v", err)
	}
}

func TestMeshFaceTwinsStayReflexive(t *testing.T) {
	m := NewMeshWithBounds(0, 0, 100, 100, 64, 256, 128)
	m.SetFixDelaunayTriangulations(false)
	if _, err := m.InsertPoint(fixedpoint.NewVec2(10, 10)); err != nil {
		t.Fatalf("InsertPoint failed: %v", err)
	}

	for i := 0; i < m.halfEdges.Num(); i++ {
		e := m.he(HalfEdgeID(i))
		if !e.alive || e.Twin == None {
			continue
		}
		twin := m.he(e.Twin)
		if twin.Twin != HalfEdgeID(i) {
			t.Fatalf("half-edge %d's twin %d does not point back", i, e.Twin)
		}
		if twin.VertA != e.VertB || twin.VertB != e.VertA {
			t.Fatalf("half-edge %d and its twin %d are not reverse of each other", i, e.Twin)
		}
	}
}

func TestFindPathWithinSingleFaceIsDirect(t *testing.T) {
	m := NewMeshWithBounds(0, 0, 100, 100, 64, 256, 128)
	start := fixedpoint.NewVec2(5, 5)
	goal := fixedpoint.NewVec2(8, 8)
	path, err := m.FindPath(start, goal)
	if err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}
	if len(path) != 2 {
		t.Fatalf("expected direct 2-point path within a single face, got %d points", len(path))
	}
}

func TestPathFollowerAdvancesAlongWaypoints(t *testing.T) {
	path := []fixedpoint.Vec2{
		fixedpoint.NewVec2(0, 0),
		fixedpoint.NewVec2(10, 0),
		fixedpoint.NewVec2(10, 10),
	}
	pf := NewPathFollower(path, fixedpoint.NewSpeed(5))
	pf.SetStepping(true)

	dt := fixedpoint.NewTime(1.0)
	for i := 0; i < 5 && !pf.Done(); i++ {
		pf.Step(dt)
	}
	if !pf.Done() {
		t.Fatal("expected follower to reach the end of the path")
	}
}

func TestPointBlockedDetectsObstacle(t *testing.T) {
	m := NewMeshWithBounds(0, 0, 100, 100, 64, 256, 128)
	m.SetObstacles([]Obstacle{{ID: 1, Center: fixedpoint.NewVec2(50, 50), Radius: fixedpoint.NewDistance(5)}})

	if !m.PointBlocked(fixedpoint.NewVec2(50, 50)) {
		t.Fatal("expected obstacle center to be blocked")
	}
	if m.PointBlocked(fixedpoint.NewVec2(0, 0)) {
		t.Fatal("expected a point far from any obstacle to be clear")
	}
}

func TestFindPathFailsWhenGoalFaceIsBlocked(t *testing.T) {
	m := NewMeshWithBounds(0, 0, 100, 100, 64, 256, 128)
	start := fixedpoint.NewVec2(5, 5)
	goal := fixedpoint.NewVec2(8, 8)

	m.SetObstacles([]Obstacle{{ID: 1, Center: m.faceCentroid(m.locateFace(goal)), Radius: fixedpoint.NewDistance(1)}})

	if _, err := m.FindPath(start, goal); err != ErrNoPath {
		t.Fatalf("expected ErrNoPath when the goal face is obstacle-blocked, got %v", err)
	}
}

func TestPathFollowerDoesNotAdvanceWhenNotStepping(t *testing.T) {
	path := []fixedpoint.Vec2{fixedpoint.NewVec2(0, 0), fixedpoint.NewVec2(10, 0)}
	pf := NewPathFollower(path, fixedpoint.NewSpeed(5))
	pf.Step(fixedpoint.NewTime(1))
	if pf.Position != path[0] {
		t.Fatal("expected position unchanged while Stepping is false")
	}
}
