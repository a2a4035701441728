package session

import (
	"testing"

	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
)

func TestFeatureSetDispatchesInRegistrationOrder(t *testing.T) {
	fs := NewFeatureSet()
	var order []string

	a := NewFeature("a").OnUpdate(Update, func(s *Session, w *World, dt fixedpoint.Fixed) {
		order = append(order, "a")
	})
	b := NewFeature("b").OnUpdate(Update, func(s *Session, w *World, dt fixedpoint.Fixed) {
		order = append(order, "b")
	})
	fs.Register(a)
	fs.Register(b)

	sess := NewSession(fs, 1, DefaultWorldConfig())
	sess.Step()

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("expected [a b], got %v", order)
	}
}

func TestActionConsumedStopsDispatch(t *testing.T) {
	fs := NewFeatureSet()
	var called []string

	a := NewFeature("a").OnAction(HandleAction, func(s *Session, w *World, act *Action) bool {
		called = append(called, "a")
		return true
	})
	b := NewFeature("b").OnAction(HandleAction, func(s *Session, w *World, act *Action) bool {
		called = append(called, "b")
		return false
	})
	fs.Register(a)
	fs.Register(b)

	sess := NewSession(fs, 1, DefaultWorldConfig())
	sess.QueueAction(Action{Verb: "spawn_entity"})
	sess.Step() // action queued at simTime+1, not due yet
	sess.Step() // now due

	if len(called) != 1 || called[0] != "a" {
		t.Fatalf("expected only feature a to run, got %v", called)
	}
}

func TestWorldInitializeRunsOnce(t *testing.T) {
	fs := NewFeatureSet()
	count := 0
	fs.Register(NewFeature("init").OnUpdate(WorldInitialize, func(s *Session, w *World, dt fixedpoint.Fixed) {
		count++
	}))

	sess := NewSession(fs, 1, DefaultWorldConfig())
	sess.WorldManager().NewWorld("main")
	sess.Step()
	sess.Step()

	if count != 1 {
		t.Fatalf("expected WorldInitialize to run exactly once, got %d", count)
	}
}

func TestActionEarlierThanSimTimeDropped(t *testing.T) {
	q := NewActionQueue()
	q.Queue(Action{Verb: "x"}, 5) // timestamps at 6
	due := q.Drain(10)            // sim_time already past 6
	if len(due) != 0 {
		t.Fatalf("expected stale action to be dropped, got %d due", len(due))
	}
}

func TestNewWorldWithSeedAppliesNavMeshBootstrap(t *testing.T) {
	fs := NewFeatureSet()
	sess := NewSession(fs, 1, DefaultWorldConfig())

	w := sess.WorldManager().NewWorldWithSeed("main", WorldSeed{
		NavMeshPoints:    [][2]float64{{10, 10}, {-10, 10}},
		NavMeshObstacles: []NavMeshObstacleSeed{{Center: [2]float64{0, 0}, Radius: 5}},
	})
	if w == nil {
		t.Fatal("expected a world to be created")
	}
	if !w.Mesh.PointBlocked(fixedpoint.NewVec2(0, 0)) {
		t.Fatal("expected the obstacle seed to block its own center")
	}
	if _, err := w.Mesh.FindPath(fixedpoint.NewVec2(9, 9), fixedpoint.NewVec2(9, 9)); err != nil {
		t.Fatalf("expected a degenerate same-point path to succeed away from the obstacle: %v", err)
	}
}

func TestSnapshotCallbackFiresPerWorld(t *testing.T) {
	fs := NewFeatureSet()
	sess := NewSession(fs, 1, DefaultWorldConfig())
	sess.WorldManager().NewWorld("a")
	sess.WorldManager().NewWorld("b")

	var names []string
	sess.OnPostWorldUpdate = func(snap Snapshot) { names = append(names, snap.WorldName) }
	sess.Step()

	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("expected snapshot callbacks for [a b], got %v", names)
	}
}
