package navmesh

import "github.com/phoenix-sim/phoenix-core/internal/fixedpoint"

// PathFollower is the incremental path-stepping component, grounded on
// the interactive step-through path debugging tool
// (Tests/TestApp/Tools/NavMeshTool.cpp's per-click path_step) repurposed
// into a per-tick movement primitive: advance a fixed arc-length along a
// precomputed polyline per call instead of jumping straight to the goal.
type PathFollower struct {
	Waypoints []fixedpoint.Vec2
	segment   int
	Speed     fixedpoint.Fixed
	Position  fixedpoint.Vec2
	Stepping  bool
}

// NewPathFollower seeds a follower at the start of path, per spec.md's
// path_step/path_set_stepping operations.
func NewPathFollower(path []fixedpoint.Vec2, speed fixedpoint.Fixed) *PathFollower {
	pf := &PathFollower{Waypoints: path, Speed: speed}
	if len(path) > 0 {
		pf.Position = path[0]
	}
	return pf
}

// SetStepping toggles whether Step advances at all — path_set_stepping.
func (pf *PathFollower) SetStepping(enabled bool) { pf.Stepping = enabled }

// Done reports whether the follower has reached the final waypoint.
func (pf *PathFollower) Done() bool {
	return pf.segment >= len(pf.Waypoints)-1
}

// Step advances Position toward the next waypoint by at most Speed*dt,
// per spec.md §4.9's path_step. Reaching a waypoint exactly carries the
// remaining distance budget into the following segment within the same
// call, so a single large dt does not stall at segment boundaries.
func (pf *PathFollower) Step(dt fixedpoint.Fixed) {
	if !pf.Stepping || pf.Done() {
		return
	}
	budget := fixedpoint.Mul(pf.Speed, dt)
	for !pf.Done() && budget.Raw() > 0 {
		target := pf.Waypoints[pf.segment+1]
		toTarget := target.Sub(pf.Position)
		dist := toTarget.Length()
		if dist.Raw() <= 0 {
			pf.segment++
			continue
		}
		if dist.Raw() <= budget.Raw() {
			pf.Position = target
			budget = fixedpoint.Sub(budget, dist)
			pf.segment++
			continue
		}
		dir := fixedpoint.NewInvFixed(dist)
		pf.Position = pf.Position.Add(fixedpoint.Vec2{
			X: fixedpoint.Mul(dir.MulFixed(toTarget.X), budget),
			Y: fixedpoint.Mul(dir.MulFixed(toTarget.Y), budget),
		})
		budget = fixedpoint.Fixed{}
	}
}
