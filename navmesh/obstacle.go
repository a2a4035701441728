package navmesh

import (
	"github.com/phoenix-sim/phoenix-core/internal/container"
	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
)

// maxObstacleLeaves bounds the static obstacle set a single Mesh's BVH is
// built over — generous enough for a level's worth of blockers without
// growing unbounded per SetObstacles call.
const maxObstacleLeaves = 1024

// obstacleCellBits quantizes a Distance(Q12) coordinate to the same grid
// resolution the physics broad phase uses, so obstacle AABBs and circle
// clearance checks share one fixed-to-int32 convention across packages.
const obstacleCellBits = fixedpoint.FracDistance

func obstacleCell(v fixedpoint.Fixed) int32 {
	return int32(v.Raw() >> obstacleCellBits)
}

// Obstacle is a static circular blocker, per SPEC_FULL.md's FixedBVH
// supplement ("used by navmesh obstacle queries").
type Obstacle struct {
	ID     int32
	Center fixedpoint.Vec2
	Radius fixedpoint.Fixed
}

func (o Obstacle) aabb() container.AABB {
	minX := obstacleCell(fixedpoint.Sub(o.Center.X, o.Radius))
	minY := obstacleCell(fixedpoint.Sub(o.Center.Y, o.Radius))
	maxX := obstacleCell(fixedpoint.Add(o.Center.X, o.Radius))
	maxY := obstacleCell(fixedpoint.Add(o.Center.Y, o.Radius))
	return container.AABB{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// SetObstacles replaces the mesh's static obstacle set and rebuilds the
// BVH over it. Obstacles are not part of the triangulation itself — they
// block path queries by marking any face whose centroid falls within an
// obstacle's radius as impassable, the same way a Locked edge blocks a
// direct face-to-face step.
func (m *Mesh) SetObstacles(obstacles []Obstacle) {
	m.obstacles = obstacles
	bounds := make([]container.AABB, len(obstacles))
	data := make([]int32, len(obstacles))
	for i, o := range obstacles {
		bounds[i] = o.aabb()
		data[i] = int32(i)
	}
	m.obstacleBVH.Build(bounds, data)
}

// obstaclesNear returns the indices (into m.obstacles) of every obstacle
// whose AABB overlaps p's clearance radius.
func (m *Mesh) obstaclesNear(p fixedpoint.Vec2, clearance fixedpoint.Fixed) []int32 {
	query := container.AABB{
		MinX: obstacleCell(fixedpoint.Sub(p.X, clearance)),
		MinY: obstacleCell(fixedpoint.Sub(p.Y, clearance)),
		MaxX: obstacleCell(fixedpoint.Add(p.X, clearance)),
		MaxY: obstacleCell(fixedpoint.Add(p.Y, clearance)),
	}
	return m.obstacleBVH.Query(query, nil)
}

// PointBlocked reports whether p lies within any static obstacle's
// radius, resolving BVH AABB hits down to an exact circle containment
// check the same way the physics broad phase narrows Morton hits to exact
// circle-vs-circle distance.
func (m *Mesh) PointBlocked(p fixedpoint.Vec2) bool {
	for _, idx := range m.obstaclesNear(p, fixedpoint.Fixed{}) {
		o := m.obstacles[idx]
		if p.Sub(o.Center).Length().Raw() <= o.Radius.Raw() {
			return true
		}
	}
	return false
}

// faceBlocked reports whether f's centroid falls inside any obstacle,
// making the face impassable for path queries — obstacle-aware
// neighborsOf/locateFace filtering, per SPEC_FULL.md's navmesh obstacle
// supplement.
func (m *Mesh) faceBlocked(f FaceID) bool {
	return m.PointBlocked(m.faceCentroid(f))
}
