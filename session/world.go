package session

import (
	"github.com/sirupsen/logrus"

	"github.com/phoenix-sim/phoenix-core/ecs"
	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
	"github.com/phoenix-sim/phoenix-core/internal/prng"
	"github.com/phoenix-sim/phoenix-core/navmesh"
	"github.com/phoenix-sim/phoenix-core/physics"
)

// WorldConfig bounds a World's fixed-capacity subsystems at construction.
type WorldConfig struct {
	MaxEntities             int
	MaxNavMeshVertices      int
	MaxNavMeshHalfEdges     int
	MaxNavMeshFaces         int
	NavMeshBoundsMin        [2]float64
	NavMeshBoundsMax        [2]float64
}

// DefaultWorldConfig mirrors the sizes exercised by this package's tests
// and the CLI driver's default run.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		MaxEntities:         4096,
		MaxNavMeshVertices:  512,
		MaxNavMeshHalfEdges: 4096,
		MaxNavMeshFaces:     2048,
		NavMeshBoundsMin:    [2]float64{-1000, -1000},
		NavMeshBoundsMax:    [2]float64{1000, 1000},
	}
}

// World is one simulated world under a Session's WorldManager, per
// spec.md §4.4. It owns its own ECS manager, physics world, and nav
// mesh, each ticked by features subscribed to the world-update channels.
type World struct {
	Name        string
	Defs        *ecs.DefRegistry
	Entities    *ecs.Manager
	Physics     *physics.World
	Mesh        *navmesh.Mesh
	Systems     *ecs.SystemList
	Tags        *ecs.TagPool
	NavDynamic  NavMeshDynamicState
	AllowSleep  bool
	initialized bool
	shutdown    bool
}

// NavMeshDynamicState tracks the points/edges inserted onto a world's nav
// mesh through the action pipeline plus its one active incremental path
// follower, the Go analogue of original_source's
// FeatureNavMeshDynamicBlock: CDT_InsertPoint/CDT_InsertEdge have no
// corresponding removal operation, so delete_edges_and_points and
// set_nav_mesh_size both work by filtering this remembered point/edge
// list and replaying it onto a freshly Reset mesh rather than mutating
// the triangulation in place.
type NavMeshDynamicState struct {
	Points []fixedpoint.Vec2
	Edges  [][2]fixedpoint.Vec2
	Path   *navmesh.PathFollower
}

// WorldSeed carries the per-world bootstrap data a WorldManager.NewWorld
// caller may supply on top of the manager's WorldConfig defaults: nav
// mesh bounds overrides, bootstrap points to insert, and static
// obstacles to index — the config-driven counterparts of
// config.WorldSeed's nav_mesh_* fields, kept independent of the config
// package so session has no import-time dependency on it.
type WorldSeed struct {
	NavMeshBoundsMin [2]float64
	NavMeshBoundsMax [2]float64
	NavMeshPoints    [][2]float64
	NavMeshObstacles []NavMeshObstacleSeed
}

// NavMeshObstacleSeed is one static circular blocker to register on a
// world's nav mesh at construction.
type NavMeshObstacleSeed struct {
	Center [2]float64
	Radius float64
}

// newWorld constructs a World from cfg and an optional seed, seeding its
// physics RNG from the session's partitioned stream.
func newWorld(name string, cfg WorldConfig, seed WorldSeed, rng *prng.PartitionedRNG) *World {
	boundsMin, boundsMax := cfg.NavMeshBoundsMin, cfg.NavMeshBoundsMax
	if seed.NavMeshBoundsMin != [2]float64{} || seed.NavMeshBoundsMax != [2]float64{} {
		boundsMin, boundsMax = seed.NavMeshBoundsMin, seed.NavMeshBoundsMax
	}

	defs := ecs.NewDefRegistry()
	mesh := navmesh.NewMeshWithBounds(
		boundsMin[0], boundsMin[1],
		boundsMax[0], boundsMax[1],
		cfg.MaxNavMeshVertices, cfg.MaxNavMeshHalfEdges, cfg.MaxNavMeshFaces,
	)
	for _, p := range seed.NavMeshPoints {
		if _, err := mesh.InsertPoint(navmeshVec2(p)); err != nil {
			logrus.Warnf("session: world %q nav mesh bootstrap point %v rejected: %v", name, p, err)
		}
	}
	if len(seed.NavMeshObstacles) > 0 {
		obstacles := make([]navmesh.Obstacle, len(seed.NavMeshObstacles))
		for i, o := range seed.NavMeshObstacles {
			obstacles[i] = navmesh.Obstacle{
				ID:     int32(i),
				Center: navmeshVec2(o.Center),
				Radius: fixedpoint.NewDistance(o.Radius),
			}
		}
		mesh.SetObstacles(obstacles)
	}

	phys := physics.NewWorld(rng)
	phys.AllowSleep = true

	return &World{
		Name:       name,
		Defs:       defs,
		Entities:   ecs.NewManager(cfg.MaxEntities, defs),
		Physics:    phys,
		Mesh:       mesh,
		Systems:    ecs.NewSystemList(),
		Tags:       ecs.NewTagPool(cfg.MaxEntities * 4),
		AllowSleep: true,
	}
}

func navmeshVec2(p [2]float64) fixedpoint.Vec2 { return fixedpoint.NewVec2(p[0], p[1]) }

// Snapshot is the independently-mutable value OnPostWorldUpdate
// observers receive, per spec.md §6's "copy-on-return snapshot"
// contract. It carries lightweight summary fields rather than a deep
// copy of the ECS/physics/mesh state, which would defeat the point of a
// fixed-capacity, non-allocating core by forcing a full allocation every
// tick; observers needing live component data should read through
// World directly from within a feature handler instead.
type Snapshot struct {
	WorldName string
	SimTime   int64
	Awake     int
}

func (w *World) snapshot(simTime int64) Snapshot {
	return Snapshot{WorldName: w.Name, SimTime: simTime}
}
