package session

import (
	"github.com/phoenix-sim/phoenix-core/internal/prng"
	"github.com/sirupsen/logrus"
)

// MaxWorlds bounds the WorldManager's world table.
const MaxWorlds = 16

// WorldManager owns the session's worlds in creation order, per
// spec.md §6's `WorldManager::new_world` / `get_world`.
type WorldManager struct {
	order []string
	byName map[string]*World
	cfg   WorldConfig
	rng   *prng.PartitionedRNG
}

func newWorldManager(cfg WorldConfig, rng *prng.PartitionedRNG) *WorldManager {
	return &WorldManager{byName: make(map[string]*World), cfg: cfg, rng: rng}
}

// NewWorld creates and registers a world with no bootstrap seed, or
// returns the existing one if name is already taken. Returns nil if
// MaxWorlds is exhausted.
func (wm *WorldManager) NewWorld(name string) *World {
	return wm.NewWorldWithSeed(name, WorldSeed{})
}

// NewWorldWithSeed is NewWorld with nav mesh bootstrap data applied at
// construction (bounds override, initial points, static obstacles) — the
// entry point the CLI driver uses to carry config.WorldSeed's nav_mesh_*
// fields through to the navmesh.Mesh they describe.
func (wm *WorldManager) NewWorldWithSeed(name string, seed WorldSeed) *World {
	if w, ok := wm.byName[name]; ok {
		return w
	}
	if len(wm.order) >= MaxWorlds {
		logrus.Warnf("session: world manager full (%d), cannot create world %q", MaxWorlds, name)
		return nil
	}
	w := newWorld(name, wm.cfg, seed, wm.rng)
	wm.byName[name] = w
	wm.order = append(wm.order, name)
	return w
}

// GetWorld looks up a world by name, or nil if absent.
func (wm *WorldManager) GetWorld(name string) *World { return wm.byName[name] }

// Worlds returns every world in creation order.
func (wm *WorldManager) Worlds() []*World {
	out := make([]*World, 0, len(wm.order))
	for _, n := range wm.order {
		out = append(out, wm.byName[n])
	}
	return out
}
