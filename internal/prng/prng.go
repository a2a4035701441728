// Package prng provides per-subsystem deterministic RNG streams, directly
// grounded on the teacher's sim/cluster/rng.go PartitionedRNG: a master
// seed XORed with an FNV-1a hash of the subsystem name yields an
// order-independent per-subsystem seed, so registering subsystems in any
// order never perturbs another subsystem's draw sequence. Repurposed here
// from workload/router/scheduler streams to physics/navmesh streams, per
// SPEC_FULL.md §3's determinism-seed plumbing.
package prng

import (
	"math/rand"

	"github.com/phoenix-sim/phoenix-core/internal/hashing"
)

// PartitionedRNG lazily derives one *rand.Rand per subsystem name from a
// master seed.
type PartitionedRNG struct {
	masterSeed int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG constructs a PartitionedRNG from masterSeed.
func NewPartitionedRNG(masterSeed int64) *PartitionedRNG {
	return &PartitionedRNG{masterSeed: masterSeed, subsystems: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the (lazily created, deterministically seeded)
// stream for name. Repeated calls with the same name return the same
// instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.deriveSeed(name)))
	p.subsystems[name] = rng
	return rng
}

// deriveSeed XORs the master seed with the FNV-1a64 digest of name so
// derivation is independent of subsystem registration order.
func (p *PartitionedRNG) deriveSeed(name string) int64 {
	return p.masterSeed ^ int64(hashing.FNV1a64(name))
}

// Common subsystem names used by core physics/navmesh determinism draws.
const (
	SubsystemPhysicsSeparation = "physics.separation"
	SubsystemNavMesh           = "navmesh"
)
