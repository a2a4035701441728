// Package config loads the YAML-driven engine/session configuration the
// CLI driver feeds into a session.Session, per SPEC_FULL.md's ambient
// stack. Grounded on the teacher's sim/workload/spec.go LoadWorkloadSpec:
// strict decoding (unknown keys rejected) via gopkg.in/yaml.v3, plus a
// Validate pass that returns descriptive errors rather than panicking.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NavMeshObstacle describes one static circular blocker, per
// SPEC_FULL.md's FixedBVH supplement ("used by navmesh obstacle
// queries").
type NavMeshObstacle struct {
	Center [2]float64 `yaml:"center"`
	Radius float64    `yaml:"radius"`
}

// WorldSeed describes one world the session should create at startup,
// optionally pre-populated with nav mesh bootstrap points and static
// obstacles.
type WorldSeed struct {
	Name              string            `yaml:"name"`
	MaxEntities       int               `yaml:"max_entities,omitempty"`
	NavMeshBoundsMin  [2]float64        `yaml:"nav_mesh_bounds_min,omitempty"`
	NavMeshBoundsMax  [2]float64        `yaml:"nav_mesh_bounds_max,omitempty"`
	NavMeshPoints     [][2]float64      `yaml:"nav_mesh_points,omitempty"`
	NavMeshObstacles  []NavMeshObstacle `yaml:"nav_mesh_obstacles,omitempty"`
}

// EngineConfig is the top-level configuration document, per
// SPEC_FULL.md §2's "YAML-driven engine configuration".
type EngineConfig struct {
	Seed      int64       `yaml:"seed"`
	StepHz    uint32      `yaml:"step_hz"`
	Horizon   int64       `yaml:"horizon_ticks,omitempty"`
	LogLevel  string      `yaml:"log_level,omitempty"`
	Worlds    []WorldSeed `yaml:"worlds"`
	AllowSleep bool       `yaml:"allow_sleep"`
}

// DefaultEngineConfig mirrors the values the CLI driver falls back to
// when no config file is given.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Seed:       1,
		StepHz:     60,
		LogLevel:   "info",
		AllowSleep: true,
		Worlds:     []WorldSeed{{Name: "main"}},
	}
}

// Load reads and strictly parses an EngineConfig from path, per the
// teacher's LoadWorkloadSpec: unrecognized keys are rejected rather than
// silently ignored, surfacing config typos immediately.
func Load(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading engine config: %w", err)
	}
	cfg := DefaultEngineConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing engine config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the config's required fields are sane.
func (c *EngineConfig) Validate() error {
	if c.StepHz == 0 {
		return fmt.Errorf("step_hz must be positive")
	}
	if len(c.Worlds) == 0 {
		return fmt.Errorf("at least one world must be configured")
	}
	seen := make(map[string]bool, len(c.Worlds))
	for _, w := range c.Worlds {
		if w.Name == "" {
			return fmt.Errorf("world entry missing name")
		}
		if seen[w.Name] {
			return fmt.Errorf("duplicate world name %q", w.Name)
		}
		seen[w.Name] = true
	}
	return nil
}
