package session

import (
	"github.com/phoenix-sim/phoenix-core/ecs"
	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
	"github.com/phoenix-sim/phoenix-core/internal/hashing"
	"github.com/phoenix-sim/phoenix-core/physics"
)

// TransformComponentID and BodyComponentID name the two components a
// physically-simulated entity carries, shared between the physics and
// ECS features so an archetype registered by one is queryable by the
// other.
var (
	TransformComponentID = hashing.NewName("Transform")
	BodyComponentID      = hashing.NewName("Body")
)

// NewPhysicsFeature builds the feature that drives physics.World.Step
// once per world per tick, per spec.md §4.8's integration with §4.3's
// channel dispatch: every entity carrying both Transform and Body is
// gathered on PostWorldUpdate and handed to the physics solver, the
// orchestrator wiring FeatureNavMesh's sibling FeaturePhysics performs in
// original_source's PhysicsSystem.cpp (OnPostWorldUpdate).
func NewPhysicsFeature() *Feature {
	f := NewFeature("physics")

	f.OnUpdate(PostWorldUpdate, func(s *Session, w *World, dt fixedpoint.Fixed) {
		entities := gatherPhysicsEntities(w)
		w.Physics.Step(entities, dt)
	})

	f.OnAction(HandleWorldAction, func(s *Session, w *World, a *Action) bool {
		if a.Verb != "set_allow_sleep" {
			return false
		}
		allow := a.Data[0].Bool
		w.AllowSleep = allow
		w.Physics.AllowSleep = allow
		return true
	})

	return f
}

// gatherPhysicsEntities builds the []physics.EntityBody slice Step needs
// by querying every live entity in w.Entities carrying Transform and
// Body, per spec.md §4.7's query dispatch. A fresh Query is built each
// call since it is bound to one world's Manager and this runs once per
// world per tick, not in the per-entity hot loop.
func gatherPhysicsEntities(w *World) []physics.EntityBody {
	var entities []physics.EntityBody
	q := ecs.NewQuery(w.Entities).RequireAll(TransformComponentID, BodyComponentID)
	q.Schedule(func(handle ecs.EntityHandle, list *ecs.List) {
		tr, ok := ecs.GetComponent[ecs.Transform](w.Entities, handle, TransformComponentID)
		if !ok {
			return
		}
		body, ok := ecs.GetComponent[physics.Body](w.Entities, handle, BodyComponentID)
		if !ok {
			return
		}
		entities = append(entities, physics.EntityBody{Handle: handle, Transform: tr, Body: body})
	})
	return entities
}
