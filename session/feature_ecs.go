package session

import (
	"github.com/sirupsen/logrus"

	"github.com/phoenix-sim/phoenix-core/ecs"
	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
	"github.com/phoenix-sim/phoenix-core/internal/hashing"
	"github.com/phoenix-sim/phoenix-core/physics"
)

// AgentKind is the one archetype spawn_entity acquires from: a
// Transform + Body pair, the minimal shape physics.World.Step requires.
var AgentKind = hashing.NewName("Agent")

// sleepTagName marks entities whose Body has gone to sleep, kept current
// by the sleep-tag system registered below, so other features/queries can
// filter on "Sleeping" without re-deriving it from Body.Awake themselves.
var sleepTagName = hashing.NewName("Sleeping")

// NewECSFeature builds the feature that owns entity-lifecycle actions and
// a world's ecs.SystemList, per spec.md §4.7 and the SystemJob-style
// registration named in SPEC_FULL.md's supplemented features: a System is
// registered once, at WorldInitialize, and run every WorldUpdate.
func NewECSFeature() *Feature {
	f := NewFeature("ecs")

	f.OnUpdate(WorldInitialize, func(s *Session, w *World, dt fixedpoint.Fixed) {
		def := ecs.DefineArchetype(AgentKind,
			ecs.ComponentMember{ID: TransformComponentID, New: func() any { return &ecs.Transform{} }},
			ecs.ComponentMember{ID: BodyComponentID, New: func() any { return &physics.Body{} }},
		)
		w.Defs.Register(def)

		w.Systems.Register(&ecs.System{
			Name:  hashing.NewName("SleepTagSystem"),
			Query: ecs.NewQuery(w.Entities).RequireAll(BodyComponentID),
			Update: func(sys *ecs.System, handle ecs.EntityHandle, list *ecs.List, dt fixedpoint.Fixed) {
				body, ok := ecs.GetComponent[physics.Body](w.Entities, handle, BodyComponentID)
				if !ok {
					return
				}
				if body.Awake {
					w.Tags.RemoveTag(handle.EntityID, sleepTagName)
				} else {
					w.Tags.AddTag(handle.EntityID, sleepTagName)
				}
			},
		})
	})

	f.OnUpdate(WorldUpdate, func(s *Session, w *World, dt fixedpoint.Fixed) {
		w.Systems.RunSequential(dt)
	})

	f.OnAction(HandleWorldAction, func(s *Session, w *World, a *Action) bool {
		if a.Verb != "spawn_entity" {
			return false
		}
		spawnEntity(w, a)
		return true
	})

	return f
}

// spawnEntity acquires a fresh Agent-kind entity and seeds its Transform
// and Body from the action payload, per spec.md §6's spawn_entity verb:
// Data[0] = position (Vec2), Data[1] = radius (Fixed), Data[2] = static
// (Bool).
func spawnEntity(w *World, a *Action) {
	pos := a.Data[0].Vec2
	radius := a.Data[1].Fixed
	static := a.Data[2].Bool

	id := w.Entities.AllocateEntityID()
	if !id.IsValid() {
		logrus.Warnf("session: world %q spawn_entity failed, entity pool exhausted", w.Name)
		return
	}
	handle, ok := w.Entities.Acquire(id, AgentKind)
	if !ok {
		w.Entities.FreeEntityID(id)
		logrus.Warnf("session: world %q spawn_entity failed, archetype list full", w.Name)
		return
	}

	tr, _ := ecs.GetComponent[ecs.Transform](w.Entities, handle, TransformComponentID)
	tr.Position = pos

	body, _ := ecs.GetComponent[physics.Body](w.Entities, handle, BodyComponentID)
	body.Radius = radius
	body.Awake = true
	body.LinearDamping = fixedpoint.NewValue(0.1)
	if static {
		body.InvMass = fixedpoint.Vec2{}
	} else {
		body.InvMass = fixedpoint.Vec2{X: fixedpoint.NewValue(1), Y: fixedpoint.NewValue(1)}
	}
}
