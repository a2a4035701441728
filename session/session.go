// Package session implements Phoenix's feature orchestrator and
// session/world lifecycle: ordered channel dispatch, the action queue,
// and the fixed-step tick loop, per spec.md §4.3/§4.4.
package session

import (
	"time"

	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
	"github.com/phoenix-sim/phoenix-core/internal/prng"
	"github.com/sirupsen/logrus"
)

// ClocksPerSecond is the unit dt_clock/step_hz are expressed in
// (nanoseconds), per spec.md §4.3's `tick(dt_clock, step_hz)`.
const ClocksPerSecond int64 = 1_000_000_000

// runawayGuardMultiplier caps how long a single Tick call will spend catching up
// on debt before yielding back to the driver, per spec.md §4.3's
// "capping per-tick step count indirectly by breaking when a single
// step() exceeds 3·clocks_per_sec."
const runawayGuardMultiplier = 3

// Session is the top-level orchestrator: an ordered FeatureSet, a
// WorldManager, and the action queue/clock, per spec.md §4.3/§6.
type Session struct {
	features     *FeatureSet
	worlds       *WorldManager
	actions      *ActionQueue
	rng          *prng.PartitionedRNG
	simTime      int64
	debt         int64
	initialized  bool

	// OnPostWorldUpdate is invoked once per world per step with a
	// copy-on-return snapshot, per spec.md §4.4/§6.
	OnPostWorldUpdate func(Snapshot)
}

// NewSession constructs a Session over features, per
// `Session::new(features)`.
func NewSession(features *FeatureSet, seed int64, cfg WorldConfig) *Session {
	rng := prng.NewPartitionedRNG(seed)
	return &Session{
		features: features,
		worlds:   newWorldManager(cfg, rng),
		actions:  NewActionQueue(),
		rng:      rng,
	}
}

// WorldManager returns the session's world manager.
func (s *Session) WorldManager() *WorldManager { return s.worlds }

// SimTime returns the current discrete sim-time counter.
func (s *Session) SimTime() int64 { return s.simTime }

// Initialize marks the session as started and logs it; no channel is
// dispatched. World initialization is lazy, per spec.md §4.4 ("on first observation of an uninitialized
// world by Step").
func (s *Session) Initialize() {
	s.initialized = true
	logrus.Infof("session: initialized")
}

// Shutdown dispatches WorldShutdown to every world that was ever
// initialized, symmetric with Initialize per spec.md §4.4.
func (s *Session) Shutdown() {
	for _, w := range s.worlds.Worlds() {
		if w.initialized && !w.shutdown {
			s.features.dispatchUpdate(WorldShutdown, s, w, fixedpoint.Fixed{})
			w.shutdown = true
		}
	}
	logrus.Infof("session: shutdown")
}

// QueueAction timestamps a at simTime+1 and enqueues it, per
// `Session::queue_action`.
func (s *Session) QueueAction(a Action) bool {
	return s.actions.Queue(a, s.simTime)
}

// Tick accumulates dtClock into the debt and runs Step repeatedly while
// debt covers a full step period at stepHz, per spec.md §4.3's
// fixed-step loop. The residual debt becomes a real sleep of its
// magnitude, so a driver calling Tick in a hot loop naturally paces
// itself to stepHz.
func (s *Session) Tick(dtClock int64, stepHz uint32) {
	if stepHz == 0 {
		return
	}
	s.debt += dtClock
	stepClocks := ClocksPerSecond / int64(stepHz)
	if stepClocks <= 0 {
		return
	}

	start := time.Now()
	guard := time.Duration(runawayGuardMultiplier * ClocksPerSecond) // ClocksPerSecond is already in ns
	for s.debt >= stepClocks {
		if time.Since(start) > guard {
			logrus.Warnf("session: tick runaway guard tripped, deferring remaining debt %d", s.debt)
			break
		}
		s.Step()
		s.debt -= stepClocks
	}
	if s.debt > 0 && s.debt < stepClocks {
		time.Sleep(time.Duration(s.debt) * time.Nanosecond)
	}
}

// Step runs exactly one fixed-size simulation step: drain due actions,
// dispatch session-scoped channels, then per-world lifecycle and
// update channels, per spec.md §4.3/§4.4.
func (s *Session) Step() {
	due := s.actions.Drain(s.simTime)
	s.dispatchActions(PreHandleAction, nil, due)
	s.dispatchActions(HandleAction, nil, due)
	s.dispatchActions(PostHandleAction, nil, due)

	dt := fixedpoint.NewTime(1)
	s.features.dispatchUpdate(PreUpdate, s, nil, dt)
	s.features.dispatchUpdate(Update, s, nil, dt)
	s.features.dispatchUpdate(PostUpdate, s, nil, dt)

	for _, w := range s.worlds.Worlds() {
		s.stepWorld(w, due, dt)
	}

	s.simTime++
}

func (s *Session) dispatchActions(ch Channel, w *World, actions []Action) {
	for i := range actions {
		if w != nil && actions[i].TargetWorld != "" && actions[i].TargetWorld != w.Name {
			continue
		}
		s.features.dispatchAction(ch, s, w, &actions[i])
	}
}

func (s *Session) stepWorld(w *World, due []Action, dt fixedpoint.Fixed) {
	if !w.initialized {
		s.features.dispatchUpdate(WorldInitialize, s, w, dt)
		w.initialized = true
	}

	s.dispatchActions(PreHandleWorldAction, w, due)
	s.dispatchActions(HandleWorldAction, w, due)
	s.dispatchActions(PostHandleWorldAction, w, due)

	s.features.dispatchUpdate(PreWorldUpdate, s, w, dt)
	s.features.dispatchUpdate(WorldUpdate, s, w, dt)
	s.features.dispatchUpdate(PostWorldUpdate, s, w, dt)

	if s.OnPostWorldUpdate != nil {
		s.OnPostWorldUpdate(w.snapshot(s.simTime))
	}
}

// DispatchDebugRender runs the DebugRender channel for every world,
// letting an embedding app pull debug draw calls once per frame outside
// the fixed-step sim loop.
func (s *Session) DispatchDebugRender() {
	for _, w := range s.worlds.Worlds() {
		s.features.dispatchUpdate(DebugRender, s, w, fixedpoint.Fixed{})
	}
}
