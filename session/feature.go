package session

import "github.com/phoenix-sim/phoenix-core/internal/fixedpoint"

// Channel is one of the fifteen named dispatch points a Feature can
// subscribe to, per spec.md §4.3.
type Channel int

const (
	PreUpdate Channel = iota
	Update
	PostUpdate
	PreHandleAction
	HandleAction
	PostHandleAction
	WorldInitialize
	WorldShutdown
	PreWorldUpdate
	WorldUpdate
	PostWorldUpdate
	PreHandleWorldAction
	HandleWorldAction
	PostHandleWorldAction
	DebugRender
	numChannels
)

// InsertPosition refines a feature's position within its channel's
// subscriber list beyond plain insertion order, per spec.md §4.3's
// `FeatureInsertPosition`.
type InsertPosition int

const (
	InsertDefault InsertPosition = iota
	InsertBegin
	InsertEnd
)

// UpdateFunc backs the per-tick, non-action channels. world is nil for
// session-scoped channels (PreUpdate/Update/PostUpdate).
type UpdateFunc func(s *Session, world *World, dt fixedpoint.Fixed)

// ActionFunc backs the handle-action channels. Returning true "consumes"
// the action, halting further feature dispatch for it at that channel,
// per spec.md §4.3's dispatch rule. world is nil for the session-scoped
// handle-action channels.
type ActionFunc func(s *Session, world *World, a *Action) bool

// Feature is a named, orderable unit of behavior that subscribes to one
// or more channels, per spec.md §4.3's `{ name, sessionblocks[],
// worldblocks[], channels[] }` declaration.
type Feature struct {
	Name           string
	InsertPosition InsertPosition
	SessionBlocks  []string
	WorldBlocks    []string

	updateHandlers map[Channel]UpdateFunc
	actionHandlers map[Channel]ActionFunc
}

// NewFeature constructs a Feature ready for handler registration.
func NewFeature(name string) *Feature {
	return &Feature{
		Name:           name,
		updateHandlers: make(map[Channel]UpdateFunc),
		actionHandlers: make(map[Channel]ActionFunc),
	}
}

// OnUpdate subscribes fn to an update-style channel.
func (f *Feature) OnUpdate(ch Channel, fn UpdateFunc) *Feature {
	f.updateHandlers[ch] = fn
	return f
}

// OnAction subscribes fn to a handle-action channel.
func (f *Feature) OnAction(ch Channel, fn ActionFunc) *Feature {
	f.actionHandlers[ch] = fn
	return f
}

func (f *Feature) channels() []Channel {
	chans := make([]Channel, 0, len(f.updateHandlers)+len(f.actionHandlers))
	for ch := range f.updateHandlers {
		chans = append(chans, ch)
	}
	for ch := range f.actionHandlers {
		chans = append(chans, ch)
	}
	return chans
}

// FeatureSet stores, per channel, the ordered list of subscribed
// features — insertion order is the subscription order, refined by
// InsertPosition, per spec.md §4.3.
type FeatureSet struct {
	all      []*Feature
	byChan   [numChannels][]*Feature
}

// NewFeatureSet constructs an empty set.
func NewFeatureSet() *FeatureSet { return &FeatureSet{} }

// Register adds f to every channel it subscribed to, honoring
// InsertPosition.
func (fs *FeatureSet) Register(f *Feature) {
	fs.all = append(fs.all, f)
	for _, ch := range f.channels() {
		switch f.InsertPosition {
		case InsertBegin:
			fs.byChan[ch] = append([]*Feature{f}, fs.byChan[ch]...)
		default:
			fs.byChan[ch] = append(fs.byChan[ch], f)
		}
	}
}

// Features returns every registered feature, in registration order.
func (fs *FeatureSet) Features() []*Feature { return fs.all }

// dispatchUpdate calls every feature subscribed to ch in subscriber
// order; update channels are never "consumable".
func (fs *FeatureSet) dispatchUpdate(ch Channel, s *Session, w *World, dt fixedpoint.Fixed) {
	for _, f := range fs.byChan[ch] {
		if fn, ok := f.updateHandlers[ch]; ok {
			fn(s, w, dt)
		}
	}
}

// dispatchAction calls features subscribed to ch in order, stopping the
// first time a handler returns true ("consumed"), per spec.md §4.3.
func (fs *FeatureSet) dispatchAction(ch Channel, s *Session, w *World, a *Action) bool {
	for _, f := range fs.byChan[ch] {
		fn, ok := f.actionHandlers[ch]
		if !ok {
			continue
		}
		if fn(s, w, a) {
			return true
		}
	}
	return false
}
