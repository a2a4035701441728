// Package blockbuffer implements the tagged-storage memory model session
// and world state live in: an ordered list of named blocks, each tagged
// with a lifecycle class that decides whether it is ever mutated after
// init, included in snapshots, or cleared every tick.
package blockbuffer

import (
	"fmt"

	"github.com/phoenix-sim/phoenix-core/internal/hashing"
	"github.com/sirupsen/logrus"
)

// Lifecycle classifies a block's mutation and persistence behavior.
type Lifecycle int

const (
	// Static blocks are written once at initialization and never again.
	Static Lifecycle = iota
	// Dynamic blocks form simulation state: included in snapshots/diffs.
	Dynamic
	// Scratch blocks are zeroed every tick and never snapshotted.
	Scratch
)

func (l Lifecycle) String() string {
	switch l {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case Scratch:
		return "scratch"
	default:
		return "unknown"
	}
}

// Block is one named, tagged region of the buffer's storage.
type Block struct {
	Name      hashing.Name
	Lifecycle Lifecycle
	Data      []byte
}

// Buffer is an ordered list of Blocks, addressed by Name. Lookup is linear
// — spec.md §3 notes blocks-per-buffer are few, so this is deliberately not
// a map.
type Buffer struct {
	blocks []Block
}

// New constructs an empty Buffer.
func New() *Buffer { return &Buffer{} }

// Define adds a new block of the given size, initialized to zero. Returns
// an error if name is already defined — block definitions are meant to be
// assembled once, at feature/world construction, not mutated at runtime.
func (b *Buffer) Define(name hashing.Name, lifecycle Lifecycle, size int) error {
	if _, i := b.find(name); i >= 0 {
		return fmt.Errorf("blockbuffer: block %s already defined", name)
	}
	b.blocks = append(b.blocks, Block{Name: name, Lifecycle: lifecycle, Data: make([]byte, size)})
	return nil
}

func (b *Buffer) find(name hashing.Name) (*Block, int) {
	for i := range b.blocks {
		if b.blocks[i].Name == name {
			return &b.blocks[i], i
		}
	}
	return nil, -1
}

// Get returns a pointer to the named block's backing storage, or nil if
// undefined.
func (b *Buffer) Get(name hashing.Name) ([]byte, bool) {
	blk, i := b.find(name)
	if i < 0 {
		return nil, false
	}
	return blk.Data, true
}

// MustGet returns the named block's storage, logging once and returning an
// empty slice if it is undefined — matching spec.md §7's "never throws"
// failure posture for missing-resource accessors.
func (b *Buffer) MustGet(name hashing.Name) []byte {
	data, ok := b.Get(name)
	if !ok {
		logrus.Warnf("blockbuffer: block %s not found; returning empty", name)
		return nil
	}
	return data
}

// ClearScratch zeroes every Scratch-lifecycle block.
func (b *Buffer) ClearScratch() {
	for i := range b.blocks {
		if b.blocks[i].Lifecycle == Scratch {
			clear(b.blocks[i].Data)
		}
	}
}

// Blocks exposes the live block list for iteration (snapshotting, debug
// inspection).
func (b *Buffer) Blocks() []Block { return b.blocks }

// Snapshot returns a deep copy of every Dynamic block, keyed by name — the
// "values are cheaply cloneable via BlockBuffer copy" contract spec.md §3
// assigns to World. Static and Scratch blocks are excluded by definition.
func (b *Buffer) Snapshot() map[hashing.Name][]byte {
	out := make(map[hashing.Name][]byte)
	for _, blk := range b.blocks {
		if blk.Lifecycle != Dynamic {
			continue
		}
		cp := make([]byte, len(blk.Data))
		copy(cp, blk.Data)
		out[blk.Name] = cp
	}
	return out
}

// Clone returns a full independent copy of the buffer (all lifecycles),
// the "World is cheaply cloneable" operation: later writes to either
// buffer do not show in the other.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{blocks: make([]Block, len(b.blocks))}
	for i, blk := range b.blocks {
		cp := make([]byte, len(blk.Data))
		copy(cp, blk.Data)
		out.blocks[i] = Block{Name: blk.Name, Lifecycle: blk.Lifecycle, Data: cp}
	}
	return out
}
