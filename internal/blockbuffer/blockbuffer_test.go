package blockbuffer

import (
	"testing"

	"github.com/phoenix-sim/phoenix-core/internal/hashing"
)

func TestDefineDuplicateFails(t *testing.T) {
	b := New()
	name := hashing.NewName("Transforms")
	if err := b.Define(name, Dynamic, 64); err != nil {
		t.Fatalf("first Define failed: %v", err)
	}
	if err := b.Define(name, Dynamic, 64); err == nil {
		t.Fatal("expected duplicate Define to fail")
	}
}

func TestClearScratchOnlyClearsScratch(t *testing.T) {
	b := New()
	dyn := hashing.NewName("Dynamic")
	scr := hashing.NewName("Scratch")
	b.Define(dyn, Dynamic, 4)
	b.Define(scr, Scratch, 4)

	dynData, _ := b.Get(dyn)
	scrData, _ := b.Get(scr)
	dynData[0] = 7
	scrData[0] = 7

	b.ClearScratch()

	dynData2, _ := b.Get(dyn)
	scrData2, _ := b.Get(scr)
	if dynData2[0] != 7 {
		t.Errorf("dynamic block was cleared, should not be")
	}
	if scrData2[0] != 0 {
		t.Errorf("scratch block was not cleared")
	}
}

func TestSnapshotExcludesStaticAndScratch(t *testing.T) {
	b := New()
	stat := hashing.NewName("Static")
	dyn := hashing.NewName("Dynamic")
	scr := hashing.NewName("Scratch")
	b.Define(stat, Static, 4)
	b.Define(dyn, Dynamic, 4)
	b.Define(scr, Scratch, 4)

	snap := b.Snapshot()
	if _, ok := snap[stat]; ok {
		t.Error("snapshot should exclude static blocks")
	}
	if _, ok := snap[scr]; ok {
		t.Error("snapshot should exclude scratch blocks")
	}
	if _, ok := snap[dyn]; !ok {
		t.Error("snapshot should include dynamic blocks")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := New()
	name := hashing.NewName("X")
	b.Define(name, Dynamic, 4)
	data, _ := b.Get(name)
	data[0] = 1

	clone := b.Clone()
	cloneData, _ := clone.Get(name)
	cloneData[0] = 2

	origData, _ := b.Get(name)
	if origData[0] != 1 {
		t.Errorf("mutating clone affected original")
	}
}
