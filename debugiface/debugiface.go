// Package debugiface declares the external collaborator interfaces
// Phoenix's core calls out to but never implements itself: debug
// rendering, debug input state, and profiling, per spec.md §6. An
// embedding application binds these to its own renderer/profiler; the
// core ships only null (no-op) implementations so headless runs (the
// CLI driver, tests) need not supply real ones.
package debugiface

import "github.com/phoenix-sim/phoenix-core/internal/fixedpoint"

// Color is an RGBA debug-draw color, per spec.md §6's `GetColor(index)`.
type Color struct {
	R, G, B, A uint8
}

// DebugRenderer draws world-space debug primitives, per spec.md §6.
type DebugRenderer interface {
	DrawCircle(center fixedpoint.Vec2, radius fixedpoint.Fixed, c Color)
	DrawLine(a, b fixedpoint.Vec2, c Color)
	DrawLines(points []fixedpoint.Vec2, c Color)
	DrawRect(min, max fixedpoint.Vec2, c Color)
	DrawDebugText(pos fixedpoint.Vec2, text string, c Color)
	GetColor(index int) Color
}

// DebugState reports input state to debug tooling (e.g. the nav mesh
// interactive tool), per spec.md §6.
type DebugState interface {
	KeyDown(key string) bool
	KeyUp(key string) bool
	MouseButtonDown(button int) bool
	MouseButtonUp(button int) bool
	GetWorldMousePos() fixedpoint.Vec2
}

// Profiler instruments zones/values for an external profiler, per
// spec.md §6. A null implementation is the default.
type Profiler interface {
	BeginZone(name string)
	EndZone()
	Text(text string)
	TextFmt(format string, args ...any)
	Name(name string)
	NameFmt(format string, args ...any)
	Color(c Color)
	Value(name string, v int64)
}

// NullRenderer is a no-op DebugRenderer, the default for headless runs.
type NullRenderer struct{}

func (NullRenderer) DrawCircle(fixedpoint.Vec2, fixedpoint.Fixed, Color) {}
func (NullRenderer) DrawLine(fixedpoint.Vec2, fixedpoint.Vec2, Color)    {}
func (NullRenderer) DrawLines([]fixedpoint.Vec2, Color)                 {}
func (NullRenderer) DrawRect(fixedpoint.Vec2, fixedpoint.Vec2, Color)   {}
func (NullRenderer) DrawDebugText(fixedpoint.Vec2, string, Color)       {}
func (NullRenderer) GetColor(int) Color                                { return Color{} }

// NullDebugState reports no input, the default for headless runs.
type NullDebugState struct{}

func (NullDebugState) KeyDown(string) bool               { return false }
func (NullDebugState) KeyUp(string) bool                 { return false }
func (NullDebugState) MouseButtonDown(int) bool          { return false }
func (NullDebugState) MouseButtonUp(int) bool            { return false }
func (NullDebugState) GetWorldMousePos() fixedpoint.Vec2 { return fixedpoint.Vec2{} }

// NullProfiler discards every call, the default profiling adapter.
type NullProfiler struct{}

func (NullProfiler) BeginZone(string)            {}
func (NullProfiler) EndZone()                    {}
func (NullProfiler) Text(string)                 {}
func (NullProfiler) TextFmt(string, ...any)      {}
func (NullProfiler) Name(string)                 {}
func (NullProfiler) NameFmt(string, ...any)       {}
func (NullProfiler) Color(Color)                 {}
func (NullProfiler) Value(string, int64)         {}
