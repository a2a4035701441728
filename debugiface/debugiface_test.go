package debugiface

import (
	"testing"

	"github.com/phoenix-sim/phoenix-core/internal/fixedpoint"
)

func TestNullImplementationsSatisfyInterfaces(t *testing.T) {
	var _ DebugRenderer = NullRenderer{}
	var _ DebugState = NullDebugState{}
	var _ Profiler = NullProfiler{}
}

func TestNullRendererIsNoOp(t *testing.T) {
	r := NullRenderer{}
	r.DrawCircle(fixedpoint.Vec2{}, fixedpoint.Fixed{}, Color{})
	if r.GetColor(3) != (Color{}) {
		t.Fatal("expected zero-value color from null renderer")
	}
}
