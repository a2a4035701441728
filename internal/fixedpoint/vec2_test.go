package fixedpoint

import "testing"

func TestVec2DotOrthogonal(t *testing.T) {
	a := NewVec2(1, 0)
	b := NewVec2(0, 1)
	d := a.Dot(b)
	if d.Float64() != 0 {
		t.Errorf("Dot of orthogonal vectors = %v, want 0", d.Float64())
	}
}

func TestVec2CrossParallel(t *testing.T) {
	a := NewVec2(2, 0)
	b := NewVec2(4, 0)
	c := a.Cross(b)
	if c.Float64() != 0 {
		t.Errorf("Cross of parallel vectors = %v, want 0", c.Float64())
	}
}

func TestVec2Length(t *testing.T) {
	v := NewVec2(3, 4)
	l := v.Length().Float64()
	if diff := l - 5.0; diff > 0.05 || diff < -0.05 {
		t.Errorf("Length((3,4)) = %v, want ~5", l)
	}
}

func TestSqrtZeroAndNegative(t *testing.T) {
	if Sqrt(NewValue(0)).Float64() != 0 {
		t.Errorf("Sqrt(0) != 0")
	}
	if Sqrt(NewValue(-4)).Float64() != 0 {
		t.Errorf("Sqrt(negative) should clamp to 0, no NaN representation")
	}
}

func TestVec2Normalized(t *testing.T) {
	v := NewVec2(6, 8)
	n := v.Normalized()
	l := n.Length().Float64()
	if diff := l - 1.0; diff > 0.05 || diff < -0.05 {
		t.Errorf("Normalized length = %v, want ~1", l)
	}
}

func TestVec2RotateFullCircleIdentity(t *testing.T) {
	v := NewVec2(1, 0)
	full := NewAngle(6.283185307) // ~2*pi
	r := v.Rotate(full)
	if diff := r.X.Float64() - v.X.Float64(); diff > 0.05 || diff < -0.05 {
		t.Errorf("full rotation X: got %v want ~%v", r.X.Float64(), v.X.Float64())
	}
}
