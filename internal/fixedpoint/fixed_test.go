package fixedpoint

import "testing"

func TestFromFloat64RoundTrip(t *testing.T) {
	cases := []float64{0, 1, -1, 3.25, -7.5, 100.0625}
	for _, v := range cases {
		f := FromFloat64(v, FracDistance, Width32)
		got := f.Float64()
		if got != v {
			t.Errorf("round trip %v: got %v", v, got)
		}
	}
}

func TestAddAssociativeWithinTolerance(t *testing.T) {
	a := NewValue(1.5)
	b := NewValue(2.25)
	c := NewValue(0.125)

	left := Add(Add(a, b), c)
	right := Add(a, Add(b, c))
	if !EqualTolerant(left, right) {
		t.Errorf("associativity violated: %v vs %v", left.Float64(), right.Float64())
	}
}

func TestAbsMagnitudeAndSign(t *testing.T) {
	x := NewValue(-4.5)
	a := Abs(x)
	if a.Float64() != 4.5 {
		t.Errorf("Abs(-4.5) = %v, want 4.5", a.Float64())
	}
	if a.raw < 0 {
		t.Errorf("Abs produced negative raw")
	}
}

func TestAbsOfMinSaturatesToMax(t *testing.T) {
	min := New(-1<<31, 0, Width32)
	a := Abs(min)
	_, hi := Width32.bounds()
	if a.raw != hi {
		t.Errorf("Abs(Min) = %d, want saturate to %d", a.raw, hi)
	}
}

func TestMulDivRoundTrip(t *testing.T) {
	a := NewDistance(12.0)
	b := NewDistance(4.0)
	prod := Mul(a, b)
	back := Div(prod, b)
	if !EqualTolerant(back, a) {
		t.Errorf("Mul/Div round trip: got %v want %v", back.Float64(), a.Float64())
	}
}

func TestDivByZeroSaturates(t *testing.T) {
	a := NewValue(5)
	z := NewValue(0)
	r := Div(a, z)
	_, hi := Width32.bounds()
	if r.raw != hi {
		t.Errorf("Div by zero = %d, want saturate to max %d", r.raw, hi)
	}
}

func TestRescaleNarrowingSaturates(t *testing.T) {
	big := FromInt(1<<20, FracValue, Width32)
	r := big.Rescale(FracAngle, Width32)
	_, hi := Width32.bounds()
	if r.raw != hi && r.Float64() == 0 {
		t.Fatalf("expected saturation or a valid non-zero rescale, got raw=%d", r.raw)
	}
}

func TestReciprocalRoundTrip(t *testing.T) {
	x := NewValue(8.0)
	inv := Reciprocal(x)
	back := Reciprocal(inv)
	if !EqualTolerant(back, x) {
		t.Errorf("Reciprocal round trip: got %v want %v", back.Float64(), x.Float64())
	}
}

func TestInvFixedHarmonicAdd(t *testing.T) {
	a := NewValue(2.0)
	b := NewValue(3.0)
	ia := NewInvFixed(a)
	ib := NewInvFixed(b)

	sum := AddInv(ia, ib)
	got := sum.ToFixed().Float64()
	want := (2.0 * 3.0) / (2.0 + 3.0) // harmonic combination: 1/(1/a+1/b)
	if diff := got - want; diff > 0.01 || diff < -0.01 {
		t.Errorf("AddInv: got %v want %v", got, want)
	}
}

func TestInvFixedMul(t *testing.T) {
	a := NewValue(2.0)
	b := NewValue(4.0)
	ia := NewInvFixed(a)
	ib := NewInvFixed(b)
	prod := MulInv(ia, ib)
	got := prod.ToFixed().Float64()
	want := 2.0 * 4.0
	if diff := got - want; diff > 0.01 || diff < -0.01 {
		t.Errorf("MulInv: got %v want %v", got, want)
	}
}

func TestDeltaTimeDividesVelocity(t *testing.T) {
	dt := NewTime(0.5)
	inv := NewDeltaTime(dt)
	speed := NewSpeed(10.0)
	got := inv.MulFixed(speed).Float64()
	want := 20.0 // 10 / 0.5
	if diff := got - want; diff > 0.1 || diff < -0.1 {
		t.Errorf("DeltaTime mul: got %v want %v", got, want)
	}
}
