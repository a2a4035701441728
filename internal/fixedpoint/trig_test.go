package fixedpoint

import (
	"math"
	"testing"
)

func TestSinCosPythagorean(t *testing.T) {
	angles := []float64{0, 0.3, math.Pi / 4, math.Pi / 2, math.Pi, 1.5 * math.Pi, 2*math.Pi - 0.1}
	for _, a := range angles {
		theta := NewAngle(a)
		s := Sin(theta).Float64()
		c := Cos(theta).Float64()
		sum := s*s + c*c
		if sum < 0.99 || sum > 1.01 {
			t.Errorf("angle %v: sin^2+cos^2 = %v, want ~1", a, sum)
		}
	}
}

func TestCosMatchesMathWithinLUTTolerance(t *testing.T) {
	for _, a := range []float64{0, math.Pi / 6, math.Pi / 3, math.Pi / 2, math.Pi} {
		got := Cos(NewAngle(a)).Float64()
		want := math.Cos(a)
		if diff := got - want; diff > 0.01 || diff < -0.01 {
			t.Errorf("Cos(%v) = %v, want ~%v", a, got, want)
		}
	}
}

func TestSinCosDeterministic(t *testing.T) {
	theta := NewAngle(1.2345)
	a1, b1 := Sin(theta), Cos(theta)
	a2, b2 := Sin(theta), Cos(theta)
	if a1 != a2 || b1 != b2 {
		t.Fatalf("trig LUT evaluation is not repeatable for identical input")
	}
}

func TestAtan2Quadrants(t *testing.T) {
	cases := []struct {
		y, x float64
		want float64
	}{
		{0, 1, 0},
		{1, 0, math.Pi / 2},
		{0, -1, math.Pi},
		{-1, 0, -math.Pi / 2},
	}
	for _, c := range cases {
		got := Atan2(NewDistance(c.y), NewDistance(c.x)).Float64()
		if diff := got - c.want; diff > 0.1 || diff < -0.1 {
			t.Errorf("Atan2(%v,%v) = %v, want ~%v", c.y, c.x, got, c.want)
		}
	}
}
