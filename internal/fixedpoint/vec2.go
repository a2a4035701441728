package fixedpoint

// Vec2 is a pair of Fixed components sharing a Distance(Q12) Q-format
// unless otherwise rescaled by the caller. Dot/cross products are
// Value-typed per spec.md §3.
type Vec2 struct {
	X, Y Fixed
}

// NewVec2 builds a Vec2 from two float64 coordinates as Distance(Q12).
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: NewDistance(x), Y: NewDistance(y)}
}

// Add returns a+b component-wise.
func (a Vec2) Add(b Vec2) Vec2 { return Vec2{Add(a.X, b.X), Add(a.Y, b.Y)} }

// Sub returns a-b component-wise.
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{Sub(a.X, b.X), Sub(a.Y, b.Y)} }

// Scale returns a scaled by s.
func (a Vec2) Scale(s Fixed) Vec2 { return Vec2{Mul(a.X, s), Mul(a.Y, s)} }

// Neg returns -a.
func (a Vec2) Neg() Vec2 { return Vec2{Neg(a.X), Neg(a.Y)} }

// Dot returns a Value-typed a·b.
func (a Vec2) Dot(b Vec2) Fixed {
	return Add(Mul(a.X, b.X), Mul(a.Y, b.Y)).Rescale(FracValue, Width32)
}

// Cross returns the Value-typed 2D cross product a.x*b.y - a.y*b.x.
func (a Vec2) Cross(b Vec2) Fixed {
	return Sub(Mul(a.X, b.Y), Mul(a.Y, b.X)).Rescale(FracValue, Width32)
}

// LengthSquared returns x²+y² as a Distance-scaled Fixed.
func (a Vec2) LengthSquared() Fixed {
	return Add(Mul(a.X, a.X), Mul(a.Y, a.Y))
}

// Length returns sqrt(x²+y²) via fixed-point Newton iteration, per
// spec.md §4.1: r ← (r + (x<<B)/r) / 2, iterated ~bit_width(x)/2 times.
func (a Vec2) Length() Fixed {
	return Sqrt(a.LengthSquared())
}

// Sqrt computes the fixed-point square root of x via Newton's method. x
// must be non-negative; negative inputs return zero (there is no NaN
// representation in this kernel).
func Sqrt(x Fixed) Fixed {
	if x.raw <= 0 {
		return Fixed{raw: 0, frac: x.frac, width: x.width}
	}

	// Seed the iteration with a rough power-of-two estimate of the root so
	// convergence is fast regardless of magnitude.
	r := x.raw
	if r == 0 {
		r = 1
	}
	seed := int64(1)
	for seed*seed < r {
		seed <<= 1
	}

	iterations := bitWidth(uint64(r))/2 + 2
	for i := 0; i < iterations; i++ {
		if seed == 0 {
			seed = 1
		}
		// r ← (r + (x<<B)/r) / 2, operating on raw storage: x is at
		// exponent x.frac representing value x.raw/2^frac, so its square
		// root at the same exponent satisfies root.raw ≈ sqrt(x.raw *
		// 2^frac).
		num := (x.raw << x.frac) / seed
		seed = (seed + num) / 2
	}
	return Fixed{raw: seed, frac: x.frac, width: x.width}.saturate()
}

func bitWidth(v uint64) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

// Rotate returns a rotated by theta (an Angle(FracAngle) Fixed), using the
// LUT-based Cos/Sin.
func (a Vec2) Rotate(theta Fixed) Vec2 {
	c, s := Cos(theta), Sin(theta)
	return Vec2{
		X: Sub(Mul(a.X, c), Mul(a.Y, s)),
		Y: Add(Mul(a.X, s), Mul(a.Y, c)),
	}
}

// Angle returns atan2(y, x) via CORDIC.
func (a Vec2) Angle() Fixed {
	return Atan2(a.Y, a.X)
}

// Normalized returns a unit-length vector in the direction of a. The zero
// vector normalizes to itself (no direction to express).
func (a Vec2) Normalized() Vec2 {
	length := a.Length()
	if length.raw == 0 {
		return a
	}
	inv := NewInvFixed(length)
	return Vec2{X: inv.MulFixed(a.X), Y: inv.MulFixed(a.Y)}
}
