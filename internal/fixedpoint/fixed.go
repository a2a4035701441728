// Package fixedpoint implements Phoenix's deterministic numeric kernel: a
// Q-format fixed-point scalar, its reciprocal form, a 2D vector built on
// top, and table/CORDIC trigonometry. No float64/float32 arithmetic
// participates in any value computed here except at the float<->fixed
// conversion boundary (construction from / export to a double), matching
// the no-float-on-sim-paths non-goal.
package fixedpoint

import (
	"math"
	"math/big"
)

// Width is the storage width of a Fixed's backing integer, used only to
// decide saturation bounds on narrowing operations.
type Width uint8

const (
	Width32 Width = 32
	Width64 Width = 64
)

func (w Width) bounds() (lo, hi int64) {
	if w == Width32 {
		return math.MinInt32, math.MaxInt32
	}
	return math.MinInt64, math.MaxInt64
}

// maxFrac is the largest fractional bit count accepted for a given width,
// enforcing spec's invariant B < bitwidth(T) - 2.
func (w Width) maxFrac() uint8 {
	if w == Width32 {
		return 29
	}
	return 61
}

// Fixed is a Q-format scalar: raw represents value * 2^frac. width governs
// the saturation range applied on narrowing arithmetic; it does not bound
// the Go storage type (raw is always int64 internally — the 128-bit-helper
// role spec.md assigns to a wider intermediate is served here by raw
// already being 64-bit plus a big.Int fallback in the rare case a
// multiply/divide would overflow it).
type Fixed struct {
	raw   int64
	frac  uint8
	width Width
}

// New constructs a Fixed directly from a raw storage integer, with no
// scaling — the "raw storage, no conversion" Q-wrapper contract (Q32/Q64
// in spec.md §3).
func New(raw int64, frac uint8, width Width) Fixed {
	if frac > width.maxFrac() {
		panic("fixedpoint: frac exceeds bitwidth(T)-2 invariant")
	}
	return Fixed{raw: raw, frac: frac, width: width}.saturate()
}

// FromInt constructs Fixed from an integer value, multiplying by 2^frac.
func FromInt(v int64, frac uint8, width Width) Fixed {
	return New(v<<frac, frac, width)
}

// FromFloat64 constructs Fixed from a float64 by multiplying by 2^frac and
// truncating toward zero, per spec.md's conversion contract.
func FromFloat64(v float64, frac uint8, width Width) Fixed {
	scaled := v * float64(uint64(1)<<frac)
	return New(int64(scaled), frac, width) // int64() truncates toward zero
}

// Float64 divides the storage integer by 2^frac, the inverse of
// FromFloat64. This is the only place a Fixed's value leaves fixed-point
// representation; it must never feed back into a simulation computation.
func (f Fixed) Float64() float64 {
	return float64(f.raw) / float64(uint64(1)<<f.frac)
}

// Raw returns the underlying scaled storage integer.
func (f Fixed) Raw() int64 { return f.raw }

// Frac returns the fractional bit count B.
func (f Fixed) Frac() uint8 { return f.frac }

// Width returns the storage width used for saturation.
func (f Fixed) Width() Width { return f.width }

// Rescale converts f to a new (frac, width), saturating at the destination
// width's range — the Fixed<B',T'> conversion-from-another-Fixed contract.
func (f Fixed) Rescale(frac uint8, width Width) Fixed {
	raw := f.raw
	if frac >= f.frac {
		raw = raw << (frac - f.frac)
	} else {
		raw = raw >> (f.frac - frac)
	}
	return Fixed{raw: raw, frac: frac, width: width}.saturate()
}

func (f Fixed) saturate() Fixed {
	lo, hi := f.width.bounds()
	if f.raw < lo {
		f.raw = lo
	} else if f.raw > hi {
		f.raw = hi
	}
	return f
}

func maxFrac(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

func minFrac(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func maxWidth(a, b Width) Width {
	if a == Width64 || b == Width64 {
		return Width64
	}
	return Width32
}

// alignTo rescales f's raw value to represent it at exponent target,
// without touching width/saturation — an internal helper for binary ops
// that must align operands to a common B before combining them.
func (f Fixed) alignTo(target uint8) int64 {
	if target >= f.frac {
		return f.raw << (target - f.frac)
	}
	return f.raw >> (f.frac - target)
}

// Add returns a+b as a Fixed<max(A,B)>, per spec.md §4.1.
func Add(a, b Fixed) Fixed {
	m := maxFrac(a.frac, b.frac)
	raw := a.alignTo(m) + b.alignTo(m)
	return Fixed{raw: raw, frac: m, width: maxWidth(a.width, b.width)}.saturate()
}

// Sub returns a-b as a Fixed<max(A,B)>.
func Sub(a, b Fixed) Fixed {
	m := maxFrac(a.frac, b.frac)
	raw := a.alignTo(m) - b.alignTo(m)
	return Fixed{raw: raw, frac: m, width: maxWidth(a.width, b.width)}.saturate()
}

// Neg returns -a, preserving frac/width.
func Neg(a Fixed) Fixed {
	return Fixed{raw: -a.raw, frac: a.frac, width: a.width}.saturate()
}

// Mul returns a*b as a Fixed<max(A,B)>: value (i64(a)*b) >> min(A,B), widened
// through big.Int whenever the 64-bit intermediate could overflow.
func Mul(a, b Fixed) Fixed {
	shift := minFrac(a.frac, b.frac)
	m := maxFrac(a.frac, b.frac)
	raw := mulShiftRight(a.raw, b.raw, shift)
	return Fixed{raw: raw, frac: m, width: maxWidth(a.width, b.width)}.saturate()
}

// Div returns a/b as a Fixed<max(A,B)>. Division by zero saturates to the
// signed extreme of the result width (there is no overflow/NaN signal in
// this kernel, per spec.md §7's numerical-saturation policy).
func Div(a, b Fixed) Fixed {
	m := maxFrac(a.frac, b.frac)
	width := maxWidth(a.width, b.width)
	if b.raw == 0 {
		if a.raw < 0 {
			lo, _ := width.bounds()
			return Fixed{raw: lo, frac: m, width: width}
		}
		_, hi := width.bounds()
		return Fixed{raw: hi, frac: m, width: width}
	}
	// raw_result = (a.raw << (m - A + B)) / b.raw: a is a.raw/2^A and b is
	// b.raw/2^B, so the quotient expressed at exponent m is
	// a.raw * 2^(m-A+B) / b.raw, a single shift-then-divide.
	shift := int(m) - int(a.frac) + int(b.frac)
	raw := shiftDivide(a.raw, shift, b.raw)
	return Fixed{raw: raw, frac: m, width: width}.saturate()
}

// Abs returns the absolute value. Abs(Min) saturates to Max, matching the
// testable property in spec.md §8 (no representable negation of the most
// negative value).
func Abs(a Fixed) Fixed {
	if a.raw >= 0 {
		return a
	}
	if a.raw == math.MinInt64 {
		return Fixed{raw: math.MaxInt64, frac: a.frac, width: a.width}
	}
	return Neg(a)
}

// EqualTolerant reports whether a and b are within ±1 ULP of each other
// after normalizing both to their common (max) exponent — the tolerant
// equality contract in spec.md §3.
func EqualTolerant(a, b Fixed) bool {
	m := maxFrac(a.frac, b.frac)
	ra, rb := a.alignTo(m), b.alignTo(m)
	diff := ra - rb
	if diff < 0 {
		diff = -diff
	}
	return diff <= 1
}

// Reciprocal computes 1/a in the same (frac, width) as a. Used by InvFixed
// construction and conversion.
func Reciprocal(a Fixed) Fixed {
	if a.raw == 0 {
		_, hi := a.width.bounds()
		return Fixed{raw: hi, frac: a.frac, width: a.width}
	}
	// value = 1/(raw/2^B) = 2^B/raw; result raw at exponent B is
	// 2^(2B)/raw.
	shift := 2 * int(a.frac)
	raw := shiftDivide(1, shift, a.raw)
	return Fixed{raw: raw, frac: a.frac, width: a.width}.saturate()
}

// mulShiftRight computes (a*b) >> shift using a 128-bit intermediate via
// math/big, avoiding the int64 overflow that a naive a*b could hit for
// large Distance dot products (spec.md's "128-bit helper").
func mulShiftRight(a, b int64, shift uint8) int64 {
	prod := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	prod.Rsh(prod, uint(shift))
	return clampToInt64(prod)
}

// shiftDivide computes (num << shift) / den (shift may be negative, meaning
// a right shift) using a big.Int intermediate.
func shiftDivide(num int64, shift int, den int64) int64 {
	n := big.NewInt(num)
	if shift >= 0 {
		n.Lsh(n, uint(shift))
	} else {
		n.Rsh(n, uint(-shift))
	}
	q := new(big.Int).Quo(n, big.NewInt(den))
	return clampToInt64(q)
}

func clampToInt64(v *big.Int) int64 {
	if v.IsInt64() {
		return v.Int64()
	}
	if v.Sign() < 0 {
		return math.MinInt64
	}
	return math.MaxInt64
}
