package fixedpoint

import "math"

// tableLen is the quarter-wave table resolution: 1024 entries, per
// spec.md §4.1.
const tableLen = 1024

// cosTable[i] holds cos(i * (pi/2) / tableLen) expressed as a raw Angle-Q
// (FracAngle) value. Built once at init from math.Cos — this is the one
// place float64 legitimately touches the trig path: building a constant
// table at compile-adjacent time, not evaluating per-call.
var cosTable [tableLen + 1]int64

func init() {
	scale := float64(uint64(1) << FracAngle)
	for i := 0; i <= tableLen; i++ {
		angle := (math.Pi / 2) * float64(i) / float64(tableLen)
		cosTable[i] = int64(math.Round(math.Cos(angle) * scale))
	}
}

// twoPi and halfPi expressed as raw Angle-Q values, for reduction.
var (
	twoPiRaw  = int64(math.Round(2 * math.Pi * float64(uint64(1)<<FracAngle)))
	halfPiRaw = int64(math.Round((math.Pi / 2) * float64(uint64(1)<<FracAngle)))
)

// reduceAngle brings a raw Angle-Q value into [0, 2π) by signed integer
// modulo, returning the reduced raw value and its quadrant (0..3).
func reduceAngle(raw int64) (reduced int64, quadrant int) {
	reduced = raw % twoPiRaw
	if reduced < 0 {
		reduced += twoPiRaw
	}
	quadrant = int(reduced / halfPiRaw)
	if quadrant > 3 {
		quadrant = 3
	}
	return reduced, quadrant
}

// foldedIndex returns the table index for a reduced-into-quadrant angle in
// [0, halfPiRaw).
func foldedIndex(inQuadrant int64) int {
	idx := (inQuadrant * tableLen) / halfPiRaw
	if idx < 0 {
		idx = 0
	}
	if idx > tableLen {
		idx = tableLen
	}
	return int(idx)
}

// Cos returns cos(theta) as a Fixed(FracAngle), theta an Angle(FracAngle)
// Fixed. Deterministic: reduces by integer modulo, folds the quadrant, and
// looks up the quarter-wave table — never calls math.Cos at runtime.
func Cos(theta Fixed) Fixed {
	reduced, quadrant := reduceAngle(theta.Rescale(FracAngle, Width64).raw)
	inQuad := reduced - int64(quadrant)*halfPiRaw

	switch quadrant {
	case 0:
		return tableLookup(foldedIndex(inQuad), false)
	case 1:
		return tableLookup(tableLen-foldedIndex(inQuad), true)
	case 2:
		return tableLookup(foldedIndex(inQuad), true)
	default: // 3
		return tableLookup(tableLen-foldedIndex(inQuad), false)
	}
}

// Sin returns sin(theta) as a Fixed(FracAngle). sin(x) = cos(pi/2 - x)
// folded through the same table by reading TABLE_LEN - i within each
// quadrant branch, per spec.md §4.1.
func Sin(theta Fixed) Fixed {
	reduced, quadrant := reduceAngle(theta.Rescale(FracAngle, Width64).raw)
	inQuad := reduced - int64(quadrant)*halfPiRaw

	switch quadrant {
	case 0:
		return tableLookup(tableLen-foldedIndex(inQuad), false)
	case 1:
		return tableLookup(foldedIndex(inQuad), false)
	case 2:
		return tableLookup(tableLen-foldedIndex(inQuad), true)
	default: // 3
		return tableLookup(foldedIndex(inQuad), true)
	}
}

func tableLookup(idx int, negate bool) Fixed {
	if idx < 0 {
		idx = 0
	}
	if idx > tableLen {
		idx = tableLen
	}
	raw := cosTable[idx]
	if negate {
		raw = -raw
	}
	return Fixed{raw: raw, frac: FracAngle, width: Width32}.saturate()
}

// cordicIterations is the fixed CORDIC vectoring-mode iteration count for
// Atan2, per spec.md §4.1.
const cordicIterations = 24

// cordicAngles[i] = atan(1/2^i) expressed as raw Angle-Q values. Atan2
// uses only the accumulated angle, so the CORDIC gain is never applied.
var cordicAngles [cordicIterations]int64

func init() {
	scale := float64(uint64(1) << FracAngle)
	for i := 0; i < cordicIterations; i++ {
		cordicAngles[i] = int64(math.Round(math.Atan(1/math.Pow(2, float64(i))) * scale))
	}
}

// Atan2 computes atan2(y, x) via 24-iteration CORDIC vectoring mode on
// Distance-scaled inputs, returning an Angle(FracAngle) Fixed. Sign/quadrant
// folding handles x<0 with a π correction, per spec.md §4.1.
func Atan2(y, x Fixed) Fixed {
	xi := x.Rescale(FracDistance, Width64).raw
	yi := y.Rescale(FracDistance, Width64).raw

	negateX := xi < 0
	if negateX {
		xi, yi = -xi, -yi
	}

	var angle int64
	cx, cy := xi, yi
	for i := 0; i < cordicIterations; i++ {
		shiftX := cx >> uint(i)
		shiftY := cy >> uint(i)
		if cy < 0 {
			cx, cy = cx-shiftY, cy+shiftX
			angle -= cordicAngles[i]
		} else {
			cx, cy = cx+shiftY, cy-shiftX
			angle += cordicAngles[i]
		}
	}

	result := Fixed{raw: angle, frac: FracAngle, width: Width32}.saturate()
	if negateX {
		piRaw := Fixed{raw: halfPiRaw * 2, frac: FracAngle, width: Width32}
		if yi > 0 {
			return Sub(result, piRaw)
		}
		return Add(result, piRaw)
	}
	return result
}
