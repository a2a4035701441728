package fixedpoint

// Named Q-formats from spec.md §3. These are the concrete frac/width pairs
// every simulation quantity is expressed in; callers should prefer the
// constructors below over calling New/FromFloat64 with a literal frac, so a
// misplaced Q-format shows up as a type name mismatch in review rather than
// a silent magnitude bug.
const (
	FracValue    uint8 = 12 // Value(Q12)
	FracDistance uint8 = 12 // Distance(Q12)
	FracTime     uint8 = 4  // Time(Q4)
	FracSpeed    uint8 = 16 // Speed(Q16)
	FracAngle    uint8 = 20 // Angle(Q20)
)

// NewValue constructs a Value(Q12) from a float64.
func NewValue(v float64) Fixed { return FromFloat64(v, FracValue, Width32) }

// NewDistance constructs a Distance(Q12) from a float64.
func NewDistance(v float64) Fixed { return FromFloat64(v, FracDistance, Width32) }

// NewTime constructs a Time(Q4) from a float64.
func NewTime(v float64) Fixed { return FromFloat64(v, FracTime, Width32) }

// NewSpeed constructs a Speed(Q16) from a float64.
func NewSpeed(v float64) Fixed { return FromFloat64(v, FracSpeed, Width32) }

// NewAngle constructs an Angle(Q20) from a float64 expressed in radians.
func NewAngle(v float64) Fixed { return FromFloat64(v, FracAngle, Width32) }

// RawQ32 wraps a raw int32 storage value with no scaling ("raw storage, no
// conversion" per spec.md §3).
func RawQ32(raw int32) Fixed { return New(int64(raw), 0, Width32) }

// RawQ64 wraps a raw int64 storage value with no scaling.
func RawQ64(raw int64) Fixed { return New(raw, 0, Width64) }

// DeltaTime is InvFixed<Time>: a reciprocal-form step duration used where
// many per-tick quantities are divided by the same dt (velocity
// integration, damping) — storing 1/dt once avoids repeating that division.
type DeltaTime = InvFixed

// NewDeltaTime builds a DeltaTime from a Time(Q4) duration.
func NewDeltaTime(dt Fixed) DeltaTime { return NewInvFixed(dt) }
