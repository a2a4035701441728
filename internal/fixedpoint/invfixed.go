package fixedpoint

// InvFixed stores the reciprocal of a Fixed value in the same Q
// representation. It exists for denominators that get reused many times in
// a tick (e.g. 1/dt): computing the reciprocal once and multiplying is both
// cheaper and loses less precision than dividing by the same x repeatedly.
//
// Addition and subtraction are defined over the *original* denominators,
// not the stored reciprocals directly: InvFixed(a) + InvFixed(b) yields
// InvFixed(1/(1/a+1/b)), the harmonic combination (the same identity used
// for combining parallel resistances). Multiplication has no such twist:
// InvFixed(a) * InvFixed(b) is simply InvFixed(a*b), because multiplying
// two reciprocals is just the reciprocal of the product.
type InvFixed struct {
	val Fixed // stores 1/x
}

// NewInvFixed builds an InvFixed storing 1/x.
func NewInvFixed(x Fixed) InvFixed {
	return InvFixed{val: Reciprocal(x)}
}

// ToFixed recovers x from an InvFixed storing 1/x, by reciprocating again.
func (i InvFixed) ToFixed() Fixed {
	return Reciprocal(i.val)
}

// MulFixed returns f * (1/x) == f/x, the common "divide by a reused
// denominator" operation this type exists to serve.
func (i InvFixed) MulFixed(f Fixed) Fixed {
	return Mul(f, i.val)
}

// MulInv returns InvFixed(a*b) from InvFixed(a) and InvFixed(b).
func MulInv(a, b InvFixed) InvFixed {
	return InvFixed{val: Mul(a.val, b.val)}
}

// AddInv returns InvFixed(1/(1/a + 1/b)) given InvFixed(a), InvFixed(b).
func AddInv(a, b InvFixed) InvFixed {
	return InvFixed{val: Add(a.val, b.val)}
}

// SubInv returns InvFixed(1/(1/a - 1/b)) given InvFixed(a), InvFixed(b).
func SubInv(a, b InvFixed) InvFixed {
	return InvFixed{val: Sub(a.val, b.val)}
}

// Raw exposes the stored reciprocal's raw representation (for tests).
func (i InvFixed) Raw() int64 { return i.val.raw }
