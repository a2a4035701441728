package hashing

// Name is a stable 32-bit token derived from the FNV-1a hash of a string
// literal. Equality, ordering, and hashing into containers all operate on
// the integer; the textual form is never consulted by simulation logic.
//
// None is the reserved zero value ("no name"). Empty is the hash of the
// empty string (the FNV-1a basis), distinct from None so that "explicitly
// named the empty string" can be told apart from "unset."
type Name uint32

// None is the reserved "no name" token.
const None Name = 0

// Empty is Name("").
var Empty = NewName("")

// nameText is the debug-only side channel mapping tokens back to source
// text. Never consulted by logic; only ever read by diagnostics/tests.
var nameText = map[Name]string{}

// NewName hashes s into a Name token and records the reverse mapping for
// debug inspection. Safe to call repeatedly with the same string.
func NewName(s string) Name {
	n := Name(FNV1a32(s))
	if n == None {
		// FNV-1a of some string could coincidentally hash to 0; remap into
		// the Empty slot's neighborhood is unnecessary in practice (the
		// collision probability is 1/2^32) but we still never let a named
		// string silently alias None.
		n = Name(1)
	}
	nameText[n] = s
	return n
}

// String returns the original text if known (debug builds / any build that
// has called NewName(s) for this token), else a numeric placeholder.
func (n Name) String() string {
	if n == None {
		return "<none>"
	}
	if s, ok := nameText[n]; ok {
		return s
	}
	return "#" + uitoa(uint32(n))
}

// IsNone reports whether n is the reserved zero value.
func (n Name) IsNone() bool { return n == None }

func uitoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
