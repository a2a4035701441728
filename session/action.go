package session

import "github.com/phoenix-sim/phoenix-core/internal/fixedpoint"

// VariantKind tags which field of a Variant is live, standing in for the
// source's raw payload union (§6) with a safe tagged representation.
type VariantKind uint8

const (
	VariantNone VariantKind = iota
	VariantI64
	VariantU64
	VariantBool
	VariantName
	VariantFixed
	VariantVec2
)

// Variant is one slot of an Action's payload, per spec.md §6's
// `{ i8,u8,...,Name,Fixed32,Fixed64,Vec2 }` tagged union, collapsed to the
// integer/bool/Name/Fixed/Vec2 cases Phoenix's action verbs actually use.
type Variant struct {
	Kind  VariantKind
	Int   int64
	Bool  bool
	Name  string
	Fixed fixedpoint.Fixed
	Vec2  fixedpoint.Vec2
}

func IntVariant(v int64) Variant           { return Variant{Kind: VariantI64, Int: v} }
func BoolVariant(v bool) Variant           { return Variant{Kind: VariantBool, Bool: v} }
func NameVariant(v string) Variant         { return Variant{Kind: VariantName, Name: v} }
func FixedVariant(v fixedpoint.Fixed) Variant { return Variant{Kind: VariantFixed, Fixed: v} }
func Vec2Variant(v fixedpoint.Vec2) Variant   { return Variant{Kind: VariantVec2, Vec2: v} }

// MaxActionData is the fixed payload slot count, per spec.md §6's
// `[Variant; 8]`.
const MaxActionData = 8

// Action is a single queued command, per spec.md §6. TargetWorld being
// empty means "dispatch to all worlds".
type Action struct {
	Verb        string
	Data        [MaxActionData]Variant
	TargetWorld string
	Timestamp   int64
}
