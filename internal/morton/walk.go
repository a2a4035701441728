package morton

import "sort"

// Coded is anything a sorted-by-Z array element exposes for range walking.
type Coded interface {
	MortonCode() Code
}

// ForEachInRanges performs one lower-bound binary search per range over a
// slice already sorted by MortonCode (ascending — the Z-order sort point of
// spec.md §4.8 step 1), walking forward while codes lie within [Lo, Hi], and
// invoking visit for each. Stops early if visit returns false.
func ForEachInRanges[T Coded](sorted []T, ranges []Range, visit func(T) bool) {
	for _, r := range ranges {
		start := sort.Search(len(sorted), func(i int) bool {
			return sorted[i].MortonCode() >= r.Lo
		})
		for i := start; i < len(sorted); i++ {
			c := sorted[i].MortonCode()
			if c > r.Hi {
				break
			}
			if !visit(sorted[i]) {
				return
			}
		}
	}
}
