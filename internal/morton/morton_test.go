package morton

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][2]int32{{0, 0}, {5, 5}, {-5, 5}, {-5, -5}, {5, -5}, {1000, -1000}}
	for _, c := range cases {
		code := Encode(c[0], c[1])
		gx, gy := Decode(code)
		if gx != c[0] || gy != c[1] {
			t.Errorf("Encode/Decode(%d,%d) round trip got (%d,%d)", c[0], c[1], gx, gy)
		}
	}
}

func TestQueryRangesSoundness(t *testing.T) {
	// Every entity whose cell lies within the query AABB must be covered
	// by the returned ranges (no false negatives; spec.md §8 scenario 6).
	entities := []struct{ x, y int32 }{
		{0, 0}, {1, 1}, {-1, 1}, {-1, -1}, {1, -1}, {31, 31}, {32, 32}, {-31, 5},
	}
	ranges := QueryRanges(-31, -31, 31, 31)
	for _, e := range entities {
		code := Encode(e.x, e.y)
		inAABB := e.x >= -31 && e.x <= 31 && e.y >= -31 && e.y <= 31
		if !inAABB {
			continue
		}
		covered := false
		for _, r := range ranges {
			if code >= r.Lo && code <= r.Hi {
				covered = true
				break
			}
		}
		if !covered {
			t.Errorf("entity (%d,%d) code=%d not covered by any returned range", e.x, e.y, code)
		}
	}
}

func TestQueryRangesExcludesFarAway(t *testing.T) {
	ranges := QueryRanges(-2, -2, 2, 2)
	far := Encode(10000, 10000)
	for _, r := range ranges {
		if far >= r.Lo && far <= r.Hi {
			t.Fatalf("far-away entity unexpectedly covered by range [%d,%d]", r.Lo, r.Hi)
		}
	}
}

type codedEntity struct {
	id   int
	code Code
}

func (c codedEntity) MortonCode() Code { return c.code }

func TestForEachInRangesVisitsExpected(t *testing.T) {
	entities := []codedEntity{
		{1, 10}, {2, 20}, {3, 30}, {4, 40}, {5, 50},
	}
	ranges := []Range{{Lo: 15, Hi: 35}}
	var visited []int
	ForEachInRanges(entities, ranges, func(e codedEntity) bool {
		visited = append(visited, e.id)
		return true
	})
	if len(visited) != 2 || visited[0] != 2 || visited[1] != 3 {
		t.Fatalf("visited = %v, want [2 3]", visited)
	}
}
